package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Rana718/Seedling/internal/database/common"
	"github.com/Rana718/Seedling/internal/schema"
)

func (p *Adapter) CreateOrReplaceTable(ctx context.Context, name string, columns []schema.ColumnDef) error {
	table := p.dialect.QuoteIdent(name)
	stmt := common.CreateTableSQL(p.dialect, name, columns)

	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		return nil
	})
}

func (p *Adapter) CreateTableIfNotExists(ctx context.Context, name string, columns []schema.ColumnDef, primaryKey []string) error {
	body := common.ColumnList(p.dialect, columns)
	if len(primaryKey) > 0 {
		body += ", PRIMARY KEY (" + strings.Join(common.QuoteAll(p.dialect, primaryKey), ", ") + ")"
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", p.dialect.QuoteIdent(name), body)
	if _, err := p.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

func (p *Adapter) InsertRow(ctx context.Context, table string, row *common.Row) error {
	query, args, err := p.qb.Insert(p.dialect.QuoteIdent(table)).
		Columns(common.QuoteAll(p.dialect, row.Columns)...).
		Values(row.Values...).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (p *Adapter) SelectOneWhere(ctx context.Context, table string, where squirrel.Eq) (map[string]interface{}, error) {
	query, args, err := p.qb.Select("*").From(p.dialect.QuoteIdent(table)).Where(common.QuoteEq(p.dialect, where)).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	result, err := p.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return result.First(), nil
}

func (p *Adapter) ListTables(ctx context.Context) ([]string, error) {
	query, args, err := p.qb.Select("table_name::text").From("information_schema.tables").
		Where("table_schema = current_schema()").
		Where(squirrel.Eq{"table_type": "BASE TABLE"}).
		OrderBy("table_name").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (p *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	query, args, err := p.qb.Select("COUNT(*)").From(p.dialect.QuoteIdent(table)).ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/Seedling/internal/database/common"
	"github.com/Rana718/Seedling/internal/schema"
)

func (s *Adapter) CreateOrReplaceTable(ctx context.Context, name string, columns []schema.ColumnDef) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	table := s.dialect.QuoteIdent(name)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	stmt := common.CreateTableSQL(s.dialect, name, columns)
	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return tx.Commit()
}

func (s *Adapter) CreateTableIfNotExists(ctx context.Context, name string, columns []schema.ColumnDef, primaryKey []string) error {
	body := common.ColumnList(s.dialect, columns)
	if len(primaryKey) > 0 {
		body += ", PRIMARY KEY (" + strings.Join(common.QuoteAll(s.dialect, primaryKey), ", ") + ")"
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", s.dialect.QuoteIdent(name), body)
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

func (s *Adapter) InsertRow(ctx context.Context, table string, row *common.Row) error {
	query, args, err := s.qb.Insert(s.dialect.QuoteIdent(table)).
		Columns(common.QuoteAll(s.dialect, row.Columns)...).
		Values(row.Values...).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (s *Adapter) SelectOneWhere(ctx context.Context, table string, where squirrel.Eq) (map[string]interface{}, error) {
	query, args, err := s.qb.Select("*").From(s.dialect.QuoteIdent(table)).Where(common.QuoteEq(s.dialect, where)).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	result, err := s.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return result.First(), nil
}

func (s *Adapter) ListTables(ctx context.Context) ([]string, error) {
	query, args, err := s.qb.Select("name").From("sqlite_master").
		Where(squirrel.Eq{"type": "table"}).
		Where(squirrel.NotLike{"name": "sqlite_%"}).
		OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	result, err := s.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		names = append(names, fmt.Sprint(row["name"]))
	}
	return names, nil
}

func (s *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	query, args, err := s.qb.Select("COUNT(*)").From(s.dialect.QuoteIdent(table)).ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

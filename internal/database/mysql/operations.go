package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/Seedling/internal/database/common"
	"github.com/Rana718/Seedling/internal/schema"
)

// CreateOrReplaceTable drops and recreates name on one pinned connection with
// foreign key checks off, so a referenced table can be replaced. MySQL commits
// DDL implicitly, so the statements are not atomic.
func (m *Adapter) CreateOrReplaceTable(ctx context.Context, name string, columns []schema.ColumnDef) error {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		return err
	}
	defer conn.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1")

	table := m.dialect.QuoteIdent(name)
	if _, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	stmt := common.CreateTableSQL(m.dialect, name, columns)
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

func (m *Adapter) CreateTableIfNotExists(ctx context.Context, name string, columns []schema.ColumnDef, primaryKey []string) error {
	body := common.ColumnList(m.dialect, columns)
	if len(primaryKey) > 0 {
		body += ", PRIMARY KEY (" + strings.Join(common.QuoteAll(m.dialect, primaryKey), ", ") + ")"
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", m.dialect.QuoteIdent(name), body)
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %s: %w", name, err)
	}
	return nil
}

func (m *Adapter) InsertRow(ctx context.Context, table string, row *common.Row) error {
	query, args, err := m.qb.Insert(m.dialect.QuoteIdent(table)).
		Columns(common.QuoteAll(m.dialect, row.Columns)...).
		Values(row.Values...).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := m.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (m *Adapter) SelectOneWhere(ctx context.Context, table string, where squirrel.Eq) (map[string]interface{}, error) {
	query, args, err := m.qb.Select("*").From(m.dialect.QuoteIdent(table)).Where(common.QuoteEq(m.dialect, where)).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	result, err := m.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return result.First(), nil
}

func (m *Adapter) ListTables(ctx context.Context) ([]string, error) {
	query, args, err := m.qb.Select("table_name AS name").From("information_schema.tables").
		Where(squirrel.Eq{"table_schema": m.database, "table_type": "BASE TABLE"}).
		OrderBy("table_name").ToSql()
	if err != nil {
		return nil, err
	}
	result, err := m.ExecuteQuery(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		names = append(names, fmt.Sprint(row["name"]))
	}
	return names, nil
}

func (m *Adapter) CountRows(ctx context.Context, table string) (int64, error) {
	query, args, err := m.qb.Select("COUNT(*)").From(m.dialect.QuoteIdent(table)).ToSql()
	if err != nil {
		return 0, err
	}
	var count int64
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

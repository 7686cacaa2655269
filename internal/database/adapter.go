package database

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/Seedling/internal/database/common"
	"github.com/Rana718/Seedling/internal/schema"
)

type (
	Row         = common.Row
	Dialect     = common.Dialect
	QueryResult = common.QueryResult
)

var (
	NewRow    = common.NewRow
	RenderDDL = common.RenderDDL
)

// Store is the narrow set of persistence operations generation needs.
type Store interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error
	Dialect() common.Dialect

	CreateOrReplaceTable(ctx context.Context, name string, columns []schema.ColumnDef) error
	CreateTableIfNotExists(ctx context.Context, name string, columns []schema.ColumnDef, primaryKey []string) error
	InsertRow(ctx context.Context, table string, row *common.Row) error
	// SelectOneWhere returns the first matching row, or nil when none matches.
	SelectOneWhere(ctx context.Context, table string, where squirrel.Eq) (map[string]interface{}, error)
	ExecuteUpdate(ctx context.Context, stmt string, args ...interface{}) (int64, error)
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error)

	ListTables(ctx context.Context) ([]string, error)
	CountRows(ctx context.Context, table string) (int64, error)
}

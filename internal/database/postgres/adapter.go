package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/Rana718/Seedling/internal/database/common"
)

type Adapter struct {
	pool    *pgxpool.Pool
	qb      squirrel.StatementBuilderType
	dialect Dialect
}

var typeMap = map[string]string{
	"varchar": "VARCHAR", "text": "TEXT",
	"integer": "INTEGER", "int": "INTEGER", "bigint": "BIGINT",
	"float": "DOUBLE PRECISION", "real": "REAL", "numeric": "NUMERIC",
	"date": "DATE", "timestamp": "TIMESTAMP",
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	// Describe statements so generated date strings bind to DATE parameters.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) Dialect() common.Dialect {
	return p.dialect
}

func (p *Adapter) ExecuteQuery(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columns[i] = fd.Name
	}

	var results []map[string]interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return &common.QueryResult{
		Columns: columns,
		Rows:    results,
	}, nil
}

func (p *Adapter) ExecuteUpdate(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	tag, err := p.pool.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	return tag.RowsAffected(), nil
}

type Dialect struct{}

func (Dialect) Name() string { return "postgresql" }

func (Dialect) MapColumnType(baseType string) string {
	return common.MapType(typeMap, baseType)
}

func (Dialect) QuoteIdent(name string) string {
	return pq.QuoteIdentifier(name)
}

func (Dialect) RandomInt(lo, hi int64) string {
	return fmt.Sprintf("(%d + floor(random() * %d)::bigint)", lo, hi-lo+1)
}

// ShiftDays relies on date + integer yielding a date.
func (Dialect) ShiftDays(dateExpr, daysExpr string) string {
	return fmt.Sprintf("(%s + (%s)::integer)", dateExpr, daysExpr)
}

func (Dialect) RandomOrder() string { return "random()" }

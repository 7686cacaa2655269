package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rana718/Seedling/internal/database/common"
)

type Adapter struct {
	db      *sql.DB
	qb      squirrel.StatementBuilderType
	path    string
	dialect Dialect
}

var typeMap = map[string]string{
	"varchar": "TEXT", "text": "TEXT", "char": "TEXT",
	"int": "INTEGER", "integer": "INTEGER", "bigint": "INTEGER",
	"real": "REAL", "double": "REAL", "float": "REAL",
	"date": "TEXT", "datetime": "TEXT", "timestamp": "TEXT",
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}
}

func (s *Adapter) Connect(ctx context.Context, url string) error {
	dbPath := strings.TrimPrefix(url, "sqlite://")
	s.path = dbPath
	if idx := strings.Index(s.path, "?"); idx > 0 {
		s.path = s.path[:idx]
	}
	if !strings.Contains(dbPath, "?") {
		dbPath += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// A single writer keeps the ledger check-then-insert sequential.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) Path() string {
	return s.path
}

func (s *Adapter) Dialect() common.Dialect {
	return s.dialect
}

func (s *Adapter) ExecuteQuery(ctx context.Context, query string, args ...interface{}) (*common.QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return common.ScanRows(rows)
}

func (s *Adapter) ExecuteUpdate(ctx context.Context, stmt string, args ...interface{}) (int64, error) {
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute statement: %w", err)
	}
	return res.RowsAffected()
}

// Dialect renders SQLite expressions. Dates are stored as ISO-8601 TEXT.
type Dialect struct{}

func (Dialect) Name() string { return "sqlite" }

func (Dialect) MapColumnType(baseType string) string {
	return common.MapType(typeMap, baseType)
}

func (Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Dialect) RandomInt(lo, hi int64) string {
	span := hi - lo + 1
	return fmt.Sprintf("(%d + ((random() %% %d) + %d) %% %d)", lo, span, span, span)
}

func (Dialect) ShiftDays(dateExpr, daysExpr string) string {
	return fmt.Sprintf("date(%s, (%s) || ' days')", dateExpr, daysExpr)
}

func (Dialect) RandomOrder() string { return "random()" }

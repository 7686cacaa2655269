package seeder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rana718/Seedling/internal/database"
	"github.com/Rana718/Seedling/internal/schema"
)

// Applier fills columns left NULL during generation according to a custom
// constraint. Rows that already hold a value are never touched.
type Applier struct {
	store         database.Store
	maxOffsetDays int
	logger        *zap.Logger
}

func NewApplier(store database.Store, maxOffsetDays int, logger *zap.Logger) *Applier {
	if maxOffsetDays <= 0 {
		maxOffsetDays = DefaultMaxOffsetDays
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{store: store, maxOffsetDays: maxOffsetDays, logger: logger}
}

// ApplyExpression parses expr and applies it to table.column.
func (a *Applier) ApplyExpression(ctx context.Context, table, column, expr string) (int64, error) {
	c, err := schema.ParseCustomConstraint(expr)
	if err != nil {
		return 0, err
	}
	return a.Apply(ctx, table, column, c)
}

// Apply runs one UPDATE over the NULL rows of table.column and returns the
// number of rows it changed.
func (a *Applier) Apply(ctx context.Context, table, column string, c schema.CustomConstraint) (int64, error) {
	stmt, err := a.statement(table, column, c)
	if err != nil {
		return 0, err
	}

	n, err := a.store.ExecuteUpdate(ctx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to apply %s to %s.%s: %w", c, table, column, err)
	}
	a.logger.Info("custom constraint applied",
		zap.String("table", table),
		zap.String("column", column),
		zap.String("constraint", c.String()),
		zap.Int64("rows", n))
	return n, nil
}

func (a *Applier) statement(table, column string, c schema.CustomConstraint) (string, error) {
	d := a.store.Dialect()
	target := d.QuoteIdent(column)

	var value, guard string
	switch c.Kind {
	case schema.ConstraintBetween:
		value = d.RandomInt(c.Min, c.Max)
	case schema.ConstraintAfter, schema.ConstraintBefore:
		// Offsets start at one day so the result is strictly after (or
		// before) the referenced value.
		days := d.RandomInt(1, int64(a.maxOffsetDays))
		if c.Kind == schema.ConstraintBefore {
			days = "-" + days
		}
		// The outer-column predicate correlates the subquery so each row
		// draws its own referenced row instead of sharing one result.
		ref := "r." + d.QuoteIdent(c.Ref.Column)
		outer := d.QuoteIdent(table) + "." + target
		value = fmt.Sprintf("(SELECT %s FROM %s r WHERE %s IS NOT NULL AND %s IS NULL ORDER BY %s LIMIT 1)",
			d.ShiftDays(ref, days), d.QuoteIdent(c.Ref.Table), ref, outer, d.RandomOrder())
		// Without a non-NULL referenced value there is nothing to derive
		// from; those rows stay NULL and are not counted.
		guard = fmt.Sprintf(" AND EXISTS (SELECT 1 FROM %s r WHERE %s IS NOT NULL)", d.QuoteIdent(c.Ref.Table), ref)
	default:
		return "", fmt.Errorf("%w: %s", schema.ErrUnsupportedConstraint, c.Kind)
	}

	return fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s IS NULL%s", d.QuoteIdent(table), target, value, target, guard), nil
}

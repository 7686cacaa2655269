package seeder

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// UniqueTracker hands out values that were never issued before for a
// (table, column) pair, as recorded by its Ledger.
type UniqueTracker struct {
	gen         *DataGenerator
	ledger      Ledger
	maxAttempts int
	logger      *zap.Logger
}

func NewUniqueTracker(gen *DataGenerator, ledger Ledger, maxAttempts int, logger *zap.Logger) *UniqueTracker {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxUniqueAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UniqueTracker{gen: gen, ledger: ledger, maxAttempts: maxAttempts, logger: logger}
}

// Reserve draws candidates until one is fresh, records it and returns it.
// Each attempt is an independent draw; after widenAfter collisions in a row
// the candidate combines two draws to escape a crowded domain.
func (u *UniqueTracker) Reserve(ctx context.Context, table, column, baseType string) (interface{}, error) {
	for attempt := 0; attempt < u.maxAttempts; attempt++ {
		candidate, err := u.draw(baseType, attempt)
		if err != nil {
			return nil, err
		}

		key := stringify(candidate)
		issued, err := u.ledger.Issued(ctx, table, column, key)
		if err != nil {
			return nil, err
		}
		if issued {
			continue
		}

		if err := u.ledger.Record(ctx, table, column, key); err != nil {
			return nil, err
		}
		if attempt > 0 {
			u.logger.Debug("unique value reserved after collisions",
				zap.String("table", table),
				zap.String("column", column),
				zap.Int("attempts", attempt+1))
		}
		return candidate, nil
	}

	return nil, fmt.Errorf("%w: %s.%s after %d attempts", ErrUniquenessExhausted, table, column, u.maxAttempts)
}

func (u *UniqueTracker) draw(baseType string, attempt int) (interface{}, error) {
	first, err := u.gen.Generate(baseType)
	if err != nil {
		return nil, err
	}
	if attempt < widenAfter {
		return first, nil
	}
	second, err := u.gen.Generate(baseType)
	if err != nil {
		return nil, err
	}
	return u.gen.combine(baseType, first, second), nil
}

package seeder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rana718/Seedling/internal/database/sqlite"
	"github.com/Rana718/Seedling/internal/schema"
)

func newTestStore(t *testing.T) *sqlite.Adapter {
	t.Helper()
	store := sqlite.New()
	require.NoError(t, store.Connect(context.Background(), filepath.Join(t.TempDir(), "seedling.db")))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReserveIsUnique(t *testing.T) {
	ctx := context.Background()
	ledger := NewEphemeralLedger()
	tracker := NewUniqueTracker(testGenerator(11), ledger, 0, zap.NewNop())

	seen := make(map[interface{}]bool)
	for i := 0; i < 300; i++ {
		v, err := tracker.Reserve(ctx, "customers", "email", schema.TypeVarchar)
		require.NoError(t, err)
		require.False(t, seen[v], "value %v issued twice", v)
		seen[v] = true
	}
	assert.Equal(t, 300, ledger.Len())
}

func TestReserveScopesByColumn(t *testing.T) {
	ctx := context.Background()
	ledger := NewEphemeralLedger()
	require.NoError(t, ledger.Record(ctx, "customers", "email", "alpha"))

	issued, err := ledger.Issued(ctx, "customers", "email", "alpha")
	require.NoError(t, err)
	assert.True(t, issued)

	issued, err = ledger.Issued(ctx, "suppliers", "email", "alpha")
	require.NoError(t, err)
	assert.False(t, issued)
}

func TestReserveExhausted(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultSeedConfig()
	cfg.IntMin, cfg.IntMax = 1, 1
	tracker := NewUniqueTracker(NewDataGenerator(cfg), NewEphemeralLedger(), 20, nil)

	// A single-value domain yields 1, then 2 once candidates are widened.
	first, err := tracker.Reserve(ctx, "t", "n", schema.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := tracker.Reserve(ctx, "t", "n", schema.TypeInteger)
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	_, err = tracker.Reserve(ctx, "t", "n", schema.TypeInteger)
	assert.ErrorIs(t, err, ErrUniquenessExhausted)
}

func TestPersistentLedgerSurvivesRuns(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	reserve := func(runID string) map[string]bool {
		ledger, err := NewPersistentLedger(ctx, store, runID)
		require.NoError(t, err)
		// Same seed both times, so the second run sees the same candidates first.
		tracker := NewUniqueTracker(testGenerator(99), ledger, 0, nil)
		values := make(map[string]bool)
		for i := 0; i < 25; i++ {
			v, err := tracker.Reserve(ctx, "customers", "email", schema.TypeVarchar)
			require.NoError(t, err)
			values[v.(string)] = true
		}
		return values
	}

	first := reserve("run-1")
	second := reserve("run-2")
	require.Len(t, first, 25)
	require.Len(t, second, 25)
	for v := range second {
		assert.False(t, first[v], "value %q reissued in a later run", v)
	}

	count, err := store.CountRows(ctx, LedgerTable)
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)
}

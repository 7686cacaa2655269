package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomConstraint(t *testing.T) {
	c, err := ParseCustomConstraint("BETWEEN 1 AND 10")
	require.NoError(t, err)
	assert.Equal(t, CustomConstraint{Kind: ConstraintBetween, Min: 1, Max: 10}, c)

	c, err = ParseCustomConstraint("between -5 and 5")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), c.Min)

	c, err = ParseCustomConstraint("AFTER customers.created_at")
	require.NoError(t, err)
	assert.Equal(t, ConstraintAfter, c.Kind)
	assert.Equal(t, Reference{Table: "customers", Column: "created_at"}, c.Ref)

	c, err = ParseCustomConstraint("BEFORE orders.shipped_at")
	require.NoError(t, err)
	assert.Equal(t, ConstraintBefore, c.Kind)
	assert.Equal(t, "BEFORE orders.shipped_at", c.String())
}

func TestParseCustomConstraintRejects(t *testing.T) {
	for _, expr := range []string{
		"INVALID CONSTRAINT",
		"",
		"BETWEEN 1",
		"BETWEEN 1 OR 10",
		"BETWEEN a AND 10",
		"BETWEEN 10 AND 1",
		"AFTER created_at",
		"AFTER customers.",
		"AFTER customers.created_at extra",
		// prefix matching is by token, not substring
		"AFTERWARDS customers.created_at",
		"BETWEENESS 1 AND 2",
	} {
		t.Run(expr, func(t *testing.T) {
			assert.ErrorIs(t, ValidateCustomConstraint(expr), ErrUnsupportedConstraint)
		})
	}
}

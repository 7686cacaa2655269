package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColumnDefinition(t *testing.T) {
	tests := []struct {
		raw      string
		baseType string
		clause   string
	}{
		{"INTEGER", "INTEGER", ""},
		{"INTEGER PRIMARY KEY", "INTEGER", "PRIMARY KEY"},
		{"  VARCHAR   UNIQUE  NOT NULL ", "VARCHAR", "UNIQUE NOT NULL"},
		{"INTEGER REFERENCES customers(customer_id)", "INTEGER", "REFERENCES customers(customer_id)"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			baseType, clause := ParseColumnDefinition(tt.raw)
			assert.Equal(t, tt.baseType, baseType)
			assert.Equal(t, tt.clause, clause)
		})
	}
}

func TestParseReference(t *testing.T) {
	ref, err := ParseReference("REFERENCES customers(customer_id)")
	require.NoError(t, err)
	assert.Equal(t, Reference{Table: "customers", Column: "customer_id"}, ref)

	ref, err = ParseReference("NOT NULL references orders ( order_id ) ON DELETE CASCADE")
	require.NoError(t, err)
	assert.Equal(t, "orders.order_id", ref.String())

	for _, clause := range []string{"UNIQUE", "REFERENCES customers", "REFERENCES (id)"} {
		_, err := ParseReference(clause)
		assert.ErrorIs(t, err, ErrUnparsableReference, clause)
	}
}

func TestCompileColumnRoles(t *testing.T) {
	tests := []struct {
		definition string
		role       Role
	}{
		{"INTEGER", RolePlain},
		{"INTEGER PRIMARY KEY", RolePrimaryKey},
		{"VARCHAR UNIQUE", RoleUnique},
		{"INTEGER REFERENCES customers(customer_id)", RoleForeignKey},
		{"INTEGER UNIQUE REFERENCES customers(customer_id)", RoleForeignKey},
		{"INTEGER PRIMARY KEY UNIQUE", RolePrimaryKey},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			spec, err := CompileColumn(ColumnDef{Name: "col", Definition: tt.definition})
			require.NoError(t, err)
			assert.Equal(t, tt.role, spec.Role)
		})
	}
}

func TestCompileColumnRejectsUnknownType(t *testing.T) {
	_, err := CompileColumn(ColumnDef{Name: "active", Definition: "BOOLEAN"})
	assert.ErrorIs(t, err, ErrUnsupportedDataType)

	_, err = CompileColumn(ColumnDef{Name: "n", Definition: "integer"})
	assert.ErrorIs(t, err, ErrUnsupportedDataType)
}

func TestRewriteReference(t *testing.T) {
	out := RewriteReference("NOT NULL REFERENCES customers(customer_id)", func(r Reference) string {
		return `REFERENCES "` + r.Table + `" ("` + r.Column + `")`
	})
	assert.Equal(t, `NOT NULL REFERENCES "customers" ("customer_id")`, out)
	assert.Equal(t, "UNIQUE", RewriteReference("UNIQUE", func(Reference) string { return "x" }))
}

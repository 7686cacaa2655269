package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopSchema() *Schema {
	return &Schema{Tables: []TableDef{
		{
			Name: "customers",
			Columns: []ColumnDef{
				{Name: "customer_id", Definition: "INTEGER PRIMARY KEY"},
				{Name: "email", Definition: "VARCHAR UNIQUE"},
				{Name: "created_at", Definition: "DATE"},
			},
		},
		{
			Name: "orders",
			Columns: []ColumnDef{
				{Name: "order_id", Definition: "INTEGER PRIMARY KEY"},
				{Name: "customer_id", Definition: "INTEGER REFERENCES customers(customer_id)"},
				{Name: "quantity", Definition: "INTEGER"},
				{Name: "order_date", Definition: "DATE"},
			},
			CustomConstraints: []CustomConstraintDef{
				{Column: "quantity", Expression: "BETWEEN 1 AND 5"},
				{Column: "order_date", Expression: "AFTER customers.created_at"},
			},
		},
	}}
}

func TestCompile(t *testing.T) {
	plan, err := Compile(shopSchema())
	require.NoError(t, err)
	require.Len(t, plan.Tables, 2)

	customers, ok := plan.Table("customers")
	require.True(t, ok)
	assert.Equal(t, "customer_id", customers.PrimaryKey())
	assert.Empty(t, customers.Dependencies())

	orders, ok := plan.Table("orders")
	require.True(t, ok)
	assert.Equal(t, []string{"customers"}, orders.Dependencies())
	require.Len(t, orders.Constraints, 2)
	assert.Equal(t, ConstraintBetween, orders.Constraints[0].Constraint.Kind)

	deferred := map[string]bool{}
	for _, c := range orders.Columns {
		deferred[c.Name] = c.Deferred
	}
	assert.Equal(t, map[string]bool{
		"order_id":    false,
		"customer_id": false,
		"quantity":    true,
		"order_date":  true,
	}, deferred)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Schema)
		want   error
	}{
		{
			name:   "unsupported type",
			modify: func(s *Schema) { s.Tables[0].Columns[2].Definition = "BOOLEAN" },
			want:   ErrUnsupportedDataType,
		},
		{
			name: "unsupported constraint",
			modify: func(s *Schema) {
				s.Tables[1].CustomConstraints[0].Expression = "INVALID CONSTRAINT"
			},
			want: ErrUnsupportedConstraint,
		},
		{
			name: "missing referenced table",
			modify: func(s *Schema) {
				s.Tables[1].Columns[1].Definition = "INTEGER REFERENCES users(user_id)"
			},
			want: ErrUnknownReference,
		},
		{
			name: "reference to non key column",
			modify: func(s *Schema) {
				s.Tables[1].Columns[1].Definition = "INTEGER REFERENCES customers(email)"
			},
			want: ErrUnsupportedReference,
		},
		{
			name: "self reference",
			modify: func(s *Schema) {
				s.Tables[1].Columns[1].Definition = "INTEGER REFERENCES orders(order_id)"
			},
			want: ErrUnsupportedReference,
		},
		{
			name: "circular constraint chain",
			modify: func(s *Schema) {
				s.Tables[0].CustomConstraints = []CustomConstraintDef{{Column: "created_at", Expression: "BEFORE orders.order_date"}}
			},
			want: ErrUnsupportedConstraint,
		},
		{
			name: "malformed reference",
			modify: func(s *Schema) {
				s.Tables[1].Columns[1].Definition = "INTEGER REFERENCES customers"
			},
			want: ErrUnparsableReference,
		},
		{
			name: "constraint on missing column",
			modify: func(s *Schema) {
				s.Tables[1].CustomConstraints[0].Column = "amount"
			},
			want: ErrUnknownReference,
		},
		{
			name: "constraint target missing",
			modify: func(s *Schema) {
				s.Tables[1].CustomConstraints[1].Expression = "AFTER customers.signup_date"
			},
			want: ErrUnknownReference,
		},
		{
			name: "date constraint on non date column",
			modify: func(s *Schema) {
				s.Tables[1].CustomConstraints[1].Expression = "AFTER customers.email"
			},
			want: ErrUnsupportedConstraint,
		},
		{
			name: "between on varchar",
			modify: func(s *Schema) {
				s.Tables[0].CustomConstraints = []CustomConstraintDef{{Column: "email", Expression: "BETWEEN 1 AND 2"}}
				s.Tables[0].Columns[1].Definition = "VARCHAR"
			},
			want: ErrUnsupportedConstraint,
		},
		{
			name: "constraint on key column",
			modify: func(s *Schema) {
				s.Tables[1].CustomConstraints[0].Column = "order_id"
			},
			want: ErrUnsupportedConstraint,
		},
		{
			name:   "invalid identifier",
			modify: func(s *Schema) { s.Tables[0].Name = "customers; DROP TABLE x" },
			want:   ErrInvalidIdentifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := shopSchema()
			tt.modify(s)
			_, err := Compile(s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompileOrdersChainedConstraints(t *testing.T) {
	s := shopSchema()
	s.Tables[1].Columns = append(s.Tables[1].Columns, ColumnDef{Name: "ship_date", Definition: "DATE"})
	s.Tables[1].CustomConstraints = []CustomConstraintDef{
		{Column: "ship_date", Expression: "AFTER orders.order_date"},
		{Column: "quantity", Expression: "BETWEEN 1 AND 5"},
		{Column: "order_date", Expression: "AFTER customers.created_at"},
	}

	plan, err := Compile(s)
	require.NoError(t, err)

	var got []string
	for _, cc := range plan.Constraints {
		got = append(got, cc.Table+"."+cc.Column)
	}
	assert.Equal(t, []string{"orders.order_date", "orders.ship_date", "orders.quantity"}, got)
}

func TestCompileRejectsSelfFillingConstraint(t *testing.T) {
	s := shopSchema()
	s.Tables[1].CustomConstraints[1].Expression = "AFTER orders.order_date"

	_, err := Compile(s)
	assert.ErrorIs(t, err, ErrUnsupportedConstraint)
}

func TestCompileReportsTypeBeforeReference(t *testing.T) {
	s := shopSchema()
	s.Tables[1].Columns[1].Definition = "INTEGER REFERENCES users(user_id)"
	s.Tables[1].Columns[2].Definition = "BOOLEAN"

	_, err := Compile(s)
	assert.ErrorIs(t, err, ErrUnsupportedDataType)
}

func TestCompileEmpty(t *testing.T) {
	_, err := Compile(&Schema{})
	assert.ErrorIs(t, err, ErrEmptySchema)
	assert.ErrorIs(t, Validate(nil), ErrEmptySchema)
}

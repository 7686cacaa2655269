package schema

import (
	"fmt"
	"strings"
)

// Base types a column definition may start with.
const (
	TypeInteger = "INTEGER"
	TypeFloat   = "FLOAT"
	TypeVarchar = "VARCHAR"
	TypeDate    = "DATE"
)

var supportedTypes = []string{TypeInteger, TypeFloat, TypeVarchar, TypeDate}

// IsSupportedType reports whether t is one of the allowed base types. The match
// is exact: "integer" is not accepted.
func IsSupportedType(t string) bool {
	for _, s := range supportedTypes {
		if s == t {
			return true
		}
	}
	return false
}

type ColumnDef struct {
	Name       string
	Definition string
}

type CustomConstraintDef struct {
	Column     string
	Expression string
}

type TableDef struct {
	Name              string
	Columns           []ColumnDef
	CustomConstraints []CustomConstraintDef
}

// Schema is the ordered set of tables read from a schema document. Tables are
// generated in this order unless the caller asks for dependency ordering.
type Schema struct {
	Tables []TableDef
}

func (s *Schema) Table(name string) (*TableDef, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for _, t := range s.Tables {
		names = append(names, t.Name)
	}
	return names
}

// AddTable appends a table, rejecting a name that is already present.
func (s *Schema) AddTable(t TableDef) error {
	if _, exists := s.Table(t.Name); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTable, t.Name)
	}
	s.Tables = append(s.Tables, t)
	return nil
}

func (t *TableDef) Column(name string) (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// CustomConstraint returns the raw expression attached to column, if any.
func (t *TableDef) CustomConstraint(column string) (string, bool) {
	for _, cc := range t.CustomConstraints {
		if cc.Column == column {
			return cc.Expression, true
		}
	}
	return "", false
}

func (t *TableDef) String() string {
	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, c.Name+" "+c.Definition)
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(cols, ", "))
}

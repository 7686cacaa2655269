package schema

import (
	"fmt"
	"regexp"
)

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidIdentifier reports whether name can be used unquoted as a table or
// column name.
func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

type ColumnConstraint struct {
	Table      string
	Column     string
	BaseType   string
	Constraint CustomConstraint
}

type TablePlan struct {
	Name        string
	Columns     []ColumnSpec
	Constraints []ColumnConstraint
}

// PrimaryKey returns the name of the first primary key column, or "".
func (t *TablePlan) PrimaryKey() string {
	for _, c := range t.Columns {
		if c.Role == RolePrimaryKey {
			return c.Name
		}
	}
	return ""
}

// Dependencies lists the other tables this table's foreign keys point at.
func (t *TablePlan) Dependencies() []string {
	var deps []string
	seen := make(map[string]bool)
	for _, c := range t.Columns {
		if c.Role != RoleForeignKey || seen[c.Ref.Table] {
			continue
		}
		seen[c.Ref.Table] = true
		deps = append(deps, c.Ref.Table)
	}
	return deps
}

// Plan is a validated schema with every column compiled to a ColumnSpec.
// Constraints holds every custom constraint in the order they must be
// applied: one reading a column another constraint fills comes after it.
type Plan struct {
	Tables      []TablePlan
	Constraints []ColumnConstraint
}

func (p *Plan) Table(name string) (*TablePlan, bool) {
	for i := range p.Tables {
		if p.Tables[i].Name == name {
			return &p.Tables[i], true
		}
	}
	return nil, false
}

// Validate checks a schema without keeping the compiled plan.
func Validate(s *Schema) error {
	_, err := Compile(s)
	return err
}

// Compile validates s and returns its plan. Base types are checked across the
// whole schema first, so a bad type is reported before any reference error.
func Compile(s *Schema) (*Plan, error) {
	if s == nil || len(s.Tables) == 0 {
		return nil, ErrEmptySchema
	}
	if err := validateDataTypes(s); err != nil {
		return nil, err
	}
	if err := validateIdentifiers(s); err != nil {
		return nil, err
	}

	plan := &Plan{Tables: make([]TablePlan, 0, len(s.Tables))}
	for _, t := range s.Tables {
		tp := TablePlan{Name: t.Name}
		for _, c := range t.Columns {
			spec, err := CompileColumn(c)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", t.Name, err)
			}
			tp.Columns = append(tp.Columns, spec)
		}

		for _, cc := range t.CustomConstraints {
			con, err := ParseCustomConstraint(cc.Expression)
			if err != nil {
				return nil, fmt.Errorf("table %s column %s: %w", t.Name, cc.Column, err)
			}
			idx := -1
			for i := range tp.Columns {
				if tp.Columns[i].Name == cc.Column {
					idx = i
					break
				}
			}
			if idx < 0 {
				return nil, fmt.Errorf("%w: custom constraint on missing column %s.%s", ErrUnknownReference, t.Name, cc.Column)
			}
			if tp.Columns[idx].Role != RolePlain {
				return nil, fmt.Errorf("%w: %s.%s is a %s column", ErrUnsupportedConstraint, t.Name, cc.Column, tp.Columns[idx].Role)
			}
			tp.Columns[idx].Deferred = true
			tp.Constraints = append(tp.Constraints, ColumnConstraint{
				Table:      t.Name,
				Column:     cc.Column,
				BaseType:   tp.Columns[idx].BaseType,
				Constraint: con,
			})
		}
		plan.Tables = append(plan.Tables, tp)
	}

	if err := resolveReferences(s, plan); err != nil {
		return nil, err
	}
	order, err := orderConstraints(plan)
	if err != nil {
		return nil, err
	}
	plan.Constraints = order
	return plan, nil
}

func validateDataTypes(s *Schema) error {
	for _, t := range s.Tables {
		if len(t.Columns) == 0 {
			return fmt.Errorf("table %s has no columns", t.Name)
		}
		for _, c := range t.Columns {
			baseType, _ := ParseColumnDefinition(c.Definition)
			if !IsSupportedType(baseType) {
				return fmt.Errorf("%w: %s.%s has type %q (allowed: %v)", ErrUnsupportedDataType, t.Name, c.Name, baseType, supportedTypes)
			}
		}
	}
	return nil
}

func validateIdentifiers(s *Schema) error {
	for _, t := range s.Tables {
		if !IsValidIdentifier(t.Name) {
			return fmt.Errorf("%w: table name %q", ErrInvalidIdentifier, t.Name)
		}
		for _, c := range t.Columns {
			if !IsValidIdentifier(c.Name) {
				return fmt.Errorf("%w: column name %q in table %s", ErrInvalidIdentifier, c.Name, t.Name)
			}
		}
	}
	return nil
}

func resolveReferences(s *Schema, plan *Plan) error {
	for _, tp := range plan.Tables {
		for _, c := range tp.Columns {
			if c.Role != RoleForeignKey {
				continue
			}
			ref, ok := plan.Table(c.Ref.Table)
			if !ok {
				return fmt.Errorf("%w: %s.%s references missing table %s", ErrUnknownReference, tp.Name, c.Name, c.Ref.Table)
			}
			if ref.Name == tp.Name {
				return fmt.Errorf("%w: %s.%s references its own table", ErrUnsupportedReference, tp.Name, c.Name)
			}
			// Foreign key values are drawn from the referenced table's
			// sequential key range, so the target must be that key.
			if ref.PrimaryKey() != c.Ref.Column {
				return fmt.Errorf("%w: %s.%s references %s, which is not the primary key of %s",
					ErrUnsupportedReference, tp.Name, c.Name, c.Ref, ref.Name)
			}
		}

		for _, cc := range tp.Constraints {
			if cc.Constraint.Kind == ConstraintBetween {
				if cc.BaseType != TypeInteger && cc.BaseType != TypeFloat {
					return fmt.Errorf("%w: BETWEEN on %s.%s requires a numeric column", ErrUnsupportedConstraint, tp.Name, cc.Column)
				}
				continue
			}
			refTable, ok := s.Table(cc.Constraint.Ref.Table)
			if !ok {
				return fmt.Errorf("%w: %s.%s constraint references missing table %s", ErrUnknownReference, tp.Name, cc.Column, cc.Constraint.Ref.Table)
			}
			refCol, ok := refTable.Column(cc.Constraint.Ref.Column)
			if !ok {
				return fmt.Errorf("%w: %s.%s constraint references missing column %s", ErrUnknownReference, tp.Name, cc.Column, cc.Constraint.Ref)
			}
			if baseType, _ := ParseColumnDefinition(refCol.Definition); baseType != TypeDate || cc.BaseType != TypeDate {
				return fmt.Errorf("%w: %s on %s.%s requires DATE columns on both sides", ErrUnsupportedConstraint, cc.Constraint.Kind, tp.Name, cc.Column)
			}
		}
	}
	return nil
}

// orderConstraints sorts the custom constraints of plan so that an AFTER or
// BEFORE reading a constrained column runs once that column is filled.
// Unrelated constraints keep schema order. A chain that loops back on itself
// can never be filled and is rejected.
func orderConstraints(plan *Plan) ([]ColumnConstraint, error) {
	byColumn := make(map[string]ColumnConstraint)
	var keys []string
	for _, tp := range plan.Tables {
		for _, cc := range tp.Constraints {
			key := cc.Table + "." + cc.Column
			byColumn[key] = cc
			keys = append(keys, key)
		}
	}

	visited := make(map[string]bool)
	temp := make(map[string]bool)
	order := make([]ColumnConstraint, 0, len(keys))

	var visit func(string) error
	visit = func(key string) error {
		if temp[key] {
			return fmt.Errorf("%w: circular constraint chain involving %s", ErrUnsupportedConstraint, key)
		}
		if visited[key] {
			return nil
		}

		temp[key] = true
		cc := byColumn[key]
		if cc.Constraint.Kind != ConstraintBetween {
			dep := cc.Constraint.Ref.String()
			if _, constrained := byColumn[dep]; constrained {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[key] = false
		visited[key] = true
		order = append(order, cc)
		return nil
	}

	for _, key := range keys {
		if err := visit(key); err != nil {
			return nil, err
		}
	}
	return order, nil
}

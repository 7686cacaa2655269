package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	referenceRegex    = regexp.MustCompile(`(?i)^REFERENCES\s+["']?(\w+)["']?\s*\(\s*["']?(\w+)["']?\s*\)`)
	referenceAnywhere = regexp.MustCompile(`(?i)REFERENCES\s+["']?(\w+)["']?\s*\(\s*["']?(\w+)["']?\s*\)`)
)

// Role is the generation strategy a column definition maps to.
type Role int

const (
	RolePlain Role = iota
	RolePrimaryKey
	RoleUnique
	RoleForeignKey
)

func (r Role) String() string {
	switch r {
	case RolePrimaryKey:
		return "primary_key"
	case RoleUnique:
		return "unique"
	case RoleForeignKey:
		return "foreign_key"
	default:
		return "plain"
	}
}

type Reference struct {
	Table  string
	Column string
}

func (r Reference) String() string {
	return r.Table + "." + r.Column
}

// ColumnSpec is a column definition parsed once into a closed set of roles.
type ColumnSpec struct {
	Name       string
	Definition string
	BaseType   string
	Role       Role
	Ref        Reference // set when Role is RoleForeignKey

	// Deferred columns are left NULL during row generation and filled by a
	// custom constraint afterwards.
	Deferred bool
}

// ParseColumnDefinition splits a raw definition such as "INTEGER PRIMARY KEY"
// into its base type and the remaining constraint clause.
func ParseColumnDefinition(raw string) (string, string) {
	parts := strings.Fields(raw)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ParseReference extracts the referenced table and column from a clause of the
// form "REFERENCES table(column)".
func ParseReference(clause string) (Reference, error) {
	upper := strings.ToUpper(clause)
	idx := strings.Index(upper, "REFERENCES")
	if idx < 0 {
		return Reference{}, fmt.Errorf("%w: %q has no REFERENCES keyword", ErrUnparsableReference, clause)
	}

	m := referenceRegex.FindStringSubmatch(strings.TrimSpace(clause[idx:]))
	if m == nil {
		return Reference{}, fmt.Errorf("%w: %q", ErrUnparsableReference, clause)
	}
	return Reference{Table: m[1], Column: m[2]}, nil
}

// RewriteReference replaces the REFERENCES target in clause with the output of
// render. Clauses without a well-formed reference are returned unchanged.
func RewriteReference(clause string, render func(Reference) string) string {
	return referenceAnywhere.ReplaceAllStringFunc(clause, func(match string) string {
		m := referenceAnywhere.FindStringSubmatch(match)
		return render(Reference{Table: m[1], Column: m[2]})
	})
}

// CompileColumn parses a column definition into a ColumnSpec. Foreign key
// detection wins over PRIMARY KEY, which wins over UNIQUE.
func CompileColumn(def ColumnDef) (ColumnSpec, error) {
	baseType, clause := ParseColumnDefinition(def.Definition)
	if !IsSupportedType(baseType) {
		return ColumnSpec{}, fmt.Errorf("%w: column %s has type %q", ErrUnsupportedDataType, def.Name, baseType)
	}

	spec := ColumnSpec{
		Name:       def.Name,
		Definition: def.Definition,
		BaseType:   baseType,
		Role:       RolePlain,
	}

	upper := strings.ToUpper(clause)
	switch {
	case strings.Contains(upper, "REFERENCES"):
		ref, err := ParseReference(clause)
		if err != nil {
			return ColumnSpec{}, fmt.Errorf("column %s: %w", def.Name, err)
		}
		spec.Role = RoleForeignKey
		spec.Ref = ref
	case strings.Contains(upper, "PRIMARY KEY"):
		spec.Role = RolePrimaryKey
	case strings.Contains(upper, "UNIQUE"):
		spec.Role = RoleUnique
	}
	return spec, nil
}

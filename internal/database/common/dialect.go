package common

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/Seedling/internal/schema"
)

// Dialect holds the SQL fragments that differ between storage engines.
type Dialect interface {
	Name() string
	MapColumnType(baseType string) string
	QuoteIdent(name string) string
	// RandomInt is an expression yielding a uniform integer in [lo, hi],
	// evaluated per row.
	RandomInt(lo, hi int64) string
	// ShiftDays is a date expression moved by daysExpr days.
	ShiftDays(dateExpr, daysExpr string) string
	RandomOrder() string
}

// ColumnList renders the column definitions of a CREATE TABLE body.
func ColumnList(d Dialect, columns []schema.ColumnDef) string {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		baseType, clause := schema.ParseColumnDefinition(c.Definition)
		def := d.QuoteIdent(c.Name) + " " + d.MapColumnType(baseType)
		if clause != "" {
			clause = schema.RewriteReference(clause, func(ref schema.Reference) string {
				return "REFERENCES " + d.QuoteIdent(ref.Table) + " (" + d.QuoteIdent(ref.Column) + ")"
			})
			def += " " + clause
		}
		defs = append(defs, def)
	}
	return strings.Join(defs, ", ")
}

// CreateTableSQL renders the CREATE TABLE statement the adapters execute.
func CreateTableSQL(d Dialect, name string, columns []schema.ColumnDef) string {
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.QuoteIdent(name), ColumnList(d, columns))
}

// RenderDDL renders one statement per table in schema order, exactly as
// CreateOrReplaceTable would run them.
func RenderDDL(d Dialect, s *schema.Schema) string {
	var b strings.Builder
	for _, t := range s.Tables {
		b.WriteString(CreateTableSQL(d, t.Name, t.Columns))
		b.WriteString(";\n")
	}
	return b.String()
}

func QuoteAll(d Dialect, names []string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdent(n)
	}
	return quoted
}

// MapType looks baseType up in typeMap, falling back to the upper-cased input.
func MapType(typeMap map[string]string, baseType string) string {
	if mapped, exists := typeMap[strings.ToLower(baseType)]; exists {
		return mapped
	}
	return strings.ToUpper(baseType)
}

// QuoteEq quotes the column names of an equality predicate.
func QuoteEq(d Dialect, where squirrel.Eq) squirrel.Eq {
	quoted := make(squirrel.Eq, len(where))
	for col, val := range where {
		quoted[d.QuoteIdent(col)] = val
	}
	return quoted
}

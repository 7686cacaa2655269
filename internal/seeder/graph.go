package seeder

import (
	"fmt"

	"github.com/Rana718/Seedling/internal/schema"
)

// DependencyGraph orders tables so every referenced table comes first.
type DependencyGraph struct {
	tables map[string]*schema.TablePlan
	names  []string
	order  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]*schema.TablePlan),
	}
}

func (g *DependencyGraph) AddTable(table *schema.TablePlan) {
	if _, exists := g.tables[table.Name]; !exists {
		g.names = append(g.names, table.Name)
	}
	g.tables[table.Name] = table
}

// BuildInsertionOrder returns a topological order. Tables without a
// dependency between them keep the order they were added in.
func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("%w involving table: %s", ErrCircularDependency, tableName)
		}
		if visited[tableName] {
			return nil
		}

		temp[tableName] = true
		if table := g.tables[tableName]; table != nil {
			for _, dep := range table.Dependencies() {
				if dep == tableName {
					continue
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	for _, tableName := range g.names {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) GetOrder() []string {
	return g.order
}

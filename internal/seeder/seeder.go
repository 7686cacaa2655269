package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rana718/Seedling/internal/database"
	"github.com/Rana718/Seedling/internal/schema"
)

type Seeder struct {
	store     database.Store
	plan      *schema.Plan
	config    SeedConfig
	generator *DataGenerator
	unique    *UniqueTracker
	applier   *Applier
	logger    *zap.Logger
	runID     string
	order     []string

	// keys holds the number of sequential primary keys generated per table in
	// this run; foreign keys are drawn from [0, keys-1].
	keys map[string]int
}

// NewSeeder prepares a run over plan. The generation policy and the insertion
// order are checked before anything is written; with the persistent ledger the ledger table is then
// created in store.
func NewSeeder(ctx context.Context, store database.Store, plan *schema.Plan, cfg SeedConfig, logger *zap.Logger) (*Seeder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	order, err := insertionOrder(plan, cfg.AutoOrder)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()

	var ledger Ledger
	switch cfg.Ledger {
	case LedgerPersistent:
		l, err := NewPersistentLedger(ctx, store, runID)
		if err != nil {
			return nil, err
		}
		ledger = l
	case LedgerEphemeral:
		ledger = NewEphemeralLedger()
	default:
		return nil, fmt.Errorf("unknown ledger mode %q", cfg.Ledger)
	}

	generator := NewDataGenerator(cfg)
	logger = logger.With(zap.String("run_id", runID))

	return &Seeder{
		store:     store,
		plan:      plan,
		config:    cfg,
		generator: generator,
		unique:    NewUniqueTracker(generator, ledger, cfg.MaxUniqueAttempts, logger),
		applier:   NewApplier(store, cfg.MaxOffsetDays, logger),
		logger:    logger,
		runID:     runID,
		order:     order,
		keys:      make(map[string]int),
	}, nil
}

// Generate validates s, then seeds it into store with rowCount rows per table
// unless cfg overrides a table. A zero rowCount keeps cfg.Rows.
func Generate(ctx context.Context, store database.Store, s *schema.Schema, rowCount int, cfg SeedConfig, logger *zap.Logger) (*Report, error) {
	plan, err := schema.Compile(s)
	if err != nil {
		return nil, err
	}
	if rowCount != 0 {
		cfg.Rows = rowCount
	}
	sd, err := NewSeeder(ctx, store, plan, cfg, logger)
	if err != nil {
		return nil, err
	}
	return sd.Seed(ctx)
}

// CreateTables validates s and creates (or replaces) its tables without
// inserting rows. It returns the created table names in schema order.
func CreateTables(ctx context.Context, store database.Store, s *schema.Schema) ([]string, error) {
	if err := schema.Validate(s); err != nil {
		return nil, err
	}
	var created []string
	for _, table := range s.Tables {
		if err := store.CreateOrReplaceTable(ctx, table.Name, table.Columns); err != nil {
			return created, fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
		created = append(created, table.Name)
	}
	return created, nil
}

func (s *Seeder) RunID() string {
	return s.runID
}

// InsertionOrder returns the order tables are generated in.
func (s *Seeder) InsertionOrder() []string {
	return s.order
}

// insertionOrder is the schema order, or the dependency order when autoOrder
// is set. Either way every referenced table must come before its dependents.
func insertionOrder(plan *schema.Plan, autoOrder bool) ([]string, error) {
	var order []string
	if autoOrder {
		graph := NewDependencyGraph()
		for i := range plan.Tables {
			graph.AddTable(&plan.Tables[i])
		}
		o, err := graph.BuildInsertionOrder()
		if err != nil {
			return nil, fmt.Errorf("failed to build insertion order: %w", err)
		}
		order = o
	} else {
		for _, t := range plan.Tables {
			order = append(order, t.Name)
		}
	}

	position := make(map[string]int, len(order))
	for i, name := range order {
		position[name] = i
	}
	for _, name := range order {
		table, _ := plan.Table(name)
		for _, dep := range table.Dependencies() {
			if position[dep] >= position[name] {
				return nil, fmt.Errorf("%w: table %s references %s, which is generated later",
					ErrUnresolvedReference, name, dep)
			}
		}
	}
	return order, nil
}

// Seed creates every table, fills it and then applies custom constraints in
// plan order.
// A failure stops the run; rows inserted before it stay in the store.
func (s *Seeder) Seed(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: s.runID}
	order := s.order

	s.logger.Info("starting generation",
		zap.Strings("order", order),
		zap.Int("rows", s.config.Rows),
		zap.String("ledger", string(s.config.Ledger)))

	for _, name := range order {
		table, _ := s.plan.Table(name)
		count := s.config.RowsFor(name)
		if s.config.BeforeTable != nil {
			s.config.BeforeTable(name, count)
		}

		inserted, err := s.SeedTable(ctx, table, count)
		report.table(name).Rows = inserted
		if err != nil {
			return report, fmt.Errorf("failed to seed table %s: %w", name, err)
		}

		if s.config.AfterTable != nil {
			s.config.AfterTable(*report.table(name))
		}
	}

	for _, cc := range s.plan.Constraints {
		n, err := s.applier.Apply(ctx, cc.Table, cc.Column, cc.Constraint)
		if err != nil {
			return report, err
		}
		tr := report.table(cc.Table)
		tr.ConstraintsApplied++
		tr.RowsConstrained += n
	}

	report.Duration = time.Since(start)
	s.logger.Info("generation finished", zap.Duration("duration", report.Duration))
	return report, nil
}

// SeedTable recreates table and inserts count generated rows, one insert per
// row. It returns the number of rows inserted.
func (s *Seeder) SeedTable(ctx context.Context, table *schema.TablePlan, count int) (int, error) {
	columns := make([]schema.ColumnDef, 0, len(table.Columns))
	for _, c := range table.Columns {
		columns = append(columns, schema.ColumnDef{Name: c.Name, Definition: c.Definition})
	}
	if err := s.store.CreateOrReplaceTable(ctx, table.Name, columns); err != nil {
		return 0, err
	}

	s.logger.Info("seeding table", zap.String("table", table.Name), zap.Int("rows", count))
	for i := 0; i < count; i++ {
		row, err := s.GenerateRow(ctx, table, i)
		if err != nil {
			return i, err
		}
		if err := s.store.InsertRow(ctx, table.Name, row); err != nil {
			return i, err
		}
	}

	s.keys[table.Name] = count
	return count, nil
}

// GenerateRow builds the complete row at index for table.
func (s *Seeder) GenerateRow(ctx context.Context, table *schema.TablePlan, index int) (*database.Row, error) {
	row := database.NewRow(len(table.Columns))
	for _, col := range table.Columns {
		val, err := s.generateValue(ctx, table.Name, col, index)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		row.Set(col.Name, val)
	}
	return row, nil
}

func (s *Seeder) generateValue(ctx context.Context, table string, col schema.ColumnSpec, index int) (interface{}, error) {
	if col.Deferred {
		return nil, nil
	}

	switch col.Role {
	case schema.RoleForeignKey:
		keys, ok := s.keys[col.Ref.Table]
		if !ok || keys == 0 {
			return nil, fmt.Errorf("%w: %s has no generated keys", ErrUnresolvedReference, col.Ref.Table)
		}
		return s.generator.Int(0, keys-1), nil
	case schema.RolePrimaryKey:
		return index, nil
	case schema.RoleUnique:
		return s.unique.Reserve(ctx, table, col.Name, col.BaseType)
	default:
		return s.generator.Generate(col.BaseType)
	}
}

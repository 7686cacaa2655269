package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rana718/Seedling/internal/seeder"
)

var (
	rows       int
	dbPath     string
	ledgerMode string
	seed       uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate <schema.yaml>",
	Short: "Fill the database with synthetic rows for a schema",
	Long: `
Validate a YAML schema, recreate its tables and insert generated rows.
Primary keys are sequential, unique columns never repeat a value issued
before, foreign keys point at generated keys, and custom constraints are
applied once every table is filled.

Examples:
  seedling generate schema.yaml
  seedling generate schema.yaml --rows 50 --db-path practice.db
  seedling generate schema.yaml --ledger ephemeral --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVar(&rows, "rows", seeder.DefaultRows, "Rows to generate per table")
	generateCmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file (default data-modeling-practice.db)")
	generateCmd.Flags().StringVar(&ledgerMode, "ledger", "", "Unique value ledger: persistent or ephemeral")
	generateCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for reproducible values (0 = random)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-path") {
		cfg.Database.Path = dbPath
	}
	if cmd.Flags().Changed("rows") {
		cfg.Generation.Rows = rows
	}
	if cmd.Flags().Changed("ledger") {
		cfg.Generation.Ledger = ledgerMode
	}
	if cmd.Flags().Changed("seed") {
		cfg.Generation.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	s, err := loadSchema(args[0])
	if err != nil {
		return err
	}

	seedCfg, err := cfg.SeedConfig()
	if err != nil {
		return err
	}
	seedCfg.BeforeTable = func(table string, n int) {
		color.Cyan("🌱 Generating %d rows for %s...", n, table)
	}
	seedCfg.AfterTable = func(r seeder.TableReport) {
		fmt.Printf("✅ %s: %d rows inserted\n", r.Table, r.Rows)
	}

	logger := newLogger()
	defer logger.Sync()

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("🎯 Database: %s\n", cfg.Database.Provider)
	fmt.Println()

	report, err := seeder.Generate(ctx, store, s, cfg.Generation.Rows, seedCfg, logger)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		return fmt.Errorf("generation failed: %w", err)
	}

	printReport(report)
	return nil
}

func printReport(report *seeder.Report) {
	fmt.Println()
	color.Cyan("📊 Summary (run %s)", report.RunID)
	for _, t := range report.Tables {
		line := fmt.Sprintf("   %-24s %8d rows", t.Table, t.Rows)
		if t.ConstraintsApplied > 0 {
			line += fmt.Sprintf("   %d constraint(s), %d row(s) updated", t.ConstraintsApplied, t.RowsConstrained)
		}
		fmt.Println(line)
	}
	fmt.Println()
	color.Green("🎉 Data generation completed in %s", report.Duration.Round(time.Millisecond))
}

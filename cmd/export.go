package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/Seedling/internal/export"
	"github.com/Rana718/Seedling/internal/seeder"
)

var (
	exportFormat string
	exportPath   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export generated tables to JSON or CSV files",
	Long: `
Dump every table in the database (except the uniqueness ledger) to a JSON
document or to one CSV file per table.

Examples:
  seedling export
  seedling export --format csv --out ./datasets`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}

		logger := newLogger()
		defer logger.Sync()

		ctx := context.Background()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		color.Cyan("📦 Exporting tables as %s...", exportFormat)
		path, err := export.PerformExport(ctx, store, exportPath, exportFormat, []string{seeder.LedgerTable}, logger)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if path == "" {
			color.Yellow("⚠️  No tables found")
			return nil
		}

		color.Green("✅ Export written to %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Export format: json or csv")
	exportCmd.Flags().StringVar(&exportPath, "out", "export", "Output directory")
	exportCmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file (default from config)")
}

package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables in the database with their row counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}

		ctx := context.Background()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		tables, err := store.ListTables(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tables: %w", err)
		}
		if len(tables) == 0 {
			color.Yellow("⚠️  No tables found")
			return nil
		}

		color.Cyan("📋 Tables (%d)", len(tables))
		for _, table := range tables {
			count, err := store.CountRows(ctx, table)
			if err != nil {
				return fmt.Errorf("failed to count rows in %s: %w", table, err)
			}
			fmt.Printf("   %-32s %8d\n", table, count)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file (default from config)")
}

package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/Seedling/internal/seeder"
)

var createCmd = &cobra.Command{
	Use:   "create <schema.yaml>",
	Short: "Create (or replace) the schema's tables without data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}

		s, err := loadSchema(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		created, err := seeder.CreateTables(ctx, store, s)
		if err != nil {
			return err
		}

		for _, name := range created {
			fmt.Printf("✅ Created table %s\n", name)
		}
		color.Green("🎉 %d table(s) ready in %s", len(created), cfg.Database.Provider)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVar(&dbPath, "db-path", "", "SQLite database file (default from config)")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rana718/Seedling/internal/database"
	"github.com/Rana718/Seedling/internal/schema"
)

var ddlCmd = &cobra.Command{
	Use:   "ddl <schema.yaml>",
	Short: "Validate a schema and print its CREATE TABLE statements",
	Long: `
Validate a YAML schema and print the DDL it produces for the configured
database provider. Nothing is written to the database.

Examples:
  seedling ddl schema.yaml
  seedling ddl schema.yaml --config seedling.config.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		s, err := loadSchema(args[0])
		if err != nil {
			return err
		}
		if err := schema.Validate(s); err != nil {
			return fmt.Errorf("invalid schema: %w", err)
		}

		dialect := database.NewAdapter(cfg.Database.Provider).Dialect()
		fmt.Print(database.RenderDDL(dialect, s))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ddlCmd)
}

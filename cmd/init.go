package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Rana718/Seedling/template"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a seedling.config.json and a starter schema.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.SQLite
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(dbType)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}

func initializeProject(dbType template.DatabaseType) error {
	if _, err := os.Stat("seedling.config.json"); err == nil {
		return fmt.Errorf("seedling.config.json already exists")
	}

	tmpl := template.NewProjectTemplate(dbType)

	files := map[string]string{
		"seedling.config.json": tmpl.GetSeedlingConfig(),
	}
	if _, err := os.Stat("schema.yaml"); os.IsNotExist(err) {
		files["schema.yaml"] = tmpl.GetSchema()
	}

	for filePath, content := range files {
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", filePath, err)
		}
	}

	if env := tmpl.GetEnvTemplate(); env != "" {
		if err := handleEnvFile(env); err != nil {
			return fmt.Errorf("failed to handle .env file: %w", err)
		}
	}

	fmt.Printf("✅ Initialized Seedling project with %s database support\n", dbType)
	fmt.Println()
	fmt.Println("📝 Files created:")
	for filePath := range files {
		fmt.Printf("   %s\n", filePath)
	}
	if _, ok := files["schema.yaml"]; !ok {
		fmt.Println("ℹ️  Skipped schema.yaml (already exists)")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   seedling ddl schema.yaml        # Preview the tables\n")
	fmt.Printf("   seedling generate schema.yaml   # Fill them with data\n")
	fmt.Printf("   seedling tables                 # Check row counts\n")

	return nil
}

func handleEnvFile(defaultEnvContent string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by Seedling\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Run the downstream transformation project (dbt run)",
	Long: `
Run the configured transformation command inside transform.dir, by default
"dbt run" inside ./dbt_project. Output is streamed as-is.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if _, err := os.Stat(cfg.Transform.Dir); os.IsNotExist(err) {
			return fmt.Errorf("transform directory not found: %s", cfg.Transform.Dir)
		}

		parts := strings.Fields(cfg.Transform.Command)
		if len(parts) == 0 {
			return fmt.Errorf("transform.command cannot be empty")
		}

		color.Cyan("🔄 Running %q in %s...", cfg.Transform.Command, cfg.Transform.Dir)
		c := exec.CommandContext(cmd.Context(), parts[0], parts[1:]...)
		c.Dir = cfg.Transform.Dir
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		c.Env = os.Environ()
		if err := c.Run(); err != nil {
			color.Red("❌ Transformation failed")
			return fmt.Errorf("%s failed: %w", cfg.Transform.Command, err)
		}

		color.Green("✅ Transformation completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
}

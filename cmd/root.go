package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	Version = "0.3.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════════╗",
		"║   ███████╗███████╗███████╗██████╗ ██╗     ██╗███╗   ██╗   ║",
		"║   ██╔════╝██╔════╝██╔════╝██╔══██╗██║     ██║████╗  ██║   ║",
		"║   ███████╗█████╗  █████╗  ██║  ██║██║     ██║██╔██╗ ██║   ║",
		"║   ╚════██║██╔══╝  ██╔══╝  ██║  ██║██║     ██║██║╚██╗██║   ║",
		"║   ███████║███████╗███████╗██████╔╝███████╗██║██║ ╚████║   ║",
		"║   ╚══════╝╚══════╝╚══════╝╚═════╝ ╚══════╝╚═╝╚═╝  ╚═══╝   ║",
		"║                                                          ║",
		"║        🌱 Synthetic relational data from YAML 🌱          ║",
		"╚══════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "seedling",
	Short: "Generate synthetic relational datasets from a YAML schema",
	Long: `
Seedling reads a declarative YAML table schema and fills a database with
synthetic rows that respect primary keys, unique columns, foreign keys and
custom cross-table constraints.

Database Support:
- SQLite (default, file based)
- PostgreSQL
- MySQL`,
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("Seedling CLI version %s\n", Version)
			return
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./seedling.config.json)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log generation details")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("seedling.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
	}
}

// newLogger returns a development logger with --verbose and a no-op logger
// otherwise, so normal runs only show the colored summary.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/cmd/cli/commands"
	"github.com/oakhollow/staff-rota/internal/config"
	"github.com/oakhollow/staff-rota/pkg/postgres"
	"github.com/oakhollow/staff-rota/pkg/utils/logging"
)

var (
	cfgPath  string
	verbose  bool
	app      = &commands.AppContext{}
	database *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "staff-rota",
		Short: "Staff Rota CLI - Manage care home shift rotas",
		Long:  `A CLI tool for generating weekly rotas, assigning staff to shifts, and publishing the finished week.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
			if database != nil {
				database.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to config file (default: staff_rota.yaml in cwd or home)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logging to the console")

	// Add all commands
	rootCmd.AddCommand(commands.GenerateRotaCmd(app))
	rootCmd.AddCommand(commands.ViewRotaCmd(app))
	rootCmd.AddCommand(commands.ListRotasCmd(app))
	rootCmd.AddCommand(commands.SuggestCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.RemoveStaffCmd(app))
	rootCmd.AddCommand(commands.AddShiftCmd(app))
	rootCmd.AddCommand(commands.ImportShiftsCmd(app))
	rootCmd.AddCommand(commands.ExportRotaCmd(app))
	rootCmd.AddCommand(commands.AutoFillCmd(app))
	rootCmd.AddCommand(commands.PublishRotaCmd(app))
	rootCmd.AddCommand(commands.ArchiveRotaCmd(app))
	rootCmd.AddCommand(commands.ListStaffCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error

	// Load .env if it exists so DATABASE_URL can live outside the config
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Ctx = context.Background()

	// Load configuration
	app.Logger.Debug("Loading configuration")
	if cfgPath != "" {
		app.Cfg, err = config.LoadFromPath(cfgPath)
	} else {
		app.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	// Connect to the database
	app.Logger.Debug("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Apply any pending migrations
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = database
	app.Logger.Debug("Database initialized successfully")

	return nil
}

package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// GenerateRotaCmd creates the generateRota command
func GenerateRotaCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generateRota <week_start>",
		Short: "Generate a draft rota for the week starting on the given Monday",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekStart, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("week_start must be a date like 2025-06-02: %w", err)
			}

			result, err := services.GenerateRoster(app.Ctx, app.Database, app.Cfg, app.Logger, weekStart)
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n✓ Draft rota created!\n\n")
			fmt.Printf("Rota ID:     %s\n", result.Rota.ID)
			fmt.Printf("Week:        %s to %s\n",
				result.Rota.StartDate.Format("2006-01-02"),
				result.Rota.EndDate.Format("2006-01-02"))
			fmt.Printf("Shift Count: %d\n", result.ShiftCount)
			if result.Superseded != "" {
				fmt.Printf("Superseded:  %s (archived)\n", result.Superseded)
			}
			fmt.Println()

			printRotaGrid(result.Rota)
			return nil
		},
	}
}

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// PublishRotaCmd creates the publishRota command
func PublishRotaCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publishRota [rota_id]",
		Short: "Publish a draft rota so staff can see it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rotaID string
			if len(args) > 0 {
				rotaID = args[0]
			}

			result, err := services.PublishRota(app.Ctx, app.Database, app.Logger, rotaID)
			if err != nil {
				if errors.Is(err, services.ErrUnresolvedConflicts) {
					fmt.Printf("\n%s✗ The rota has shifts in conflict. Resolve them before publishing.%s\n", colorRed, colorReset)
				}
				return err
			}

			fmt.Printf("\n✓ Rota published!\n\n")
			fmt.Printf("  Rota ID:  %s\n", result.RotaID)
			fmt.Printf("  Status:   %s\n", result.Status)
			fmt.Printf("  Version:  %d\n", result.Version)
			fmt.Printf("\n  %sFully staffed:     %d%s\n", colorGreen, result.FullyStaffed, colorReset)
			fmt.Printf("  %sPartially staffed: %d%s\n", colorYellow, result.PartiallyStaffed, colorReset)
			fmt.Printf("  %sUnfilled:          %d%s\n", colorRed, result.Unfilled, colorReset)
			fmt.Println()
			return nil
		},
	}
}

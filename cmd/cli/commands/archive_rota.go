package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// ArchiveRotaCmd creates the archiveRota command
func ArchiveRotaCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archiveRota [rota_id]",
		Short: "Archive a rota so it no longer accepts changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rotaID string
			if len(args) > 0 {
				rotaID = args[0]
			}

			result, err := services.ArchiveRota(app.Ctx, app.Database, app.Logger, rotaID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Rota archived!\n\n")
			fmt.Printf("  Rota ID:  %s\n", result.RotaID)
			fmt.Printf("  Status:   %s\n", result.Status)
			fmt.Printf("  Version:  %d\n", result.Version)
			fmt.Println()
			return nil
		},
	}
}

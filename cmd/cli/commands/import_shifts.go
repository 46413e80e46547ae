package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// ImportShiftsCmd creates the importShifts command
func ImportShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importShifts <file>",
		Short: "Bulk-import shift assignments from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			rotaID, _ := cmd.Flags().GetString("rota")

			result, err := services.ImportShifts(app.Ctx, app.Database, app.Logger, rotaID, data)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Import complete!\n\n")
			fmt.Printf("  Rota ID:  %s\n", result.RotaID)
			fmt.Printf("  Applied:  %d\n", result.Report.Applied)
			fmt.Printf("  Skipped:  %d\n", result.Report.Skipped)
			fmt.Printf("  Version:  %d\n", result.Version)
			if len(result.Report.Warnings) > 0 {
				fmt.Println("\nWarnings:")
				for _, w := range result.Report.Warnings {
					fmt.Printf("  %s! %s%s\n", colorYellow, w, colorReset)
				}
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("rota", "", "Rota id to import into (defaults to the latest rota)")

	return cmd
}

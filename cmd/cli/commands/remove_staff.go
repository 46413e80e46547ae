package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// RemoveStaffCmd creates the removeStaff command
func RemoveStaffCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "removeStaff <shift_id> <staff_id>",
		Short: "Remove a staff member from a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID := args[0]
			staffID := args[1]
			rotaID, _ := cmd.Flags().GetString("rota")

			result, err := services.RemoveStaff(app.Ctx, app.Database, app.Logger, rotaID, shiftID, staffID)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Staff removed!\n\n")
			fmt.Printf("  Rota ID:  %s\n", result.RotaID)
			fmt.Printf("  Shift:    %s\n", result.ShiftID)
			fmt.Printf("  Staff:    %s\n", result.StaffID)
			fmt.Printf("  Status:   %s\n", result.ShiftStatus)
			fmt.Printf("  Version:  %d\n", result.Version)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("rota", "", "Rota id to remove from (defaults to the latest rota)")

	return cmd
}

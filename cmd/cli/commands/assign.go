package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// AssignCmd creates the assign command
func AssignCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign <shift_id> <staff_id> <role>",
		Short: "Assign a staff member to a shift in a given role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID := args[0]
			staffID := args[1]
			role, err := model.ParseRole(args[2])
			if err != nil {
				return err
			}

			rotaID, _ := cmd.Flags().GetString("rota")
			override, _ := cmd.Flags().GetBool("override")
			assignedBy, _ := cmd.Flags().GetString("by")
			if assignedBy == "" {
				if assignedBy = os.Getenv("USER"); assignedBy == "" {
					assignedBy = "cli"
				}
			}

			result, err := services.AssignStaff(app.Ctx, app.Database, app.Logger, rotaID, shiftID, staffID, role, override, assignedBy)
			if err != nil {
				var ineligible *roster.IneligibleError
				if errors.As(err, &ineligible) {
					fmt.Printf("\n%s✗ Cannot assign %s to shift %s%s\n\n", colorRed, staffID, shiftID, colorReset)
					for _, v := range ineligible.Violations {
						fmt.Printf("  %s- %s: %s%s\n", colorRed, v.Rule, v.Description, colorReset)
					}
					fmt.Println("\nUse --override to record the assignment anyway.")
				}
				return err
			}

			fmt.Printf("\n✓ Staff assigned!\n\n")
			fmt.Printf("  Rota ID:  %s\n", result.RotaID)
			fmt.Printf("  Shift:    %s\n", result.ShiftID)
			fmt.Printf("  Staff:    %s\n", result.StaffID)
			fmt.Printf("  Role:     %s\n", result.Role)
			fmt.Printf("  Status:   %s\n", result.ShiftStatus)
			fmt.Printf("  Version:  %d\n", result.Version)
			for _, w := range result.Warnings {
				fmt.Printf("\n  %s! %s%s", colorYellow, w, colorReset)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("rota", "", "Rota id to assign on (defaults to the latest rota)")
	cmd.Flags().Bool("override", false, "Record the assignment even when eligibility rules fail")
	cmd.Flags().String("by", "", "Who is making the assignment (defaults to $USER)")

	return cmd
}

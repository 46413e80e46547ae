package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// AddShiftCmd creates the addShift command
func AddShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addShift <date> <slot>",
		Short: "Add a cover shift to a rota",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("date must look like 2025-06-02: %w", err)
			}
			slot, err := model.ParseTimeSlot(args[1])
			if err != nil {
				return err
			}

			rotaID, _ := cmd.Flags().GetString("rota")
			total, _ := cmd.Flags().GetInt("total")
			leaders, _ := cmd.Flags().GetInt("leaders")
			drivers, _ := cmd.Flags().GetInt("drivers")

			requirement := roster.SlotRequirement{
				Total:       total,
				ShiftLeader: leaders,
				Driver:      drivers,
			}

			result, err := services.AddShift(app.Ctx, app.Database, app.Logger, rotaID, date, slot, requirement)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Shift added!\n\n")
			fmt.Printf("  Rota ID:  %s\n", result.RotaID)
			fmt.Printf("  Shift:    %s\n", result.Shift.ID)
			fmt.Printf("  Date:     %s %s\n", result.Shift.Date.Format("2006-01-02"), result.Shift.Time)
			fmt.Printf("  Needs:    %s\n", formatRoleCounts(result.Shift.RequiredRoles))
			fmt.Printf("  Version:  %d\n", result.Version)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("rota", "", "Rota id to add to (defaults to the latest rota)")
	cmd.Flags().Int("total", 2, "Total staff required on the shift")
	cmd.Flags().Int("leaders", 1, "Shift leaders required")
	cmd.Flags().Int("drivers", 0, "Drivers required")

	return cmd
}

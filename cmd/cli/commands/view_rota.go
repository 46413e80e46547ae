package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// ANSI color codes shared by the display helpers
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// ViewRotaCmd creates the viewRota command
func ViewRotaCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewRota [rota_id]",
		Short: "View a rota's week grid (defaults to the latest rota)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rotaID string
			if len(args) > 0 {
				rotaID = args[0]
			}
			detail, _ := cmd.Flags().GetBool("detail")

			rota, err := services.GetRoster(app.Ctx, app.Database, app.Logger, rotaID)
			if err != nil {
				return err
			}

			fmt.Printf("\nRota %s\n", rota.ID)
			fmt.Printf("Week of %s to %s (%s, version %d)\n\n",
				rota.StartDate.Format("2006-01-02"),
				rota.EndDate.Format("2006-01-02"),
				rota.Status, rota.Version)

			printRotaGrid(rota)

			if detail {
				fmt.Println()
				printShiftDetail(rota)
			}
			return nil
		},
	}

	cmd.Flags().Bool("detail", false, "List every shift with its id and assignments")

	return cmd
}

// statusCell renders one shift as "assigned/required" and picks the
// color for its staffing status.
func statusCell(shift *roster.Shift) (string, string) {
	text := fmt.Sprintf("%d/%d", len(shift.AssignedStaff), shift.RequiredStaff)
	switch shift.Status {
	case roster.StatusFullyStaffed:
		return text, colorGreen
	case roster.StatusPartiallyStaffed:
		return text, colorYellow
	case roster.StatusConflict:
		return text + " !", colorRed
	default:
		if shift.RequiredStaff == 0 {
			return text, colorDim
		}
		return text, colorRed
	}
}

// formatRoleCounts renders a shift's required roles in requirement
// order, e.g. "1 Shift leader, 1 Driver, 2 Care staff".
func formatRoleCounts(counts []roster.RoleCount) string {
	if len(counts) == 0 {
		return "no staff required"
	}
	parts := make([]string, 0, len(counts))
	for _, rc := range counts {
		parts = append(parts, fmt.Sprintf("%d %s", rc.Count, rc.Role))
	}
	return strings.Join(parts, ", ")
}

// printRotaGrid renders the week as a day-by-slot grid with one colored
// cell per shift.
func printRotaGrid(rota *roster.Rota) {
	slots := model.AllTimeSlots()
	dayColWidth := 13
	slotColWidth := 12

	// Header row with slot names
	fmt.Printf("%-*s", dayColWidth, "")
	for _, slot := range slots {
		fmt.Printf("%-*s", slotColWidth, slot)
	}
	fmt.Println()

	// Separator
	fmt.Println(strings.Repeat("-", dayColWidth+slotColWidth*len(slots)))

	// One row per day of the week
	inWeek := make(map[string]bool)
	for day := rota.StartDate; !day.After(rota.EndDate); day = day.AddDate(0, 0, 1) {
		fmt.Printf("%-*s", dayColWidth, day.Format("Mon Jan 02"))
		for _, slot := range slots {
			shift, ok := rota.ShiftAt(day, slot)
			if !ok {
				fmt.Printf("%s%-*s%s", colorDim, slotColWidth, "-", colorReset)
				continue
			}
			inWeek[shift.ID] = true
			text, color := statusCell(shift)
			fmt.Printf("%s%-*s%s", color, slotColWidth, text, colorReset)
		}
		fmt.Println()
	}

	// Cover shifts added outside the generated week
	var extra []*roster.Shift
	for _, shift := range rota.Shifts {
		if !inWeek[shift.ID] {
			extra = append(extra, shift)
		}
	}
	if len(extra) > 0 {
		fmt.Println()
		fmt.Println("Additional cover:")
		for _, shift := range extra {
			text, color := statusCell(shift)
			fmt.Printf("  %s %-10s %s%s%s\n",
				shift.Date.Format("Mon Jan 02"), shift.Time, color, text, colorReset)
		}
	}

	// Legend
	fmt.Println()
	fmt.Println("Legend:")
	fmt.Printf("  %sX/Y%s = fully staffed   %sX/Y%s = partially staffed   %sX/Y%s = unfilled   %s!%s = conflict\n",
		colorGreen, colorReset, colorYellow, colorReset, colorRed, colorReset, colorRed, colorReset)
}

// printShiftDetail lists every shift with its id, requirements and
// assignments, in grid order.
func printShiftDetail(rota *roster.Rota) {
	fmt.Println("Shifts:")
	for _, shift := range rota.Shifts {
		fmt.Printf("\n  %s  %s %-10s %s\n",
			shift.ID, shift.Date.Format("2006-01-02"), shift.Time, shift.Status)
		fmt.Printf("      needs: %s\n", formatRoleCounts(shift.RequiredRoles))
		for _, asg := range shift.AssignedStaff {
			override := ""
			if asg.Override {
				override = " [override]"
			}
			fmt.Printf("      - %s as %s (by %s)%s\n", asg.StaffID, asg.Role, asg.AssignedBy, override)
		}
	}
}

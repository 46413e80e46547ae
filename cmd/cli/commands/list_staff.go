package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// ListStaffCmd creates the listStaff command
func ListStaffCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listStaff",
		Short: "List the staff directory with roles and compliance standing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, err := services.ListStaff(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			if len(staff) == 0 {
				fmt.Println("\nNo staff found.")
				return nil
			}

			fmt.Printf("\nFound %d staff member(s):\n\n", len(staff))
			fmt.Printf("%-14s %-22s %-34s %-7s %-18s %s\n", "ID", "Name", "Roles", "Hours", "Compliance", "Active")
			for _, member := range staff {
				roles := make([]string, len(member.Roles))
				for i, r := range member.Roles {
					roles[i] = string(r)
				}
				band := string(member.Compliance.Band())
				active := "yes"
				if !member.Active {
					active = fmt.Sprintf("%sno%s", colorDim, colorReset)
				}
				fmt.Printf("%-14s %-22s %-34s %-7.1f %s%-18s%s %s\n",
					member.ID,
					member.FullName(),
					strings.Join(roles, ", "),
					member.ContractedHours,
					bandColor(band), band, colorReset,
					active)
			}
			fmt.Println()
			return nil
		},
	}
}

// bandColor picks the display color for a compliance band.
func bandColor(band string) string {
	switch band {
	case "compliant":
		return colorGreen
	case "needs attention":
		return colorYellow
	default:
		return colorRed
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// ListRotasCmd creates the listRotas command
func ListRotasCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRotas",
		Short: "List all rotas, newest week first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rotas, err := services.ListRotas(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			if len(rotas) == 0 {
				fmt.Println("\nNo rotas found. Run generateRota to create one.")
				return nil
			}

			fmt.Printf("\nFound %d rota(s):\n\n", len(rotas))
			fmt.Printf("%-38s %-12s %-12s %-10s %s\n", "ID", "Week Start", "Week End", "Status", "Version")
			for _, rec := range rotas {
				fmt.Printf("%-38s %-12s %-12s %-10s %d\n",
					rec.ID,
					rec.StartDate.Format("2006-01-02"),
					rec.EndDate.Format("2006-01-02"),
					rec.Status,
					rec.Version)
			}
			fmt.Println()
			return nil
		},
	}
}

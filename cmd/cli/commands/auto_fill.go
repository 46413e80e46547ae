package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// AutoFillCmd creates the autoFill command
func AutoFillCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoFill [rota_id]",
		Short: "Fill a rota's open slots with the best-scoring eligible staff",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rotaID string
			if len(args) > 0 {
				rotaID = args[0]
			}

			priority, _ := cmd.Flags().GetString("priority")
			allowPartial, _ := cmd.Flags().GetBool("allow-partial")
			maxIterations, _ := cmd.Flags().GetInt("max-iterations")

			opts := roster.DefaultSchedulerOptions()
			if priority != "" {
				var err error
				opts.OptimizationPriority, err = resolvePriority(priority)
				if err != nil {
					return err
				}
			}
			opts.AllowPartialFill = allowPartial
			if maxIterations > 0 {
				opts.MaxIterations = maxIterations
			}

			result, err := services.AutoFillRota(app.Ctx, app.Database, app.Logger, rotaID, opts)
			if err != nil {
				return err
			}

			if !result.Report.Applied {
				fmt.Printf("\n%s✗ Auto-fill could not fully staff the week. Nothing was saved.%s\n\n", colorRed, colorReset)
				fmt.Printf("  Open slots:  %d\n", result.Report.OpenSlots)
				fmt.Printf("  Iterations:  %d\n", result.Report.Iterations)
				if len(result.Report.Gaps) > 0 {
					fmt.Println("\nGaps:")
					for _, gap := range result.Report.Gaps {
						fmt.Printf("  %s- %s%s\n", colorRed, gap, colorReset)
					}
				}
				fmt.Println("\nRe-run with --allow-partial to keep a best-effort fill.")
				return nil
			}

			fmt.Printf("\n✓ Auto-fill applied!\n\n")
			fmt.Printf("  Rota ID:     %s\n", result.RotaID)
			fmt.Printf("  Assigned:    %d\n", result.Report.Assigned)
			fmt.Printf("  Iterations:  %d\n", result.Report.Iterations)
			fmt.Printf("  Open slots:  %d\n", result.Report.OpenSlots)
			fmt.Printf("  Version:     %d\n", result.Version)
			if len(result.Report.Gaps) > 0 {
				fmt.Println("\nGaps:")
				for _, gap := range result.Report.Gaps {
					fmt.Printf("  %s! %s%s\n", colorYellow, gap, colorReset)
				}
			}
			fmt.Println()
			printRotaGrid(result.Rota)
			return nil
		},
	}

	cmd.Flags().String("priority", "", "Optimization priority: balanced, staff-preference or coverage")
	cmd.Flags().Bool("allow-partial", false, "Save the fill even if some slots stay open")
	cmd.Flags().Int("max-iterations", 0, "Cap on fill iterations (0 uses the default)")

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/model"
	"github.com/oakhollow/staff-rota/pkg/core/roster"
	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// SuggestCmd creates the suggest command
func SuggestCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <shift_id> <role>",
		Short: "Rank the best available staff for a role on a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			shiftID := args[0]
			role, err := model.ParseRole(args[1])
			if err != nil {
				return err
			}

			rotaID, _ := cmd.Flags().GetString("rota")
			limit, _ := cmd.Flags().GetInt("limit")
			priority, _ := cmd.Flags().GetString("priority")

			opts := roster.DefaultSchedulerOptions()
			if priority != "" {
				opts.OptimizationPriority, err = resolvePriority(priority)
				if err != nil {
					return err
				}
			}

			result, err := services.SuggestStaff(app.Ctx, app.Database, app.Logger, rotaID, shiftID, role, opts, limit)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Suggestions ready!\n\n")
			fmt.Printf("  Rota ID:  %s\n", result.RotaID)
			fmt.Printf("  Shift:    %s\n", result.ShiftID)
			fmt.Printf("  Role:     %s\n", result.Role)

			if len(result.Suggestion.Suggested) == 0 {
				fmt.Printf("\n%sNo eligible staff found for this slot.%s\n", colorRed, colorReset)
			} else {
				fmt.Println("\nSuggested:")
				printCandidates(result.Suggestion.Suggested)
			}

			if len(result.Suggestion.Alternatives) > 0 {
				fmt.Println("\nAlternatives:")
				printCandidates(result.Suggestion.Alternatives)
			}

			if len(result.Suggestion.Reasoning) > 0 {
				fmt.Println("\nNotes:")
				for _, note := range result.Suggestion.Reasoning {
					fmt.Printf("  %s- %s%s\n", colorDim, note, colorReset)
				}
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("rota", "", "Rota id to suggest against (defaults to the latest rota)")
	cmd.Flags().Int("limit", 0, "Maximum number of primary suggestions")
	cmd.Flags().String("priority", "", "Optimization priority: balanced, staff-preference or coverage")

	return cmd
}

// resolvePriority maps the user-facing priority name onto the
// scheduler's optimization modes.
func resolvePriority(s string) (roster.OptimizationPriority, error) {
	switch roster.OptimizationPriority(s) {
	case roster.PriorityBalanced, roster.PriorityStaffPreference, roster.PriorityCoverage:
		return roster.OptimizationPriority(s), nil
	default:
		return "", fmt.Errorf("unknown priority %q: want balanced, staff-preference or coverage", s)
	}
}

// printCandidates renders a ranked candidate list with scores and any
// scheduling warnings.
func printCandidates(candidates []roster.CandidateSuggestion) {
	for i, c := range candidates {
		fmt.Printf("  %d. %-22s score %5.1f  confidence %3.0f%%\n", i+1, c.StaffID, c.Score, c.Confidence*100)
		fmt.Printf("     %s%s%s\n", colorDim, c.Reason, colorReset)
		for _, w := range c.Warnings {
			fmt.Printf("     %s! %s%s\n", colorYellow, w, colorReset)
		}
	}
}

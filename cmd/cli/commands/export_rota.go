package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakhollow/staff-rota/pkg/core/services"
)

// ExportRotaCmd creates the exportRota command
func ExportRotaCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exportRota [rota_id]",
		Short: "Export a rota's assignments as a re-importable JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rotaID string
			if len(args) > 0 {
				rotaID = args[0]
			}
			outPath, _ := cmd.Flags().GetString("out")

			payload, err := services.ExportRota(app.Ctx, app.Database, app.Logger, rotaID)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode export: %w", err)
			}
			data = append(data, '\n')

			if outPath == "" {
				fmt.Print(string(data))
				return nil
			}

			if err := os.WriteFile(outPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}
			fmt.Printf("\n✓ Rota exported!\n\n")
			fmt.Printf("  Shifts:  %d\n", len(payload.Shifts))
			fmt.Printf("  File:    %s\n", outPath)
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("out", "", "Write the document to a file instead of stdout")

	return cmd
}

package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the last apply recorded",
	Long:  `Display the manifest of the last apply and whether each recorded path still exists.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine(cmd)
		if err != nil {
			return err
		}

		result, err := eng.Status(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		PrintLabelValue("Root", result.Root)
		PrintLabelValue("Manifest", result.ManifestPath)
		if !result.Applied {
			PrintEmptyState("Nothing applied")
			return nil
		}
		if !result.AppliedAt.IsZero() {
			PrintLabelValue("Applied at", result.AppliedAt.Local().Format(time.RFC3339))
		}

		PrintSection(fmt.Sprintf("Directories (%d)", len(result.Entries)))
		rows := make([][]string, 0, len(result.Entries))
		for _, entry := range result.Entries {
			state := "present"
			if !entry.Exists {
				state = "missing"
			}
			rows = append(rows, []string{entry.Path, string(entry.Kind), state, entry.Source})
		}
		if len(rows) == 0 {
			PrintEmptyState("No directories recorded")
		}
		PrintTable([]string{"PATH", "KIND", "STATE", "SOURCE"}, rows)

		if len(result.Patches) > 0 {
			PrintSection(fmt.Sprintf("Patches (%d)", len(result.Patches)))
			rows = rows[:0]
			for _, p := range result.Patches {
				state := "applied"
				if !p.Applied {
					state = "failed"
				}
				rows = append(rows, []string{p.Name, state, p.Source})
			}
			PrintTable([]string{"PATCH", "STATE", "SOURCE"}, rows)
		}
		return nil
	},
}

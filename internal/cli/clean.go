package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modapply/internal/engine"
)

var cleanDryRun bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Revert the last apply",
	Long: `Revert everything recorded by the last apply.

Tracked files are restored with git restore, which also undoes applied patches.
Every recorded module directory is then removed and the manifest deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine(cmd)
		if err != nil {
			return err
		}

		result, err := eng.Clean(cmd.Context(), &engine.CleanRequest{DryRun: cleanDryRun})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if cleanDryRun {
			PrintSection("Dry Run")
			PrintInfo(fmt.Sprintf("Would remove %s", PrintCount(len(result.Removed), "path", "paths")))
			PrintList(result.Removed, 1)
			for _, path := range result.Skipped {
				PrintWarning(fmt.Sprintf("%s does not exist, skipping", path))
			}
			return nil
		}

		for _, path := range result.Skipped {
			PrintWarning(fmt.Sprintf("%s does not exist, skipping", path))
		}
		PrintSuccess(fmt.Sprintf("Removed %s", PrintCount(len(result.Removed), "path", "paths")))
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "Show what would be removed without removing")
}

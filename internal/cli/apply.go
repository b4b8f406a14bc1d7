package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/modapply/internal/engine"
)

var (
	applyModulesFile   string
	applyForce         bool
	applyDryRun        bool
	applyStrictPatches bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Clone the listed modules and apply them to the target tree",
	Long: `Clone every repository listed in the module list and apply it to the target tree.

Each subdirectory of a repository's modules/ and thirdparty/ directories is copied
into the target tree, then every patches/*.patch file is applied with git apply.
Existing destinations are left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, env, err := newEngine(cmd)
		if err != nil {
			return err
		}

		req := &engine.ApplyRequest{
			ModulesFile:   env.ModulesFile,
			Force:         applyForce,
			DryRun:        applyDryRun,
			StrictPatches: applyStrictPatches,
		}
		if cmd.Flags().Changed("modules-file") {
			req.ModulesFile = applyModulesFile
		}

		result, err := eng.Apply(cmd.Context(), req)
		if err != nil {
			if result != nil && len(result.Conflicts) > 0 {
				PrintSection("Conflicts Detected")
				for _, conflict := range result.Conflicts {
					PrintError(fmt.Sprintf("%s: %s", conflict.Path, conflict.Reason))
				}
				fmt.Fprintln(out)
			}
			if errors.Is(err, engine.ErrDestinationExists) {
				PrintWarning("Use --force to overwrite existing directories.")
			}
			if result != nil && result.ManifestPath != "" {
				PrintWarning("Apply stopped part way; run 'modapply clean' to revert it.")
			}
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if applyDryRun {
			PrintSection("Dry Run")
			PrintLabelValue("Target", eng.Paths().Root)
			PrintInfo(fmt.Sprintf("Would copy %s and apply %s",
				PrintCount(len(result.Copied), "directory", "directories"),
				PrintCount(len(result.Patches), "patch", "patches")))
			if len(result.Copied) > 0 {
				PrintSubsection("Directories:")
				items := make([]string, 0, len(result.Copied))
				for _, entry := range result.Copied {
					items = append(items, entry.Path)
				}
				PrintList(items, 1)
			}
			if len(result.Patches) > 0 {
				PrintSubsection("Patches:")
				items := make([]string, 0, len(result.Patches))
				for _, p := range result.Patches {
					items = append(items, p.Name)
				}
				PrintList(items, 1)
			}
			if len(result.Conflicts) > 0 {
				PrintSection("Conflicts Detected")
				for _, conflict := range result.Conflicts {
					PrintWarning(fmt.Sprintf("%s: %s", conflict.Path, conflict.Reason))
				}
				fmt.Fprintln(out)
				PrintWarning("Use --force to overwrite existing directories.")
			}
			return nil
		}

		PrintSuccess(fmt.Sprintf("Applied %s from %s",
			PrintCount(len(result.Copied), "directory", "directories"),
			PrintCount(len(result.Sources), "module source", "module sources")))

		failed := result.FailedPatches()
		if applied := len(result.Patches) - len(failed); applied > 0 {
			PrintSuccess(fmt.Sprintf("Applied %s", PrintCount(applied, "patch", "patches")))
		}
		for _, p := range failed {
			PrintWarning(fmt.Sprintf("Patch %s did not apply", p.Name))
		}
		PrintLabelValue("Manifest", result.ManifestPath)
		return nil
	},
}

func init() {
	applyCmd.Flags().StringVar(&applyModulesFile, "modules-file", "", "Module list to read (default: $MODAPPLY_MODULES_FILE, else modules_file.txt)")
	applyCmd.Flags().BoolVarP(&applyForce, "force", "f", false, "Overwrite existing module directories")
	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false, "Show what would be applied without applying")
	applyCmd.Flags().BoolVar(&applyStrictPatches, "strict-patches", false, "Abort when a patch does not apply")
}

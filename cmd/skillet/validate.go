package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate a skill directory",
	Long: `Validate a skill directory: it must exist, contain a SKILL.md manifest,
and the manifest's frontmatter must pass every field rule. All violations
are reported, not just the first.

Examples:
  skillet validate ./my-skill`,
	Args: cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		result := manifest.ValidateDirectory(args[0])
		if result.Valid {
			presenter.Success(fmt.Sprintf("%s is a valid skill (%s)", args[0], result.Manifest.Name))
			return
		}

		for _, err := range result.Errors {
			presenter.Error(err, "")
		}
		presenter.Info(fmt.Sprintf("%d problem(s) found", len(result.Errors)))
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

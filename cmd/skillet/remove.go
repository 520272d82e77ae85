package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a deployed skill from a target",
	Long: `Remove a deployed skill from a target.

For the gemini target the single GEMINI.md document is removed regardless
of the name given.

Examples:
  skillet remove my-skill
  skillet remove my-skill --target opencode --project /path/to/repo`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectPath, _ := cmd.Flags().GetString("project")

		t, err := resolveOneTarget(cmd)
		if err != nil {
			presenter.Error(err, "invalid target")
			os.Exit(1)
		}

		engine, err := deploy.NewEngine()
		if err != nil {
			presenter.Error(err, "failed to initialize deployment engine")
			os.Exit(1)
		}

		path, err := engine.Remove(t, args[0], projectPath)
		if err != nil {
			presenter.Error(err, "remove failed")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Removed %s", path))
	},
}

func init() {
	removeCmd.Flags().StringP("target", "t", "", "Target to remove from (claude, opencode, gemini)")
	removeCmd.Flags().StringP("project", "p", "", "Remove from project scope rooted at this path")
	rootCmd.AddCommand(removeCmd)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new skill directory",
	Long: `Create a new skill directory with a starter SKILL.md manifest.

Examples:
  skillet init my-skill
  skillet init my-skill --description "Reviews pull requests"
  skillet init my-skill --dir ./skills`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		description, _ := cmd.Flags().GetString("description")
		parent, _ := cmd.Flags().GetString("dir")
		if description == "" {
			description = "Describe what this skill does"
		}

		dir := filepath.Join(parent, name)
		if err := manifest.Scaffold(dir, name, description); err != nil {
			presenter.Error(err, "failed to scaffold skill")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Created %s", filepath.Join(dir, manifest.FileName)))
	},
}

func init() {
	initCmd.Flags().String("description", "", "Skill description for the manifest")
	initCmd.Flags().String("dir", ".", "Parent directory for the new skill")
	rootCmd.AddCommand(initCmd)
}

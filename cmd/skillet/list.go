package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployed skills",
	Long: `List the skills deployed for the requested targets and scope.

Examples:
  skillet list
  skillet list --target all
  skillet list --project /path/to/repo`,
	Run: func(cmd *cobra.Command, _ []string) {
		projectPath, _ := cmd.Flags().GetString("project")

		targets, err := resolveTargets(cmd)
		if err != nil {
			presenter.Error(err, "invalid targets")
			os.Exit(1)
		}

		engine, err := deploy.NewEngine()
		if err != nil {
			presenter.Error(err, "failed to initialize deployment engine")
			os.Exit(1)
		}

		var skills []deploy.InstalledSkill
		for _, t := range targets {
			installed, err := engine.Installed(t, projectPath)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("failed to list %s skills", t))
				os.Exit(1)
			}
			skills = append(skills, installed...)
		}

		if len(skills) == 0 {
			presenter.Info("No skills deployed")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTARGET\tSCOPE\tPATH\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t------\t-----\t----\t-----------")
		for _, skill := range skills {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				skill.Name, skill.Target, scopeLabel(projectPath), skill.Path, skill.Description)
		}
		tw.Flush()
	},
}

func init() {
	listCmd.Flags().StringP("target", "t", "", "Comma-separated targets (claude, opencode, gemini) or 'all'")
	listCmd.Flags().StringP("project", "p", "", "List project scope rooted at this path")
	rootCmd.AddCommand(listCmd)
}

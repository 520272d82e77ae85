package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

var batchDeployCmd = &cobra.Command{
	Use:   "batch-deploy <dir>",
	Short: "Deploy every skill directory under a parent directory",
	Long: `Deploy every skill directory found directly under a parent directory.

Each immediate subdirectory containing a SKILL.md is validated and deployed
in lexicographic name order. One skill's failure never stops the others.

Examples:
  skillet batch-deploy ./skills
  skillet batch-deploy ./skills --target all --force`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getDeployConfigFromFlags(cmd)

		targets, err := resolveTargets(cmd)
		if err != nil {
			presenter.Error(err, "invalid targets")
			os.Exit(1)
		}

		engine, err := deploy.NewEngine(deploy.WithExcludes(configuredExcludes()...))
		if err != nil {
			presenter.Error(err, "failed to initialize deployment engine")
			os.Exit(1)
		}

		results, err := engine.BatchDeploy(cmd.Context(), args[0], deploy.Options{
			Targets:     targets,
			Force:       config.Force,
			DryRun:      config.DryRun,
			ProjectPath: config.ProjectPath,
		})
		if err != nil {
			presenter.Error(err, "batch deploy failed")
			os.Exit(1)
		}

		deployed, failed, invalid := 0, 0, 0
		for _, res := range results {
			presenter.Section(res.SkillName)
			if res.ValidationErr != nil {
				invalid++
				presenter.Error(res.ValidationErr, "validation failed")
				continue
			}
			if res.Err != nil {
				failed++
				presenter.Error(res.Err, "deploy failed")
				continue
			}
			if printOutcomes(res.Outcomes, config.DryRun) > 0 {
				failed++
			} else {
				deployed++
			}
		}

		presenter.Separator()
		presenter.Info(fmt.Sprintf("%d deployed, %d failed, %d invalid", deployed, failed, invalid))
		if failed > 0 || invalid > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewDeployConfig()
	batchDeployCmd.Flags().StringP("target", "t", defaults.Target, "Comma-separated targets (claude, opencode, gemini) or 'all'")
	batchDeployCmd.Flags().BoolP("force", "f", defaults.Force, "Overwrite existing deployments")
	batchDeployCmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would happen without writing anything")
	batchDeployCmd.Flags().StringP("project", "p", defaults.ProjectPath, "Deploy to project scope rooted at this path")
	rootCmd.AddCommand(batchDeployCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

type DeployConfig struct {
	Target      string
	Force       bool
	DryRun      bool
	ProjectPath string
}

func NewDeployConfig() *DeployConfig {
	return &DeployConfig{}
}

var deployCmd = &cobra.Command{
	Use:   "deploy <dir>",
	Short: "Deploy a skill directory to one or more targets",
	Long: `Deploy a skill directory to one or more targets.

The directory must contain a SKILL.md manifest. The destination is named
after the manifest's declared name, not the directory's basename.

Examples:
  skillet deploy ./my-skill
  skillet deploy ./my-skill --target claude,opencode
  skillet deploy ./my-skill --target all --force
  skillet deploy ./my-skill --project /path/to/repo --dry-run`,
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

		outcomes, err := engine.Deploy(cmd.Context(), args[0], deploy.Options{
			Targets:     targets,
			Force:       config.Force,
			DryRun:      config.DryRun,
			ProjectPath: config.ProjectPath,
		})
		if err != nil {
			presenter.Error(err, "deploy failed")
			os.Exit(1)
		}

		failed := printOutcomes(outcomes, config.DryRun)
		presenter.Info(fmt.Sprintf("%d succeeded, %d failed", len(outcomes)-failed, failed))
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewDeployConfig()
	deployCmd.Flags().StringP("target", "t", defaults.Target, "Comma-separated targets (claude, opencode, gemini) or 'all'")
	deployCmd.Flags().BoolP("force", "f", defaults.Force, "Overwrite an existing deployment")
	deployCmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would happen without writing anything")
	deployCmd.Flags().StringP("project", "p", defaults.ProjectPath, "Deploy to project scope rooted at this path")
	rootCmd.AddCommand(deployCmd)
}

func getDeployConfigFromFlags(cmd *cobra.Command) *DeployConfig {
	config := NewDeployConfig()
	if targetSpec, err := cmd.Flags().GetString("target"); err == nil {
		config.Target = targetSpec
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	if dryRun, err := cmd.Flags().GetBool("dry-run"); err == nil {
		config.DryRun = dryRun
	}
	if projectPath, err := cmd.Flags().GetString("project"); err == nil {
		config.ProjectPath = projectPath
	}
	return config
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/importer"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

type ImportConfig struct {
	Ref         string
	SubDir      string
	Force       bool
	DryRun      bool
	ProjectPath string
}

func NewImportConfig() *ImportConfig {
	return &ImportConfig{}
}

var importCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Import every skill from a repository",
	Long: `Clone a repository and deploy every skill directory found inside it,
without registering any links. An existing destination is skipped unless
--force is set.

Examples:
  skillet import https://github.com/org/skills
  skillet import https://github.com/org/skills --ref v1.2.0 --dir skills
  skillet import git@github.com:org/skills.git --target all --force`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getImportConfigFromFlags(cmd)

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

		imp, err := importer.New(importer.WithEngine(engine))
		if err != nil {
			presenter.Error(err, "failed to initialize importer")
			os.Exit(1)
		}

		presenter.Info(fmt.Sprintf("Importing skills from %s...", args[0]))
		results, err := imp.Import(cmd.Context(), args[0], importer.Options{
			Ref:         config.Ref,
			SubDir:      config.SubDir,
			Targets:     targets,
			Force:       config.Force,
			DryRun:      config.DryRun,
			ProjectPath: config.ProjectPath,
		})
		if err != nil {
			presenter.Error(err, "import failed")
			os.Exit(1)
		}

		imported, skipped, failed := 0, 0, 0
		for _, res := range results {
			switch res.Status {
			case importer.StatusImported:
				imported++
				for _, outcome := range res.Outcomes {
					presenter.Success(fmt.Sprintf("%s -> %s", res.SkillName, outcome.Path))
				}
			case importer.StatusSkipped:
				skipped++
				presenter.Warning(fmt.Sprintf("%s: already exists, use --force to overwrite", res.SkillName))
			default:
				failed++
				presenter.Error(res.Err, res.SkillName)
			}
		}

		presenter.Separator()
		presenter.Info(fmt.Sprintf("%d imported, %d skipped, %d failed", imported, skipped, failed))
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewImportConfig()
	importCmd.Flags().String("ref", defaults.Ref, "Branch or tag to import from (default main)")
	importCmd.Flags().String("dir", defaults.SubDir, "Restrict discovery to one directory within the repository")
	importCmd.Flags().StringP("target", "t", "", "Comma-separated targets (claude, opencode, gemini) or 'all'")
	importCmd.Flags().BoolP("force", "f", defaults.Force, "Overwrite existing deployments")
	importCmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would happen without writing anything")
	importCmd.Flags().StringP("project", "p", defaults.ProjectPath, "Deploy to project scope rooted at this path")
	rootCmd.AddCommand(importCmd)
}

func getImportConfigFromFlags(cmd *cobra.Command) *ImportConfig {
	config := NewImportConfig()
	if ref, err := cmd.Flags().GetString("ref"); err == nil {
		config.Ref = ref
	}
	if subDir, err := cmd.Flags().GetString("dir"); err == nil {
		config.SubDir = subDir
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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/links"
	"github.com/skillet-cli/skillet/pkg/presenter"
)

type SyncConfig struct {
	Force       bool
	DryRun      bool
	ProjectPath string
}

func NewSyncConfig() *SyncConfig {
	return &SyncConfig{}
}

var linkSyncCmd = &cobra.Command{
	Use:   "sync <name>",
	Short: "Materialize one link and deploy it",
	Long: `Materialize one registered link and deploy it to its registry's target.

A local link deploys straight from its source directory; a git link is
cloned shallowly into a temporary directory that is removed afterwards.

Examples:
  skillet link sync my-skill
  skillet link sync team-skill --force`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getSyncConfigFromFlags(cmd)

		syncer, opts, err := newSyncerFromFlags(cmd, config)
		if err != nil {
			presenter.Error(err, "failed to initialize sync")
			os.Exit(1)
		}

		result := syncer.Sync(cmd.Context(), args[0], opts)
		if printSyncResult(result, config.DryRun) {
			os.Exit(1)
		}
	},
}

var linkSyncAllCmd = &cobra.Command{
	Use:   "sync-all",
	Short: "Materialize and deploy every enabled link",
	Long: `Materialize and deploy every enabled link in the registry, in registry
order. One link's failure does not stop the rest.

Examples:
  skillet link sync-all
  skillet link sync-all --force --project /path/to/repo`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getSyncConfigFromFlags(cmd)

		syncer, opts, err := newSyncerFromFlags(cmd, config)
		if err != nil {
			presenter.Error(err, "failed to initialize sync")
			os.Exit(1)
		}

		results, err := syncer.SyncAll(cmd.Context(), opts)
		if err != nil {
			presenter.Error(err, "sync-all failed")
			os.Exit(1)
		}

		if len(results) == 0 {
			presenter.Info("No enabled links to sync")
			return
		}

		failed := 0
		for _, result := range results {
			if printSyncResult(result, config.DryRun) {
				failed++
			}
		}

		presenter.Separator()
		presenter.Info(fmt.Sprintf("%d synced, %d failed", len(results)-failed, failed))
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func newSyncerFromFlags(cmd *cobra.Command, config *SyncConfig) (*links.Syncer, links.SyncOptions, error) {
	t, err := resolveOneTarget(cmd)
	if err != nil {
		return nil, links.SyncOptions{}, err
	}

	syncer, err := links.NewSyncer()
	if err != nil {
		return nil, links.SyncOptions{}, err
	}

	return syncer, links.SyncOptions{
		Target:      t,
		ProjectPath: config.ProjectPath,
		Force:       config.Force,
		DryRun:      config.DryRun,
	}, nil
}

func init() {
	for _, cmd := range []*cobra.Command{linkSyncCmd, linkSyncAllCmd} {
		defaults := NewSyncConfig()
		cmd.Flags().BoolP("force", "f", defaults.Force, "Overwrite existing deployments")
		cmd.Flags().Bool("dry-run", defaults.DryRun, "Report what would happen without writing anything")
		addLinkScopeFlags(cmd)
		linkCmd.AddCommand(cmd)
	}
}

func getSyncConfigFromFlags(cmd *cobra.Command) *SyncConfig {
	config := NewSyncConfig()
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

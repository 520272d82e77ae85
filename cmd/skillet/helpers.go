package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/links"
	"github.com/skillet-cli/skillet/pkg/presenter"
	"github.com/skillet-cli/skillet/pkg/target"
)

// resolveTargets parses the --target flag, falling back to the configured
// default targets, then to claude.
func resolveTargets(cmd *cobra.Command) ([]target.Target, error) {
	spec, err := cmd.Flags().GetString("target")
	if err != nil || spec == "" {
		spec = strings.Join(viper.GetStringSlice("targets"), ",")
	}
	if spec == "" {
		spec = string(target.Claude)
	}
	return target.ParseList(spec)
}

// resolveOneTarget parses the --target flag into exactly one target.
func resolveOneTarget(cmd *cobra.Command) (target.Target, error) {
	targets, err := resolveTargets(cmd)
	if err != nil {
		return "", err
	}
	if len(targets) != 1 {
		return "", fmt.Errorf("exactly one target required, got %d", len(targets))
	}
	return targets[0], nil
}

// configuredExcludes returns extra copy exclusion globs from config.
func configuredExcludes() []string {
	return viper.GetStringSlice("deploy.exclude")
}

// printOutcomes writes one status line per deployment outcome and returns
// the number of failures.
func printOutcomes(outcomes []deploy.Outcome, dryRun bool) int {
	failed := 0
	prefix := ""
	if dryRun {
		prefix = "[dry run] "
	}
	for _, outcome := range outcomes {
		if outcome.Success {
			presenter.Success(fmt.Sprintf("%s%s: %s", prefix, outcome.Target, outcome.Path))
		} else {
			failed++
			presenter.Error(outcome.Err, fmt.Sprintf("%s%s", prefix, outcome.Target))
		}
	}
	return failed
}

// printSyncResult writes one status line for a link sync result and reports
// whether it failed.
func printSyncResult(result *links.SyncResult, dryRun bool) bool {
	switch result.Status {
	case links.SyncDeployed:
		for _, outcome := range result.Outcomes {
			prefix := ""
			if dryRun {
				prefix = "[dry run] "
			}
			presenter.Success(fmt.Sprintf("%s%s -> %s", prefix, result.Name, outcome.Path))
		}
		return false
	case links.SyncSkipped:
		presenter.Warning(fmt.Sprintf("%s: skipped (disabled)", result.Name))
		return false
	default:
		presenter.Error(result.Err, result.Name)
		return true
	}
}

// scopeLabel names the scope selected by a --project flag value.
func scopeLabel(projectPath string) string {
	if projectPath == "" {
		return "user"
	}
	return "project"
}

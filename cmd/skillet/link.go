package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillet-cli/skillet/pkg/links"
	"github.com/skillet-cli/skillet/pkg/presenter"
	"github.com/skillet-cli/skillet/pkg/target"
)

type LinkAddConfig struct {
	Type        string
	Path        string
	Branch      string
	Description string
	Disabled    bool
	Force       bool
	ProjectPath string
}

func NewLinkAddConfig() *LinkAddConfig {
	return &LinkAddConfig{}
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage links to externally hosted skills",
	Long: `Manage the registry of links to skills that live outside the managed
tree: on local disk, in a git repository, or at a web URL. Linked skills
can be re-materialized with 'skillet link sync'.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var linkAddCmd = &cobra.Command{
	Use:   "add <name> <source>",
	Short: "Register a link to an external skill",
	Long: `Register a link to an externally located skill.

The source kind is inferred from the source string (a git host URL or .git
suffix means git, another http(s) URL means web, anything else means local)
and can be overridden with --type.

Examples:
  skillet link add my-skill ~/sources/my-skill
  skillet link add team-skill https://github.com/org/skills --path skills/team-skill
  skillet link add pinned https://github.com/org/skills --branch release --type git
  skillet link add my-skill ./elsewhere --force`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		config := getLinkAddConfigFromFlags(cmd)

		t, err := resolveOneTarget(cmd)
		if err != nil {
			presenter.Error(err, "invalid target")
			os.Exit(1)
		}

		store, err := links.NewStore()
		if err != nil {
			presenter.Error(err, "failed to open link registry")
			os.Exit(1)
		}

		link := links.Link{
			Name:        args[0],
			Type:        links.SourceKind(config.Type),
			Source:      args[1],
			Path:        config.Path,
			Branch:      config.Branch,
			Enabled:     !config.Disabled,
			Description: config.Description,
		}

		added, err := store.Add(link, config.Force, t, config.ProjectPath)
		if err != nil {
			presenter.Error(err, "failed to add link")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Linked %s (%s) -> %s [%s, %s scope]",
			added.Name, added.Type, added.Describe(), t, scopeLabel(config.ProjectPath)))
	},
}

var linkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered links",
	Run: func(cmd *cobra.Command, _ []string) {
		projectPath, _ := cmd.Flags().GetString("project")

		t, err := resolveOneTarget(cmd)
		if err != nil {
			presenter.Error(err, "invalid target")
			os.Exit(1)
		}

		store, err := links.NewStore()
		if err != nil {
			presenter.Error(err, "failed to open link registry")
			os.Exit(1)
		}

		registered, err := store.List(t, projectPath)
		if err != nil {
			presenter.Error(err, "failed to list links")
			os.Exit(1)
		}

		if len(registered) == 0 {
			presenter.Info("No links registered")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTYPE\tSOURCE\tENABLED\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t----\t------\t-------\t-----------")
		for _, link := range registered {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
				link.Name, link.Type, link.Describe(), link.Enabled, link.Description)
		}
		tw.Flush()
	},
}

var linkRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a registered link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		projectPath, _ := cmd.Flags().GetString("project")

		t, err := resolveOneTarget(cmd)
		if err != nil {
			presenter.Error(err, "invalid target")
			os.Exit(1)
		}

		store, err := links.NewStore()
		if err != nil {
			presenter.Error(err, "failed to open link registry")
			os.Exit(1)
		}

		removed, err := store.Remove(args[0], t, projectPath)
		if err != nil {
			presenter.Error(err, "failed to remove link")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Removed link %s", removed.Name))
	},
}

var linkEnableCmd = &cobra.Command{
	Use:   "enable <name>",
	Short: "Enable a link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		toggleLink(cmd, args[0], true)
	},
}

var linkDisableCmd = &cobra.Command{
	Use:   "disable <name>",
	Short: "Disable a link without removing it",
	Long: `Disable a link without removing it. Disabled links are excluded from
'skillet link sync-all' but stay in the registry.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		toggleLink(cmd, args[0], false)
	},
}

func toggleLink(cmd *cobra.Command, name string, enabled bool) {
	projectPath, _ := cmd.Flags().GetString("project")

	t, err := resolveOneTarget(cmd)
	if err != nil {
		presenter.Error(err, "invalid target")
		os.Exit(1)
	}

	store, err := links.NewStore()
	if err != nil {
		presenter.Error(err, "failed to open link registry")
		os.Exit(1)
	}

	link, err := store.Toggle(name, enabled, t, projectPath)
	if err != nil {
		presenter.Error(err, "failed to update link")
		os.Exit(1)
	}

	state := "disabled"
	if link.Enabled {
		state = "enabled"
	}
	presenter.Success(fmt.Sprintf("Link %s %s", link.Name, state))
}

func addLinkScopeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("target", "t", string(target.Claude), "Target registry (claude, opencode, gemini)")
	cmd.Flags().StringP("project", "p", "", "Use the project-scope registry rooted at this path")
}

func init() {
	defaults := NewLinkAddConfig()
	linkAddCmd.Flags().String("type", defaults.Type, "Source kind (local, git, web); inferred when omitted")
	linkAddCmd.Flags().String("path", defaults.Path, "Skill directory within the source repository")
	linkAddCmd.Flags().String("branch", defaults.Branch, "Git branch to sync from (default main)")
	linkAddCmd.Flags().String("description", defaults.Description, "Free-text description")
	linkAddCmd.Flags().Bool("disabled", defaults.Disabled, "Register the link disabled")
	linkAddCmd.Flags().BoolP("force", "f", defaults.Force, "Replace an existing link with the same name")
	addLinkScopeFlags(linkAddCmd)

	addLinkScopeFlags(linkListCmd)
	addLinkScopeFlags(linkRemoveCmd)
	addLinkScopeFlags(linkEnableCmd)
	addLinkScopeFlags(linkDisableCmd)

	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(linkListCmd)
	linkCmd.AddCommand(linkRemoveCmd)
	linkCmd.AddCommand(linkEnableCmd)
	linkCmd.AddCommand(linkDisableCmd)
	rootCmd.AddCommand(linkCmd)
}

func getLinkAddConfigFromFlags(cmd *cobra.Command) *LinkAddConfig {
	config := NewLinkAddConfig()
	if kind, err := cmd.Flags().GetString("type"); err == nil {
		config.Type = kind
	}
	if path, err := cmd.Flags().GetString("path"); err == nil {
		config.Path = path
	}
	if branch, err := cmd.Flags().GetString("branch"); err == nil {
		config.Branch = branch
	}
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if disabled, err := cmd.Flags().GetBool("disabled"); err == nil {
		config.Disabled = disabled
	}
	if force, err := cmd.Flags().GetBool("force"); err == nil {
		config.Force = force
	}
	if projectPath, err := cmd.Flags().GetString("project"); err == nil {
		config.ProjectPath = projectPath
	}
	return config
}

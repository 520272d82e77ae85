// Package target enumerates the supported deployment platforms and resolves
// their filesystem layouts. The home directory is injected through the
// Resolver so tests can point everything at a sandbox.
package target

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Target identifies one consumer platform with its own directory conventions.
type Target string

const (
	// Claude deploys skills to Claude Code skill directories.
	Claude Target = "claude"
	// OpenCode deploys skills to OpenCode skill directories.
	OpenCode Target = "opencode"
	// Gemini writes a single converted GEMINI.md document per project.
	Gemini Target = "gemini"
)

// GeminiFileName is the single project-level artifact for the Gemini target.
const GeminiFileName = "GEMINI.md"

// registryDir is where link registry files live beneath a scope root.
const registryDir = ".skillet/links"

// All returns every supported target in its canonical order.
func All() []Target {
	return []Target{Claude, OpenCode, Gemini}
}

// Parse converts a string into a Target.
func Parse(s string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(s))) {
	case Claude:
		return Claude, nil
	case OpenCode:
		return OpenCode, nil
	case Gemini:
		return Gemini, nil
	default:
		return "", errors.Errorf("unknown target %q (supported: claude, opencode, gemini)", s)
	}
}

// ParseList converts a comma-separated target list, or the word "all",
// into targets. Duplicates are removed while preserving order.
func ParseList(s string) ([]Target, error) {
	if strings.TrimSpace(strings.ToLower(s)) == "all" {
		return All(), nil
	}

	var targets []Target
	seen := make(map[Target]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := Parse(part)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}

	if len(targets) == 0 {
		return nil, errors.New("no targets specified")
	}
	return targets, nil
}

// Resolver maps a (target, scope) pair to concrete filesystem locations.
type Resolver struct {
	home string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithHome overrides the operator home directory.
func WithHome(dir string) ResolverOption {
	return func(r *Resolver) error {
		r.home = dir
		return nil
	}
}

// NewResolver creates a Resolver, defaulting the home directory to the
// current user's when no override is supplied.
func NewResolver(opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get user home directory")
		}
		r.home = home
	}

	return r, nil
}

// Home returns the resolver's home directory.
func (r *Resolver) Home() string {
	return r.home
}

// BaseDir returns the directory that holds deployed skills for a target.
// A non-empty projectPath selects project scope; Gemini is always project
// scoped and defaults to the current directory.
func (r *Resolver) BaseDir(t Target, projectPath string) (string, error) {
	switch t {
	case Claude:
		if projectPath != "" {
			return filepath.Join(projectPath, ".claude", "skills"), nil
		}
		return filepath.Join(r.home, ".claude", "skills"), nil
	case OpenCode:
		if projectPath != "" {
			return filepath.Join(projectPath, ".opencode", "skill"), nil
		}
		return filepath.Join(r.home, ".config", "opencode", "skill"), nil
	case Gemini:
		if projectPath == "" {
			projectPath = "."
		}
		return projectPath, nil
	default:
		return "", errors.Errorf("unknown target %q", t)
	}
}

// SkillPath returns the destination for one named skill: a per-skill
// subdirectory for directory-based targets, or the single GEMINI.md
// artifact for Gemini (which ignores the name).
func (r *Resolver) SkillPath(t Target, name, projectPath string) (string, error) {
	base, err := r.BaseDir(t, projectPath)
	if err != nil {
		return "", err
	}
	if t == Gemini {
		return filepath.Join(base, GeminiFileName), nil
	}
	return filepath.Join(base, name), nil
}

// RegistryPath returns the link registry file for a (target, scope) pair.
func (r *Resolver) RegistryPath(t Target, projectPath string) string {
	root := r.home
	if projectPath != "" {
		root = projectPath
	}
	return filepath.Join(root, registryDir, string(t)+".json")
}

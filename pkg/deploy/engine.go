// Package deploy materializes validated skill directories at their
// platform-specific destinations. Each target is handled independently:
// one target's failure never prevents attempts on the others, and dry-run
// reports the same per-target verdicts without touching the filesystem.
package deploy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/otiai10/copy"
	"github.com/pkg/errors"

	"github.com/skillet-cli/skillet/pkg/geminidoc"
	"github.com/skillet-cli/skillet/pkg/logger"
	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/osutil"
	"github.com/skillet-cli/skillet/pkg/target"
)

var (
	// ErrAlreadyExists indicates the destination exists and force was not set.
	ErrAlreadyExists = errors.New("destination already exists")
	// ErrNoSkills indicates batch discovery found no skill directories.
	ErrNoSkills = errors.New("no skills found")
)

// defaultExcludes are glob patterns never copied into a deployment.
var defaultExcludes = []string{".git", ".git/**"}

// Outcome records one (skill, target) deployment attempt.
type Outcome struct {
	Target  target.Target
	Path    string
	Success bool
	Err     error // set when !Success
}

// Options controls a deployment run.
type Options struct {
	Targets     []target.Target
	Force       bool
	DryRun      bool
	ProjectPath string
}

// Engine deploys skill directories to their per-target destinations.
type Engine struct {
	resolver *target.Resolver
	excludes []string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithResolver sets the target path resolver.
func WithResolver(r *target.Resolver) EngineOption {
	return func(e *Engine) error {
		e.resolver = r
		return nil
	}
}

// WithExcludes appends copy exclusion glob patterns to the defaults.
func WithExcludes(patterns ...string) EngineOption {
	return func(e *Engine) error {
		e.excludes = append(e.excludes, patterns...)
		return nil
	}
}

// NewEngine creates a deployment engine.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		excludes: append([]string{}, defaultExcludes...),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.resolver == nil {
		r, err := target.NewResolver()
		if err != nil {
			return nil, err
		}
		e.resolver = r
	}

	return e, nil
}

// Resolver returns the engine's target path resolver.
func (e *Engine) Resolver() *target.Resolver {
	return e.resolver
}

// Deploy materializes the skill at skillDir for every requested target and
// returns one outcome per target. The returned error covers only fatal
// pre-checks: a missing or invalid skill directory, or an empty target list.
func (e *Engine) Deploy(ctx context.Context, skillDir string, opts Options) ([]Outcome, error) {
	if len(opts.Targets) == 0 {
		return nil, errors.New("no deployment targets specified")
	}

	result := manifest.ValidateDirectory(skillDir)
	if !result.Valid {
		return nil, errors.Wrapf(manifest.CombineErrors(result.Errors), "invalid skill at %s", skillDir)
	}
	m := result.Manifest

	log := logger.G(ctx).WithField("skill", m.Name)

	outcomes := make([]Outcome, 0, len(opts.Targets))
	for _, t := range opts.Targets {
		outcomes = append(outcomes, e.deployOne(ctx, skillDir, m, t, opts))
		log.WithField("target", string(t)).Debug("processed deployment target")
	}
	return outcomes, nil
}

func (e *Engine) deployOne(_ context.Context, skillDir string, m *manifest.Manifest, t target.Target, opts Options) Outcome {
	dest, err := e.resolver.SkillPath(t, m.Name, opts.ProjectPath)
	if err != nil {
		return Outcome{Target: t, Err: err}
	}

	if osutil.Exists(dest) {
		if !opts.Force {
			return Outcome{
				Target: t,
				Path:   dest,
				Err:    errors.Wrapf(ErrAlreadyExists, "%s already exists, use force to overwrite", dest),
			}
		}
		if !opts.DryRun {
			if err := os.RemoveAll(dest); err != nil {
				return Outcome{Target: t, Path: dest, Err: errors.Wrapf(err, "failed to remove existing %s", dest)}
			}
		}
	}

	if opts.DryRun {
		return Outcome{Target: t, Path: dest, Success: true}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Outcome{Target: t, Path: dest, Err: errors.Wrapf(err, "failed to create base directory for %s", dest)}
	}

	if t == target.Gemini {
		doc := geminidoc.Render(m)
		if err := os.WriteFile(dest, []byte(doc), 0o644); err != nil {
			return Outcome{Target: t, Path: dest, Err: errors.Wrapf(err, "failed to write %s", dest)}
		}
		return Outcome{Target: t, Path: dest, Success: true}
	}

	if err := copy.Copy(skillDir, dest, copy.Options{Skip: e.skipFunc(skillDir)}); err != nil {
		return Outcome{Target: t, Path: dest, Err: errors.Wrapf(err, "failed to copy skill to %s", dest)}
	}
	return Outcome{Target: t, Path: dest, Success: true}
}

// skipFunc builds the copy filter applying the engine's exclusion globs to
// paths relative to the skill directory root.
func (e *Engine) skipFunc(root string) func(info os.FileInfo, src, dest string) (bool, error) {
	return func(_ os.FileInfo, src, _ string) (bool, error) {
		rel, err := filepath.Rel(root, src)
		if err != nil {
			return false, nil
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range e.excludes {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				return true, nil
			}
		}
		return false, nil
	}
}

// Remove deletes a deployed skill. For Gemini the single GEMINI.md artifact
// is removed regardless of the name. The resolved path is returned so the
// caller can report it.
func (e *Engine) Remove(t target.Target, name, projectPath string) (string, error) {
	path, err := e.resolver.SkillPath(t, name, projectPath)
	if err != nil {
		return "", err
	}

	if !osutil.Exists(path) {
		return path, errors.Errorf("skill %q not found at %s", name, path)
	}

	if err := os.RemoveAll(path); err != nil {
		return path, errors.Wrapf(err, "failed to remove %s", path)
	}
	return path, nil
}

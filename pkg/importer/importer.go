// Package importer acquires every skill in a remote repository in one pass:
// clone, discover skill directories, validate, deploy. Unlike link sync it
// registers nothing; it is a one-off bulk acquisition.
package importer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/gitutil"
	"github.com/skillet-cli/skillet/pkg/logger"
	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/osutil"
	"github.com/skillet-cli/skillet/pkg/target"
)

// Status is the terminal state of one imported skill.
type Status string

const (
	// StatusImported means the skill was validated and deployed.
	StatusImported Status = "imported"
	// StatusSkipped means every destination already existed and force was not set.
	StatusSkipped Status = "skipped"
	// StatusFailed means validation or deployment failed.
	StatusFailed Status = "failed"
)

// prunedDirs are never descended into during discovery.
var prunedDirs = map[string]bool{".git": true, "node_modules": true}

// Result records one skill's fate within an import.
type Result struct {
	SkillName string
	SkillDir  string
	Status    Status
	Outcomes  []deploy.Outcome
	Err       error
}

// Options controls an import run.
type Options struct {
	Ref         string // branch or tag, defaults to main
	SubDir      string // restrict discovery to one directory within the repo
	Targets     []target.Target
	Force       bool
	DryRun      bool
	ProjectPath string
}

// Importer clones a repository and deploys every skill found inside it.
type Importer struct {
	engine *deploy.Engine
	cloner gitutil.Cloner
}

// Option configures an Importer.
type Option func(*Importer) error

// WithEngine sets the deployment engine.
func WithEngine(e *deploy.Engine) Option {
	return func(i *Importer) error {
		i.engine = e
		return nil
	}
}

// WithCloner sets the retrieval capability.
func WithCloner(c gitutil.Cloner) Option {
	return func(i *Importer) error {
		i.cloner = c
		return nil
	}
}

// New creates an Importer, defaulting any unset collaborator.
func New(opts ...Option) (*Importer, error) {
	imp := &Importer{}
	for _, opt := range opts {
		if err := opt(imp); err != nil {
			return nil, err
		}
	}

	if imp.engine == nil {
		engine, err := deploy.NewEngine()
		if err != nil {
			return nil, err
		}
		imp.engine = engine
	}
	if imp.cloner == nil {
		imp.cloner = gitutil.New()
	}

	return imp, nil
}

// Import clones repoURL at the requested ref and deploys every skill
// directory it contains, one result per skill sorted by directory name.
// Clone failure and empty discovery are fatal; per-skill failures are not.
func (i *Importer) Import(ctx context.Context, repoURL string, opts Options) ([]Result, error) {
	if repoURL == "" {
		return nil, errors.New("repository URL cannot be empty")
	}
	if len(opts.Targets) == 0 {
		return nil, errors.New("no deployment targets specified")
	}

	tempDir, err := os.MkdirTemp("", "skillet-import-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			logger.G(ctx).WithError(err).WithField("dir", tempDir).Warn("failed to clean up temp directory")
		}
	}()

	ref := opts.Ref
	if ref == "" {
		ref = gitutil.DefaultBranch
	}
	if err := i.cloner.Clone(ctx, repoURL, ref, tempDir); err != nil {
		return nil, errors.Wrapf(err, "failed to retrieve %s", repoURL)
	}

	root := tempDir
	if opts.SubDir != "" {
		root = filepath.Join(tempDir, opts.SubDir)
		if !osutil.IsDir(root) {
			return nil, errors.Errorf("directory %s not found in repository", opts.SubDir)
		}
	}

	skillDirs, err := findSkillDirs(root)
	if err != nil {
		return nil, err
	}
	if len(skillDirs) == 0 {
		return nil, errors.Wrapf(deploy.ErrNoSkills, "no skill directories in %s", repoURL)
	}

	results := make([]Result, 0, len(skillDirs))
	for _, dir := range skillDirs {
		results = append(results, i.importOne(ctx, dir, opts))
	}
	return results, nil
}

// findSkillDirs walks root collecting directories that contain a manifest
// file. A found skill directory is not descended into, so nested manifests
// ship as part of their parent skill.
func findSkillDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if prunedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if osutil.Exists(filepath.Join(path, manifest.FileName)) {
			dirs = append(dirs, path)
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}

	sort.Strings(dirs)
	return dirs, nil
}

func (i *Importer) importOne(ctx context.Context, dir string, opts Options) Result {
	res := Result{
		SkillName: filepath.Base(dir),
		SkillDir:  dir,
	}

	validation := manifest.ValidateDirectory(dir)
	if !validation.Valid {
		res.Status = StatusFailed
		res.Err = manifest.CombineErrors(validation.Errors)
		return res
	}
	res.SkillName = validation.Manifest.Name

	outcomes, err := i.engine.Deploy(ctx, dir, deploy.Options{
		Targets:     opts.Targets,
		Force:       opts.Force,
		DryRun:      opts.DryRun,
		ProjectPath: opts.ProjectPath,
	})
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Outcomes = outcomes
	res.Status = classify(outcomes)
	return res
}

// classify folds per-target outcomes into one status: skipped when every
// target tripped the overwrite guard, imported when every target succeeded,
// failed otherwise.
func classify(outcomes []deploy.Outcome) Status {
	allExist := true
	allOK := true
	for _, o := range outcomes {
		if o.Success {
			allExist = false
			continue
		}
		allOK = false
		if !errors.Is(o.Err, deploy.ErrAlreadyExists) {
			allExist = false
		}
	}
	switch {
	case allOK:
		return StatusImported
	case allExist:
		return StatusSkipped
	default:
		return StatusFailed
	}
}

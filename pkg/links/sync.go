package links

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/gitutil"
	"github.com/skillet-cli/skillet/pkg/logger"
	"github.com/skillet-cli/skillet/pkg/osutil"
	"github.com/skillet-cli/skillet/pkg/target"
)

// SyncStatus is the terminal state of one link sync.
type SyncStatus string

const (
	// SyncDeployed means the link's source was materialized and deployed.
	SyncDeployed SyncStatus = "deployed"
	// SyncSkipped means the link is disabled and was left alone.
	SyncSkipped SyncStatus = "skipped"
	// SyncFailed means lookup, retrieval, or deployment failed.
	SyncFailed SyncStatus = "failed"
)

var (
	// ErrDisabled indicates a sync of a disabled link.
	ErrDisabled = errors.New("link is disabled")
	// ErrRetrievalFailed indicates the version-control retrieval failed.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrWebUnsupported indicates web links cannot be synced.
	ErrWebUnsupported = errors.New("web links cannot be synced")
)

// SyncResult records the terminal state of one link sync.
type SyncResult struct {
	Name     string
	Status   SyncStatus
	Outcomes []deploy.Outcome
	Err      error
}

// SyncOptions controls a sync run.
type SyncOptions struct {
	Target      target.Target
	ProjectPath string
	Force       bool
	DryRun      bool
}

// Syncer re-materializes registry links through the deployment engine.
type Syncer struct {
	store  *Store
	engine *deploy.Engine
	cloner gitutil.Cloner
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer) error

// WithStore sets the registry store.
func WithStore(s *Store) SyncerOption {
	return func(sy *Syncer) error {
		sy.store = s
		return nil
	}
}

// WithEngine sets the deployment engine.
func WithEngine(e *deploy.Engine) SyncerOption {
	return func(sy *Syncer) error {
		sy.engine = e
		return nil
	}
}

// WithCloner sets the version-control retrieval capability.
func WithCloner(c gitutil.Cloner) SyncerOption {
	return func(sy *Syncer) error {
		sy.cloner = c
		return nil
	}
}

// NewSyncer creates a Syncer, defaulting any unset collaborator.
func NewSyncer(opts ...SyncerOption) (*Syncer, error) {
	sy := &Syncer{}
	for _, opt := range opts {
		if err := opt(sy); err != nil {
			return nil, err
		}
	}

	if sy.store == nil {
		store, err := NewStore()
		if err != nil {
			return nil, err
		}
		sy.store = store
	}
	if sy.engine == nil {
		engine, err := deploy.NewEngine(deploy.WithResolver(sy.store.Resolver()))
		if err != nil {
			return nil, err
		}
		sy.engine = engine
	}
	if sy.cloner == nil {
		sy.cloner = gitutil.New()
	}

	return sy, nil
}

// Sync looks up one link by name and runs the sync state machine:
// materialize the source, deploy it to the requested target, and tear down
// any temporary materialization regardless of the deploy outcome.
func (sy *Syncer) Sync(ctx context.Context, name string, opts SyncOptions) *SyncResult {
	link, err := sy.store.Get(name, opts.Target, opts.ProjectPath)
	if err != nil {
		return &SyncResult{Name: name, Status: SyncFailed, Err: err}
	}
	return sy.syncLink(ctx, link, opts)
}

// SyncAll runs the sync state machine for every enabled link in registry
// order. Disabled links are excluded entirely; one link's failure never
// stops the iteration.
func (sy *Syncer) SyncAll(ctx context.Context, opts SyncOptions) ([]*SyncResult, error) {
	reg, err := sy.store.Read(opts.Target, opts.ProjectPath)
	if err != nil {
		return nil, err
	}

	var results []*SyncResult
	for i := range reg.Links {
		if !reg.Links[i].Enabled {
			continue
		}
		results = append(results, sy.syncLink(ctx, &reg.Links[i], opts))
	}
	return results, nil
}

func (sy *Syncer) syncLink(ctx context.Context, link *Link, opts SyncOptions) *SyncResult {
	result := &SyncResult{Name: link.Name}

	if !link.Enabled {
		result.Status = SyncSkipped
		result.Err = errors.Wrapf(ErrDisabled, "link %q", link.Name)
		return result
	}

	skillDir, cleanup, err := sy.materialize(ctx, link)
	if cleanup != nil {
		defer cleanup()
	}
	if err != nil {
		result.Status = SyncFailed
		result.Err = err
		return result
	}

	outcomes, err := sy.engine.Deploy(ctx, skillDir, deploy.Options{
		Targets:     []target.Target{opts.Target},
		Force:       opts.Force,
		DryRun:      opts.DryRun,
		ProjectPath: opts.ProjectPath,
	})
	if err != nil {
		result.Status = SyncFailed
		result.Err = err
		return result
	}

	result.Outcomes = outcomes
	result.Status = SyncDeployed
	for _, outcome := range outcomes {
		if !outcome.Success {
			result.Status = SyncFailed
			result.Err = outcome.Err
			break
		}
	}
	return result
}

// materialize resolves a link's source into a concrete skill directory.
// The returned cleanup function, when non-nil, removes any temporary
// materialization and must run on every exit path.
func (sy *Syncer) materialize(ctx context.Context, link *Link) (string, func(), error) {
	switch link.Type {
	case KindLocal:
		return osutil.ExpandHome(link.Source, sy.store.Resolver().Home()), nil, nil

	case KindGit:
		tempDir, err := os.MkdirTemp("", "skillet-sync-*")
		if err != nil {
			return "", nil, errors.Wrap(err, "failed to create temp directory")
		}
		cleanup := func() {
			if err := os.RemoveAll(tempDir); err != nil {
				logger.G(ctx).WithError(err).WithField("dir", tempDir).Warn("failed to clean up temp directory")
			}
		}

		branch := link.Branch
		if branch == "" {
			branch = gitutil.DefaultBranch
		}
		if err := sy.cloner.Clone(ctx, link.Source, branch, tempDir); err != nil {
			return "", cleanup, errors.Wrapf(ErrRetrievalFailed, "link %q: %v", link.Name, err)
		}

		skillDir := tempDir
		if link.Path != "" {
			skillDir = filepath.Join(tempDir, link.Path)
			if !osutil.IsDir(skillDir) {
				return "", cleanup, errors.Errorf("path %s not found in repository %s", link.Path, link.Source)
			}
		}
		return skillDir, cleanup, nil

	case KindWeb:
		return "", nil, errors.Wrapf(ErrWebUnsupported, "link %q", link.Name)

	default:
		return "", nil, errors.Errorf("unknown link type %q", link.Type)
	}
}

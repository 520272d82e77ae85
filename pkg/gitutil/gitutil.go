// Package gitutil provides the version-control retrieval capability used by
// link sync and bulk import. Callers depend on the Cloner interface and
// treat retrieval as a black box; the real implementation performs a
// shallow, single-branch clone with bounded retries.
package gitutil

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"

	"github.com/skillet-cli/skillet/pkg/logger"
)

// DefaultBranch is the ref cloned when a link declares none.
const DefaultBranch = "main"

const (
	cloneAttempts   = 3
	cloneRetryDelay = 2 * time.Second
)

// Cloner retrieves a repository at a branch into a local directory.
type Cloner interface {
	Clone(ctx context.Context, url, branch, dir string) error
}

// GitCloner is the go-git backed Cloner.
type GitCloner struct {
	attempts uint
	delay    time.Duration
}

// New creates a GitCloner with default retry behavior.
func New() *GitCloner {
	return &GitCloner{
		attempts: cloneAttempts,
		delay:    cloneRetryDelay,
	}
}

// Clone performs a shallow, single-branch clone of url at branch into dir.
// Transient failures are retried; the last error is returned when every
// attempt fails.
func (c *GitCloner) Clone(ctx context.Context, url, branch, dir string) error {
	if branch == "" {
		branch = DefaultBranch
	}

	log := logger.G(ctx).WithField("url", url).WithField("branch", branch)

	err := retry.Do(
		func() error {
			_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
				URL:           url,
				ReferenceName: plumbing.NewBranchReferenceName(branch),
				SingleBranch:  true,
				Depth:         1,
				Tags:          git.NoTags,
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.WithError(err).WithField("attempt", n+1).Debug("retrying clone")
		}),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to clone %s at %s", url, branch)
	}
	return nil
}

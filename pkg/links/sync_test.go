package links

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillet-cli/skillet/pkg/deploy"
	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/target"
)

// fakeCloner materializes a fake repository by writing skill directories
// into the clone destination, or fails on demand.
type fakeCloner struct {
	skills   map[string]string // subdir -> skill name
	failWith error
	cloneDir string
	branches []string
}

func (f *fakeCloner) Clone(_ context.Context, _, branch, dir string) error {
	f.branches = append(f.branches, branch)
	f.cloneDir = dir
	if f.failWith != nil {
		return f.failWith
	}
	for subdir, name := range f.skills {
		skillDir := filepath.Join(dir, subdir)
		if err := os.MkdirAll(skillDir, 0o755); err != nil {
			return err
		}
		content := fmt.Sprintf("---\nname: %s\ndescription: Cloned skill\n---\n\nbody\n", name)
		if err := os.WriteFile(filepath.Join(skillDir, manifest.FileName), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func newTestSyncer(t *testing.T, home string, cloner *fakeCloner) (*Syncer, *Store) {
	t.Helper()
	resolver, err := target.NewResolver(target.WithHome(home))
	require.NoError(t, err)
	store, err := NewStore(WithResolver(resolver))
	require.NoError(t, err)
	engine, err := deploy.NewEngine(deploy.WithResolver(resolver))
	require.NoError(t, err)
	syncer, err := NewSyncer(WithStore(store), WithEngine(engine), WithCloner(cloner))
	require.NoError(t, err)
	return syncer, store
}

func TestSyncLocalLink(t *testing.T) {
	home := t.TempDir()
	syncer, store := newTestSyncer(t, home, &fakeCloner{})
	skillDir := writeLinkSkill(t, t.TempDir(), "local-skill")

	_, err := store.Add(Link{Name: "local-skill", Source: skillDir, Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "local-skill", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncDeployed, result.Status)
	require.Len(t, result.Outcomes, 1)
	assert.True(t, result.Outcomes[0].Success)
	assert.DirExists(t, filepath.Join(home, ".claude", "skills", "local-skill"))
}

func TestSyncLocalLinkInvalidSource(t *testing.T) {
	home := t.TempDir()
	syncer, store := newTestSyncer(t, home, &fakeCloner{})
	skillDir := writeLinkSkill(t, t.TempDir(), "was-valid")

	_, err := store.Add(Link{Name: "was-valid", Source: skillDir, Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	// break the source after registration
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, manifest.FileName),
		[]byte("---\nname: Broken Name\n---\n\nbody\n"), 0o644))

	result := syncer.Sync(context.Background(), "was-valid", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncFailed, result.Status)
	assert.Error(t, result.Err)
	assert.Empty(t, result.Outcomes)
	assert.NoDirExists(t, filepath.Join(home, ".claude", "skills", "was-valid"))
}

func TestSyncGitLink(t *testing.T) {
	home := t.TempDir()
	cloner := &fakeCloner{skills: map[string]string{"skills/remote-skill": "remote-skill"}}
	syncer, store := newTestSyncer(t, home, cloner)

	_, err := store.Add(Link{
		Name:    "remote-skill",
		Type:    KindGit,
		Source:  "https://github.com/org/skills",
		Path:    "skills/remote-skill",
		Branch:  "dev",
		Enabled: true,
	}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "remote-skill", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncDeployed, result.Status)
	assert.Equal(t, []string{"dev"}, cloner.branches)
	assert.DirExists(t, filepath.Join(home, ".claude", "skills", "remote-skill"))
	assert.NoDirExists(t, cloner.cloneDir, "temp clone directory must be removed after sync")
}

func TestSyncGitLinkDefaultBranch(t *testing.T) {
	home := t.TempDir()
	cloner := &fakeCloner{skills: map[string]string{".": "rooted"}}
	syncer, store := newTestSyncer(t, home, cloner)

	_, err := store.Add(Link{Name: "rooted", Type: KindGit, Source: "https://github.com/org/rooted", Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "rooted", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncDeployed, result.Status)
	assert.Equal(t, []string{"main"}, cloner.branches)
}

func TestSyncGitLinkRetrievalFailure(t *testing.T) {
	home := t.TempDir()
	cloner := &fakeCloner{failWith: errors.New("network down")}
	syncer, store := newTestSyncer(t, home, cloner)

	_, err := store.Add(Link{Name: "remote", Type: KindGit, Source: "https://github.com/org/skills", Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "remote", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncFailed, result.Status)
	assert.ErrorIs(t, result.Err, ErrRetrievalFailed)

	require.NotEmpty(t, cloner.cloneDir)
	assert.NoDirExists(t, cloner.cloneDir, "temp directory must not survive a failed retrieval")
}

func TestSyncGitLinkMissingSubPath(t *testing.T) {
	home := t.TempDir()
	cloner := &fakeCloner{skills: map[string]string{"skills/other": "other"}}
	syncer, store := newTestSyncer(t, home, cloner)

	_, err := store.Add(Link{
		Name:    "missing",
		Type:    KindGit,
		Source:  "https://github.com/org/skills",
		Path:    "skills/absent",
		Enabled: true,
	}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "missing", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncFailed, result.Status)
	assert.Contains(t, result.Err.Error(), "not found in repository")
	assert.NoDirExists(t, cloner.cloneDir)
}

func TestSyncWebLinkUnsupported(t *testing.T) {
	syncer, store := newTestSyncer(t, t.TempDir(), &fakeCloner{})

	_, err := store.Add(Link{Name: "web", Type: KindWeb, Source: "https://example.com/skill", Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "web", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncFailed, result.Status)
	assert.ErrorIs(t, result.Err, ErrWebUnsupported)
}

func TestSyncUnknownLink(t *testing.T) {
	syncer, _ := newTestSyncer(t, t.TempDir(), &fakeCloner{})

	result := syncer.Sync(context.Background(), "absent", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncFailed, result.Status)
	assert.ErrorIs(t, result.Err, ErrNotFound)
}

func TestSyncDisabledLink(t *testing.T) {
	home := t.TempDir()
	syncer, store := newTestSyncer(t, home, &fakeCloner{})
	skillDir := writeLinkSkill(t, t.TempDir(), "sleepy")

	_, err := store.Add(Link{Name: "sleepy", Source: skillDir, Enabled: false}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "sleepy", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncSkipped, result.Status)
	assert.ErrorIs(t, result.Err, ErrDisabled)
	assert.NoDirExists(t, filepath.Join(home, ".claude", "skills", "sleepy"))
}

func TestSyncExistingWithoutForce(t *testing.T) {
	home := t.TempDir()
	syncer, store := newTestSyncer(t, home, &fakeCloner{})
	skillDir := writeLinkSkill(t, t.TempDir(), "twice")

	_, err := store.Add(Link{Name: "twice", Source: skillDir, Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "twice", SyncOptions{Target: target.Claude})
	require.Equal(t, SyncDeployed, result.Status)

	result = syncer.Sync(context.Background(), "twice", SyncOptions{Target: target.Claude})
	assert.Equal(t, SyncFailed, result.Status)
	assert.ErrorIs(t, result.Err, deploy.ErrAlreadyExists)

	result = syncer.Sync(context.Background(), "twice", SyncOptions{Target: target.Claude, Force: true})
	assert.Equal(t, SyncDeployed, result.Status)
}

func TestSyncAll(t *testing.T) {
	home := t.TempDir()
	cloner := &fakeCloner{failWith: errors.New("network down")}
	syncer, store := newTestSyncer(t, home, cloner)
	sources := t.TempDir()

	_, err := store.Add(Link{Name: "a-local", Source: writeLinkSkill(t, sources, "a-local"), Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)
	_, err = store.Add(Link{Name: "b-git", Type: KindGit, Source: "https://github.com/org/b", Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)
	_, err = store.Add(Link{Name: "c-disabled", Source: writeLinkSkill(t, sources, "c-disabled"), Enabled: false}, false, target.Claude, "")
	require.NoError(t, err)
	_, err = store.Add(Link{Name: "d-local", Source: writeLinkSkill(t, sources, "d-local"), Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	results, err := syncer.SyncAll(context.Background(), SyncOptions{Target: target.Claude})
	require.NoError(t, err)
	require.Len(t, results, 3, "disabled links are excluded from sync-all")

	assert.Equal(t, "a-local", results[0].Name)
	assert.Equal(t, SyncDeployed, results[0].Status)

	assert.Equal(t, "b-git", results[1].Name)
	assert.Equal(t, SyncFailed, results[1].Status)
	assert.ErrorIs(t, results[1].Err, ErrRetrievalFailed)

	assert.Equal(t, "d-local", results[2].Name, "one failure does not stop the iteration")
	assert.Equal(t, SyncDeployed, results[2].Status)

	assert.NoDirExists(t, filepath.Join(home, ".claude", "skills", "c-disabled"))
}

func TestSyncDryRun(t *testing.T) {
	home := t.TempDir()
	syncer, store := newTestSyncer(t, home, &fakeCloner{})
	skillDir := writeLinkSkill(t, t.TempDir(), "dry")

	_, err := store.Add(Link{Name: "dry", Source: skillDir, Enabled: true}, false, target.Claude, "")
	require.NoError(t, err)

	result := syncer.Sync(context.Background(), "dry", SyncOptions{Target: target.Claude, DryRun: true})
	assert.Equal(t, SyncDeployed, result.Status)
	assert.NoDirExists(t, filepath.Join(home, ".claude", "skills", "dry"))
}

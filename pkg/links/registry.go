// Package links maintains the per-target, per-scope registry of references
// to externally located skills, and re-materializes (syncs) them through
// the deployment engine. The registry is one JSON document per (target,
// scope) pair, read, mutated in memory, and fully rewritten on change.
package links

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/osutil"
	"github.com/skillet-cli/skillet/pkg/target"
)

// SourceKind classifies where a linked skill lives.
type SourceKind string

const (
	// KindLocal is a directory on local disk.
	KindLocal SourceKind = "local"
	// KindGit is a version-controlled repository.
	KindGit SourceKind = "git"
	// KindWeb is a plain web URL; registered but not syncable.
	KindWeb SourceKind = "web"
)

// RegistryVersion is the persisted registry schema version.
const RegistryVersion = "1.0.0"

var (
	// ErrNotFound indicates the named link is absent from the registry.
	ErrNotFound = errors.New("link not found")
	// ErrAlreadyExists indicates an add without force over an existing name.
	ErrAlreadyExists = errors.New("link already exists")
	// ErrRegistryCorrupt indicates the persisted registry fails structural checks.
	ErrRegistryCorrupt = errors.New("registry file is corrupt")
)

var (
	nameRegexp = regexp.MustCompile(`^[a-z0-9-]+$`)
	sshRegexp  = regexp.MustCompile(`^[\w.-]+@[\w.-]+:.+$`)
)

// knownGitHosts are hostnames whose http(s) URLs are inferred as git sources.
var knownGitHosts = []string{"github.com", "gitlab.com", "bitbucket.org", "codeberg.org"}

// Link is one persisted reference to an externally located skill.
type Link struct {
	Name        string     `json:"name"`
	Type        SourceKind `json:"type"`
	Source      string     `json:"source"`
	Path        string     `json:"path,omitempty"`
	Branch      string     `json:"branch,omitempty"`
	Enabled     bool       `json:"enabled"`
	Description string     `json:"description,omitempty"`
}

// Registry is the persisted document for one (target, scope) pair.
type Registry struct {
	Version string `json:"version"`
	Links   []Link `json:"links"`
}

// InferKind derives a source kind from the source string's shape. It is a
// default only; an explicit type always overrides it.
func InferKind(source string) SourceKind {
	lower := strings.ToLower(source)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		if strings.HasSuffix(strings.TrimSuffix(lower, "/"), ".git") {
			return KindGit
		}
		for _, host := range knownGitHosts {
			if strings.Contains(lower, "://"+host+"/") {
				return KindGit
			}
		}
		return KindWeb
	}
	return KindLocal
}

// Store reads and writes link registries at resolver-determined locations.
type Store struct {
	resolver *target.Resolver
}

// StoreOption configures a Store.
type StoreOption func(*Store) error

// WithResolver sets the target path resolver.
func WithResolver(r *target.Resolver) StoreOption {
	return func(s *Store) error {
		s.resolver = r
		return nil
	}
}

// NewStore creates a registry store.
func NewStore(opts ...StoreOption) (*Store, error) {
	s := &Store{}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.resolver == nil {
		r, err := target.NewResolver()
		if err != nil {
			return nil, err
		}
		s.resolver = r
	}

	return s, nil
}

// Resolver returns the store's path resolver.
func (s *Store) Resolver() *target.Resolver {
	return s.resolver
}

// Read loads the registry for a (target, scope) pair. A missing file yields
// an empty registry, not an error.
func (s *Store) Read(t target.Target, projectPath string) (*Registry, error) {
	path := s.resolver.RegistryPath(t, projectPath)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{Version: RegistryVersion}, nil
		}
		return nil, errors.Wrapf(err, "failed to read registry %s", path)
	}

	var reg Registry
	if err := json.Unmarshal(content, &reg); err != nil {
		return nil, errors.Wrapf(ErrRegistryCorrupt, "%s: %v", path, err)
	}
	if reg.Version == "" {
		return nil, errors.Wrapf(ErrRegistryCorrupt, "%s: missing version", path)
	}

	return &reg, nil
}

// Write persists the registry, rewriting the whole document.
func (s *Store) Write(t target.Target, projectPath string, reg *Registry) error {
	path := s.resolver.RegistryPath(t, projectPath)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create registry directory for %s", path)
	}

	content, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal registry")
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write registry %s", path)
	}
	return nil
}

// Add validates a candidate link and upserts it into the registry. Without
// force an existing same-named link rejects the add and nothing is
// persisted; with force the existing entry is replaced in place.
func (s *Store) Add(link Link, force bool, t target.Target, projectPath string) (*Link, error) {
	if link.Type == "" {
		link.Type = InferKind(link.Source)
	}

	if err := s.validateLink(link); err != nil {
		return nil, err
	}

	reg, err := s.Read(t, projectPath)
	if err != nil {
		return nil, err
	}

	replaced := false
	for i := range reg.Links {
		if reg.Links[i].Name == link.Name {
			if !force {
				return nil, errors.Wrapf(ErrAlreadyExists, "link %q already exists, use force to overwrite", link.Name)
			}
			reg.Links[i] = link
			replaced = true
			break
		}
	}
	if !replaced {
		reg.Links = append(reg.Links, link)
	}

	if err := s.Write(t, projectPath, reg); err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *Store) validateLink(link Link) error {
	if !nameRegexp.MatchString(link.Name) || len(link.Name) > 64 {
		return errors.Errorf("invalid link name %q: must match ^[a-z0-9-]+$ and be 64 characters or less", link.Name)
	}
	if link.Source == "" {
		return errors.New("link source cannot be empty")
	}

	switch link.Type {
	case KindLocal:
		path := osutil.ExpandHome(link.Source, s.resolver.Home())
		if !osutil.Exists(path) {
			return errors.Errorf("local source %s does not exist", path)
		}
		if !osutil.IsDir(path) {
			return errors.Errorf("local source %s is not a directory", path)
		}
		if result := manifest.ValidateDirectory(path); !result.Valid {
			return errors.Wrapf(manifest.CombineErrors(result.Errors), "local source %s is not a valid skill", path)
		}
	case KindGit:
		if !looksLikeGitSource(link.Source) {
			return errors.Errorf("git source %q must be a URL or SSH-style address", link.Source)
		}
	case KindWeb:
		lower := strings.ToLower(link.Source)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			return errors.Errorf("web source %q must be an http(s) URL", link.Source)
		}
	default:
		return errors.Errorf("unknown link type %q", link.Type)
	}

	return nil
}

func looksLikeGitSource(source string) bool {
	lower := strings.ToLower(source)
	for _, scheme := range []string{"http://", "https://", "git://", "ssh://"} {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return sshRegexp.MatchString(source)
}

// Remove deletes a link by name and returns the removed entry.
func (s *Store) Remove(name string, t target.Target, projectPath string) (*Link, error) {
	reg, err := s.Read(t, projectPath)
	if err != nil {
		return nil, err
	}

	for i := range reg.Links {
		if reg.Links[i].Name == name {
			removed := reg.Links[i]
			reg.Links = append(reg.Links[:i], reg.Links[i+1:]...)
			if err := s.Write(t, projectPath, reg); err != nil {
				return nil, err
			}
			return &removed, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "link %q", name)
}

// List returns every link in the registry, in registry order.
func (s *Store) List(t target.Target, projectPath string) ([]Link, error) {
	reg, err := s.Read(t, projectPath)
	if err != nil {
		return nil, err
	}
	return reg.Links, nil
}

// Get returns one link by name.
func (s *Store) Get(name string, t target.Target, projectPath string) (*Link, error) {
	reg, err := s.Read(t, projectPath)
	if err != nil {
		return nil, err
	}
	for i := range reg.Links {
		if reg.Links[i].Name == name {
			return &reg.Links[i], nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "link %q", name)
}

// Toggle enables or disables a link in place.
func (s *Store) Toggle(name string, enabled bool, t target.Target, projectPath string) (*Link, error) {
	reg, err := s.Read(t, projectPath)
	if err != nil {
		return nil, err
	}

	for i := range reg.Links {
		if reg.Links[i].Name == name {
			reg.Links[i].Enabled = enabled
			if err := s.Write(t, projectPath, reg); err != nil {
				return nil, err
			}
			return &reg.Links[i], nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "link %q", name)
}

// Describe renders a one-line human summary of a link's source.
func (l *Link) Describe() string {
	switch l.Type {
	case KindGit:
		branch := l.Branch
		if branch == "" {
			branch = "main"
		}
		if l.Path != "" {
			return fmt.Sprintf("%s@%s:%s", l.Source, branch, l.Path)
		}
		return fmt.Sprintf("%s@%s", l.Source, branch)
	default:
		return l.Source
	}
}

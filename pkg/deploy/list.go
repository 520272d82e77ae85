package deploy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/osutil"
	"github.com/skillet-cli/skillet/pkg/target"
)

// InstalledSkill describes one skill found at a target's deployment location.
type InstalledSkill struct {
	Name        string
	Description string
	Target      target.Target
	Path        string
}

// Installed lists the skills currently deployed for a target and scope.
// Directories without a loadable manifest are skipped. For Gemini the
// single artifact file is reported when present, with its name taken from
// the document's top-level heading.
func (e *Engine) Installed(t target.Target, projectPath string) ([]InstalledSkill, error) {
	if t == target.Gemini {
		return e.installedGemini(projectPath)
	}

	base, err := e.resolver.BaseDir(t, projectPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var skills []InstalledSkill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(base, entry.Name())
		m, err := manifest.Load(filepath.Join(dir, manifest.FileName))
		if err != nil {
			continue
		}
		skills = append(skills, InstalledSkill{
			Name:        m.Name,
			Description: m.Description,
			Target:      t,
			Path:        dir,
		})
	}
	return skills, nil
}

func (e *Engine) installedGemini(projectPath string) ([]InstalledSkill, error) {
	path, err := e.resolver.SkillPath(target.Gemini, "", projectPath)
	if err != nil {
		return nil, err
	}
	if !osutil.Exists(path) {
		return nil, nil
	}

	name := target.GeminiFileName
	if content, err := os.ReadFile(path); err == nil {
		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, "# ") {
				name = strings.TrimSpace(strings.TrimPrefix(line, "# "))
				break
			}
		}
	}

	return []InstalledSkill{{Name: name, Target: target.Gemini, Path: path}}, nil
}

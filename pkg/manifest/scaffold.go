package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const starterBody = `## Instructions

Describe what the skill does and when to use it.
`

// Scaffold creates dir with a starter SKILL.md inside it. The name and
// description are validated with the same rules applied at deploy time,
// and an existing manifest is never overwritten.
func Scaffold(dir, name, description string) error {
	fields := Fields{"name": name, "description": description}
	if errs := ValidateFields(fields); len(errs) > 0 {
		return CombineErrors(errs)
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%s already exists", path)
	}

	frontmatter, err := yaml.Marshal(Manifest{Name: name, Description: description})
	if err != nil {
		return errors.Wrap(err, "failed to marshal frontmatter")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	content := fmt.Sprintf("---\n%s---\n\n# %s\n\n%s", frontmatter, name, starterBody)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return nil
}

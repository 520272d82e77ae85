package deploy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/skillet-cli/skillet/pkg/logger"
	"github.com/skillet-cli/skillet/pkg/manifest"
	"github.com/skillet-cli/skillet/pkg/osutil"
)

// BatchResult records one skill's fate within a batch deployment. When the
// skill fails validation, ValidationErr is set and Outcomes stays empty. Err
// carries any other fatal per-skill deployment error.
type BatchResult struct {
	SkillName     string
	SkillDir      string
	Outcomes      []Outcome
	ValidationErr error
	Err           error
}

// BatchDeploy discovers every immediate subdirectory of parentDir that
// contains a manifest file (in lexicographic name order) and deploys each.
// Discovery failure is fatal; per-skill validation or deployment failure is
// recorded in that skill's result and never stops the remaining skills.
func (e *Engine) BatchDeploy(ctx context.Context, parentDir string, opts Options) ([]BatchResult, error) {
	entries, err := os.ReadDir(parentDir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", parentDir)
	}

	var skillDirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(parentDir, entry.Name())
		if osutil.Exists(filepath.Join(dir, manifest.FileName)) {
			skillDirs = append(skillDirs, dir)
		}
	}

	if len(skillDirs) == 0 {
		return nil, errors.Wrapf(ErrNoSkills, "no skill directories under %s", parentDir)
	}

	log := logger.G(ctx)

	results := make([]BatchResult, 0, len(skillDirs))
	for _, dir := range skillDirs {
		res := BatchResult{
			SkillName: filepath.Base(dir),
			SkillDir:  dir,
		}

		validation := manifest.ValidateDirectory(dir)
		if !validation.Valid {
			res.ValidationErr = manifest.CombineErrors(validation.Errors)
			log.WithField("skill_dir", dir).WithError(res.ValidationErr).Debug("skipping invalid skill")
			results = append(results, res)
			continue
		}

		res.SkillName = validation.Manifest.Name
		outcomes, err := e.Deploy(ctx, dir, opts)
		if err != nil {
			res.Err = err
		} else {
			res.Outcomes = outcomes
		}
		results = append(results, res)
	}

	return results, nil
}

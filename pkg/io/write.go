package io

import (
	"os"
	"path/filepath"

	"github.com/roughcast/roughcast/pkg/errors"
)

// WriteArtifact writes rendered output bytes to path, creating parent
// directories as needed. The path is validated before any filesystem access.
func WriteArtifact(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeRenderFailed, err, "creating %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "writing %s", path)
	}
	return nil
}

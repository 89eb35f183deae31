package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// OutputStore allocates per-job output, log, and preview paths under a base
// data directory. Paths are derived from validated ids, so no two jobs ever
// share an output location.
type OutputStore struct {
	base string
}

// NewOutputStore creates an OutputStore rooted at base.
func NewOutputStore(base string) *OutputStore {
	return &OutputStore{base: base}
}

func (s *OutputStore) allocate(subdir, name string) (string, error) {
	dir := filepath.Join(s.base, subdir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}
	return filepath.Join(dir, name), nil
}

// OutputPath returns the writable output path for a job.
func (s *OutputStore) OutputPath(jobID, ext string) (string, error) {
	if err := ValidateID(jobID); err != nil {
		return "", err
	}
	return s.allocate("outputs", jobID+"."+ext)
}

// LogPath returns the persisted log path for a job.
func (s *OutputStore) LogPath(jobID string) (string, error) {
	if err := ValidateID(jobID); err != nil {
		return "", err
	}
	return s.allocate("logs", jobID+".log")
}

// PreviewPath returns the preview image path for an asset.
func (s *OutputStore) PreviewPath(assetID string) (string, error) {
	if err := ValidateID(assetID); err != nil {
		return "", err
	}
	return s.allocate("previews", assetID+".png")
}

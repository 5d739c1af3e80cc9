package service

import (
	"fmt"
	"os"
	"path/filepath"

	v1 "github.com/boardio/boardio/pkg/api/v1"
)

// SaveDownload writes an export payload into dir under its sanitized filename
// and returns the full path. The directory is created if missing.
func SaveDownload(dir string, d *v1.Download) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, d.Filename)
	if err := os.WriteFile(path, d.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

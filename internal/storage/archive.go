// Package storage archives raw uploaded export files so a past import can
// be audited or replayed. Two backends: a local directory for development
// and S3 for deployments.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Webyseo/seo-dashboard-3e3t22/internal/config"
)

// Archive stores raw export bytes keyed by import id.
type Archive interface {
	SaveRaw(ctx context.Context, importID, filename string, data []byte) error
}

// New selects the archive backend from configuration.
func New(ctx context.Context, cfg config.StorageConfig) (Archive, error) {
	switch cfg.Type {
	case "s3":
		return newS3Archive(ctx, cfg)
	case "local", "":
		return &LocalArchive{dir: cfg.LocalPath}, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// LocalArchive writes raw exports under dir/<importID>/<filename>.
type LocalArchive struct{ dir string }

// NewLocalArchive creates a directory-backed archive.
func NewLocalArchive(dir string) *LocalArchive { return &LocalArchive{dir: dir} }

func (a *LocalArchive) SaveRaw(_ context.Context, importID, filename string, data []byte) error {
	dir := filepath.Join(a.dir, importID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}
	return nil
}

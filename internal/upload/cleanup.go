package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlibekovAA/places-api/internal/common/logger"
)

const tempPrefix = ".upload-"

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
}

// StartCleanup periodically removes leftovers older than maxAge until ctx is
// cancelled.
func StartCleanup(ctx context.Context, deleter ExpiredDeleter, interval, maxAge time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := deleter.DeleteExpired(ctx, maxAge)
			if err != nil {
				log.Errorf("upload cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Infof("upload cleanup: deleted %d stale temp files", deleted)
			}
		}
	}
}

// DeleteExpired removes temp files left by interrupted saves.
func (s *DiskStore) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	entries, err := os.ReadDir(s.tmpDir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	var deleted int64
	for _, entry := range entries {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.tmpDir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

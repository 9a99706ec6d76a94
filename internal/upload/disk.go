package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/AlibekovAA/places-api/internal/common/config"
)

// PublicPrefix is the URL path images written by DiskStore are served under.
const PublicPrefix = "uploads/images"

// DiskStore writes images below dir. References are "uploads/images/<name>".
// Partial writes go to a hidden sibling of dir so they are never served.
type DiskStore struct {
	dir    string
	tmpDir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	tmpDir := filepath.Join(filepath.Dir(abs), "."+filepath.Base(abs)+"-tmp")

	for _, d := range []string{abs, tmpDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}
	return &DiskStore{dir: abs, tmpDir: tmpDir}, nil
}

func (s *DiskStore) Backend() string { return config.ImageStoreDisk }

// Dir is the directory served for public image reads.
func (s *DiskStore) Dir() string { return s.dir }

// TempDir holds in-progress writes. It sits next to Dir on the same
// filesystem so the final rename is atomic.
func (s *DiskStore) TempDir() string { return s.tmpDir }

func (s *DiskStore) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == string(filepath.Separator) {
		return "", errors.New("invalid image name")
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.tmpDir, tempPrefix+"*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to close image: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to move image into place: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

// Delete ignores missing files. Only the base name of ref is honoured.
func (s *DiskStore) Delete(_ context.Context, ref string) error {
	name := path.Base(strings.TrimSpace(ref))
	if name == "." || name == "/" || name == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

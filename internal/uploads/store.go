// Package uploads stores user-supplied files (campaign creatives) behind an
// afero filesystem so handlers never touch the OS filesystem directly and
// tests can run against an in-memory backend.
package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

type Config struct {
	// Backend is one of os, memory.
	Backend string `conf:"backend" yaml:"backend" json:"backend"`
	// Root is the directory uploads are written under for the os backend.
	Root string `conf:"root" yaml:"root" json:"root"`
}

// Store writes uploaded assets and returns their storage keys.
type Store struct {
	fs   afero.Fs
	root string
}

func New(cfg Config) *Store {
	root := cfg.Root
	if root == "" {
		root = "uploads"
	}

	var fs afero.Fs
	if cfg.Backend == "memory" {
		fs = afero.NewMemMapFs()
	} else {
		fs = afero.NewOsFs()
	}

	return &Store{fs: fs, root: root}
}

// NewMemory builds an in-memory store for tests.
func NewMemory() *Store {
	return &Store{fs: afero.NewMemMapFs(), root: "uploads"}
}

// Save writes the content under a tenant-prefixed key derived from name and
// returns the key. Names are sanitized to their base name.
func (s *Store) Save(_ context.Context, tenantID, name string, content io.Reader) (string, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	key := path.Join(s.root, tenantID, fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], base))

	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	file, err := s.fs.Create(key)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return key, nil
}

// Open reads a stored asset back.
func (s *Store) Open(_ context.Context, key string) (io.ReadCloser, error) {
	file, err := s.fs.Open(key)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}

	return file, nil
}

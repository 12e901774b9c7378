package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"floorforge/pkg/schema"
)

// FileStore is a file-based document store for CLI usage.
// Layouts are stored as JSON files in a config directory, one per site.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based document store.
// If baseDir is empty, defaults to ~/.config/floorforge/layouts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "floorforge", "layouts")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create layout dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(siteID string) string {
	return filepath.Join(s.baseDir, siteID+".json")
}

func (s *FileStore) Get(ctx context.Context, siteID string) (*schema.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.docPath(siteID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read layout file: %w", err)
	}
	return schema.Parse(data)
}

func (s *FileStore) Put(ctx context.Context, doc *schema.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureSiteID(doc)
	data, err := schema.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := os.WriteFile(s.docPath(doc.SiteID), data, 0600); err != nil {
		return fmt.Errorf("write layout file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read layout dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) Delete(ctx context.Context, siteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.docPath(siteID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove layout file: %w", err)
	}
	return nil
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

// Path returns the base directory for layout files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)

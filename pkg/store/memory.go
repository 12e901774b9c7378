package store

import (
	"context"
	"sort"
	"sync"

	"floorforge/pkg/schema"
)

// MemoryStore is an in-memory document store for development and tests.
// Documents are stored by serialized copy so callers cannot mutate stored
// state through retained pointers.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, siteID string) (*schema.Document, error) {
	s.mu.RLock()
	data, ok := s.docs[siteID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return schema.Parse(data)
}

func (s *MemoryStore) Put(ctx context.Context, doc *schema.Document) error {
	ensureSiteID(doc)
	data, err := schema.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[doc.SiteID] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Delete(ctx context.Context, siteID string) error {
	s.mu.Lock()
	delete(s.docs, siteID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)

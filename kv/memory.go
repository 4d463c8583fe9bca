package kv

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used for local development
// (KV_BACKEND=memory) and in tests. Scans walk the key space in sorted
// order, PageSize keys per page.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte

	// PageSize bounds List pages. Zero means the scan page size Redis uses.
	PageSize int
	// GetManyCalls counts multi-get round trips, for batch-size assertions.
	GetManyCalls int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) List(_ context.Context, cursor uint64) (ListPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = scanPageSize
	}

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := int(cursor)
	if start >= len(keys) {
		return ListPage{Complete: true}, nil
	}
	end := start + pageSize
	if end >= len(keys) {
		return ListPage{Keys: keys[start:], Complete: true}, nil
	}
	return ListPage{Keys: keys[start:end], Cursor: uint64(end)}, nil
}

func (s *MemoryStore) GetMany(_ context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) > MaxBulkGet {
		return nil, ErrTooManyKeys
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetManyCalls++

	values := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if val, ok := s.data[k]; ok {
			out := make([]byte, len(val))
			copy(out, val)
			values[k] = out
		}
	}
	return values, nil
}

package kv

import (
	"context"
	"errors"
)

// MaxBulkGet is the widest multi-get the backend performs atomically.
const MaxBulkGet = 100

var (
	ErrNotFound    = errors.New("kv: key not found")
	ErrTooManyKeys = errors.New("kv: more than 100 keys in one multi-get")
)

// ListPage is one page of a cursor-driven key scan. Complete signals the end
// of the scan; until then the returned Cursor resumes it.
type ListPage struct {
	Keys     []string
	Cursor   uint64
	Complete bool
}

// Store is the record-store contract shared by the plan and plan-details
// families. Listing is expensive and paginated, so callers that need full
// enumeration go through the key-index cache instead of scanning every time.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, cursor uint64) (ListPage, error)
	// GetMany fetches up to MaxBulkGet keys in one round trip. Keys with no
	// stored value are omitted from the result map.
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)
}

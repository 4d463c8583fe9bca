// Package plans is the record-store access layer for the plan and
// plan-details families: conflict-checked creation, batched full-catalog
// reads through a rebuildable key index, and merge-patch updates.
package plans

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"matsuri/kv"
)

// The key index is one denormalized record listing every primary key in the
// store. It is derived state: never authoritative, always reconstructible
// from a full scan.
const (
	keysIndexKey  = "keys:all"
	keysNamespace = "keys:"
)

// RebuildKeys scans the whole store, drops index-namespace keys, sorts the
// remainder and overwrites the index entry.
func RebuildKeys(ctx context.Context, store kv.Store) error {
	var keys []string
	var cursor uint64
	for {
		page, err := store.List(ctx, cursor)
		if err != nil {
			return err
		}
		for _, k := range page.Keys {
			if strings.HasPrefix(k, keysNamespace) {
				continue
			}
			keys = append(keys, k)
		}
		if page.Complete {
			break
		}
		cursor = page.Cursor
	}

	sort.Strings(keys)
	if keys == nil {
		keys = []string{}
	}

	data, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	return store.Put(ctx, keysIndexKey, data)
}

// GetKeys reads the index entry, rebuilding it on a miss and retrying until
// it exists. An externally deleted index is repaired by the next reader.
func GetKeys(ctx context.Context, store kv.Store) ([]string, error) {
	for {
		data, err := store.Get(ctx, keysIndexKey)
		if errors.Is(err, kv.ErrNotFound) {
			if err := RebuildKeys(ctx, store); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		var keys []string
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, err
		}
		return keys, nil
	}
}

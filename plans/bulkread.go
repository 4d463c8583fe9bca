package plans

import (
	"context"

	"matsuri/kv"
)

// bulkGet fetches values for keys in batches of kv.MaxBulkGet. Keys with no
// stored value are omitted from the result, not represented as nil.
func bulkGet(ctx context.Context, store kv.Store, keys []string) (map[string][]byte, error) {
	values := make(map[string][]byte, len(keys))
	for start := 0; start < len(keys); start += kv.MaxBulkGet {
		end := start + kv.MaxBulkGet
		if end > len(keys) {
			end = len(keys)
		}
		chunk, err := store.GetMany(ctx, keys[start:end])
		if err != nil {
			return nil, err
		}
		for k, v := range chunk {
			values[k] = v
		}
	}
	return values, nil
}

package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"matsuri/kv"
	"matsuri/models"
	"matsuri/utils"
)

var (
	// ErrConflict is returned by Create when the id is already taken. The
	// underlying check is read-then-write and racy under concurrent writers;
	// callers must not treat it as a strict uniqueness guarantee.
	ErrConflict = errors.New("plan already exists")
	// ErrNotFound is returned when no record exists under the id.
	ErrNotFound = errors.New("plan not found")
	// ErrInvalidDocument is returned when a document (stored or merged)
	// does not decode into a valid record variant.
	ErrInvalidDocument = errors.New("invalid plan document")
)

// Store orchestrates plan-record access on one kv backend.
type Store struct {
	kv kv.Store
}

func NewStore(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// Create writes a new record after a conflict check, then rebuilds the key
// index. An index rebuild failure does not fail the create; the index is
// advisory and self-healing, and the write has already committed.
func (s *Store) Create(ctx context.Context, id string, pc models.PlanCreate) error {
	if _, err := s.kv.Get(ctx, id); err == nil {
		return ErrConflict
	} else if !errors.Is(err, kv.ErrNotFound) {
		return err
	}

	plan := pc.Plan(id)
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, id, data)
}

func (s *Store) Read(ctx context.Context, id string) (models.Plan, error) {
	data, err := s.kv.Get(ctx, id)
	if errors.Is(err, kv.ErrNotFound) {
		return models.Plan{}, ErrNotFound
	}
	if err != nil {
		return models.Plan{}, err
	}

	var plan models.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return models.Plan{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return plan, nil
}

// ReadAll enumerates the catalog through the key index and the batched
// multi-get pipeline. Keys present in the index but already deleted from the
// primary store are skipped. Results are ordered by id.
func (s *Store) ReadAll(ctx context.Context) ([]models.Plan, error) {
	allKeys, err := GetKeys(ctx, s.kv)
	if err != nil {
		return nil, err
	}

	planKeys := make([]string, 0, len(allKeys))
	for _, k := range allKeys {
		if strings.HasPrefix(k, keysNamespace) {
			continue
		}
		planKeys = append(planKeys, k)
	}

	values, err := bulkGet(ctx, s.kv, planKeys)
	if err != nil {
		return nil, err
	}

	plans := make([]models.Plan, 0, len(values))
	for _, data := range values {
		var plan models.Plan
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		plans = append(plans, plan)
	}

	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

// Update applies a merge patch to the stored document: read, deep-merge,
// write back. There is no concurrency token; two racing updaters last-write
// wins. The merged document must still decode as a valid plan variant.
func (s *Store) Update(ctx context.Context, id string, patch map[string]any) error {
	data, err := s.kv.Get(ctx, id)
	if errors.Is(err, kv.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	// A patch carrying a different type tag replaces the whole tagged union:
	// the old variant's payload fields must not leak into the new variant.
	if newType, ok := patch["type"].(string); ok {
		if oldType, _ := doc["type"].(string); oldType != newType {
			delete(doc, "categories")
			delete(doc, "is_lab_tour")
		}
	}

	merged, _ := utils.DeepMerge(doc, patch).(map[string]any)

	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	var check models.Plan
	if err := json.Unmarshal(out, &check); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	// The schedule decoder also accepts the display form (a single range per
	// day); the stored document always keeps the canonical list form.
	merged["schedule"] = check.Schedule
	out, err = json.Marshal(merged)
	if err != nil {
		return err
	}

	return s.kv.Put(ctx, id, out)
}

// Delete removes a record; ErrNotFound when it does not exist.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.kv.Get(ctx, id); errors.Is(err, kv.ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.kv.Delete(ctx, id)
}

// RebuildIndex refreshes the key index after catalog mutations.
func (s *Store) RebuildIndex(ctx context.Context) error {
	return RebuildKeys(ctx, s.kv)
}

package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"matsuri/kv"
	"matsuri/models"
	"matsuri/utils"
)

// DetailsStore holds plan-details records. Same id space as plans, separate
// backend namespace, same store semantics.
type DetailsStore struct {
	kv kv.Store
}

func NewDetailsStore(backend kv.Store) *DetailsStore {
	return &DetailsStore{kv: backend}
}

func (s *DetailsStore) Create(ctx context.Context, id string, details models.PlanDetails) error {
	if _, err := s.kv.Get(ctx, id); err == nil {
		return ErrConflict
	} else if !errors.Is(err, kv.ErrNotFound) {
		return err
	}

	data, err := json.Marshal(details.Normalize())
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, id, data)
}

func (s *DetailsStore) Read(ctx context.Context, id string) (models.PlanDetails, error) {
	data, err := s.kv.Get(ctx, id)
	if errors.Is(err, kv.ErrNotFound) {
		return models.PlanDetails{}, ErrNotFound
	}
	if err != nil {
		return models.PlanDetails{}, err
	}

	var details models.PlanDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return models.PlanDetails{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return details, nil
}

func (s *DetailsStore) Update(ctx context.Context, id string, patch map[string]any) error {
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

	merged := utils.DeepMerge(doc, patch)

	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}

	var check models.PlanDetails
	if err := json.Unmarshal(out, &check); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return s.kv.Put(ctx, id, out)
}

package plans

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"matsuri/kv"
	"matsuri/models"
)

func testDetails(t *testing.T) models.PlanDetails {
	t.Helper()
	var d models.PlanDetails
	body := `{
		"products": {
			"items": [
				{"name": "yakisoba", "price": 400, "options": [
					{"name": "extra sauce", "price": null}
				]},
				{"name": "ramune", "price": 200, "options": []}
			],
			"description": "cash only"
		},
		"additional_info": "line forms left of the booth"
	}`
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDetailsCreateReadBack(t *testing.T) {
	ctx := context.Background()
	store := NewDetailsStore(kv.NewMemoryStore())

	if err := store.Create(ctx, "p1", testDetails(t)); err != nil {
		t.Fatal(err)
	}

	got, err := store.Read(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Products.Items) != 2 || got.Products.Items[0].Name != "yakisoba" {
		t.Fatalf("read back %+v", got.Products)
	}
	if got.Products.Items[0].Options[0].Price != nil {
		t.Fatal("null option price not preserved")
	}
	if got.AdditionalInfo == nil || *got.AdditionalInfo != "line forms left of the booth" {
		t.Fatalf("additional_info: %v", got.AdditionalInfo)
	}
}

func TestDetailsCreateConflict(t *testing.T) {
	ctx := context.Background()
	store := NewDetailsStore(kv.NewMemoryStore())

	if err := store.Create(ctx, "p1", testDetails(t)); err != nil {
		t.Fatal(err)
	}
	if err := store.Create(ctx, "p1", testDetails(t)); !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestDetailsNormalizeNilSlices(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	store := NewDetailsStore(backend)

	if err := store.Create(ctx, "p1", models.PlanDetails{}); err != nil {
		t.Fatal(err)
	}

	// The stored JSON must carry empty lists, not nulls.
	raw, err := backend.Get(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	products, _ := doc["products"].(map[string]any)
	if items, ok := products["items"].([]any); !ok || items == nil {
		t.Fatalf("items stored as %T", products["items"])
	}
}

func TestDetailsUpdateMergePatch(t *testing.T) {
	ctx := context.Background()
	store := NewDetailsStore(kv.NewMemoryStore())
	if err := store.Create(ctx, "p1", testDetails(t)); err != nil {
		t.Fatal(err)
	}

	patch := map[string]any{
		"products": map[string]any{"description": "card accepted"},
	}
	if err := store.Update(ctx, "p1", patch); err != nil {
		t.Fatal(err)
	}

	got, err := store.Read(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Products.Description != "card accepted" {
		t.Fatalf("description not patched: %q", got.Products.Description)
	}
	if len(got.Products.Items) != 2 {
		t.Fatalf("item list changed by nested patch: %+v", got.Products.Items)
	}
}

func TestDetailsUpdateExplicitNullClears(t *testing.T) {
	ctx := context.Background()
	store := NewDetailsStore(kv.NewMemoryStore())
	if err := store.Create(ctx, "p1", testDetails(t)); err != nil {
		t.Fatal(err)
	}

	if err := store.Update(ctx, "p1", map[string]any{"additional_info": nil}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Read(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.AdditionalInfo != nil {
		t.Fatalf("explicit null did not clear the field: %q", *got.AdditionalInfo)
	}
}

func TestDetailsUpdateReplacesItemListWholesale(t *testing.T) {
	ctx := context.Background()
	store := NewDetailsStore(kv.NewMemoryStore())
	if err := store.Create(ctx, "p1", testDetails(t)); err != nil {
		t.Fatal(err)
	}

	patch := map[string]any{
		"products": map[string]any{
			"items": []any{
				map[string]any{"name": "kakigori", "price": 300.0, "options": []any{}},
			},
		},
	}
	if err := store.Update(ctx, "p1", patch); err != nil {
		t.Fatal(err)
	}

	got, err := store.Read(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Products.Items) != 1 || got.Products.Items[0].Name != "kakigori" {
		t.Fatalf("item list not replaced wholesale: %+v", got.Products.Items)
	}
	if got.Products.Description != "cash only" {
		t.Fatalf("sibling field changed: %q", got.Products.Description)
	}
}

func TestDetailsUpdateMissing(t *testing.T) {
	store := NewDetailsStore(kv.NewMemoryStore())
	err := store.Update(context.Background(), "nope", map[string]any{"additional_info": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

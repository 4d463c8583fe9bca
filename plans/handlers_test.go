package plans

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"matsuri/discord"
	"matsuri/kv"
	"matsuri/models"

	"github.com/julienschmidt/httprouter"
)

// setupHandlers wires the package-level collaborators onto in-process stores
// with the notifier disabled.
func setupHandlers(t *testing.T) {
	t.Helper()
	Planstore = NewStore(kv.NewMemoryStore())
	Detailstore = NewDetailsStore(kv.NewMemoryStore())
	Notifier = discord.New("", "https://example.test")
}

func seedPlan(t *testing.T, id, typeTag string, recommended, childFriendly bool, labTour *bool) {
	t.Helper()
	pc := models.PlanCreate{
		Type:             typeTag,
		IsLabTour:        labTour,
		OrganizationName: "org " + id,
		PlanName:         "plan " + id,
		IsRecommended:    recommended,
		IsChildFriendly:  childFriendly,
	}
	if err := Planstore.Create(context.Background(), id, pc); err != nil {
		t.Fatal(err)
	}
}

func getPlanIDs(t *testing.T, query string) []string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/plans"+query, nil)
	rec := httptest.NewRecorder()
	GetPlans(rec, req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /v1/plans%s: status %d", query, rec.Code)
	}

	var body struct {
		Plans []models.PlanView `json:"plans"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	ids := make([]string, 0, len(body.Plans))
	for _, p := range body.Plans {
		ids = append(ids, p.ID)
	}
	sort.Strings(ids)
	return ids
}

func TestGetPlansFilters(t *testing.T) {
	setupHandlers(t)
	tour := true
	noTour := false
	seedPlan(t, "b1", models.PlanTypeBooth, true, true, nil)
	seedPlan(t, "s1", models.PlanTypeStage, false, false, nil)
	seedPlan(t, "l1", models.PlanTypeLabo, false, true, &tour)
	seedPlan(t, "l2", models.PlanTypeLabo, true, false, &noTour)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"b1", "l1", "l2", "s1"}},
		{"?type=booth", []string{"b1"}},
		{"?type=booth,stage", []string{"b1", "s1"}},
		{"?recommended=true", []string{"b1", "l2"}},
		{"?child_friendly=false", []string{"l2", "s1"}},
		// lab_tour only constrains labo plans; other types pass through.
		{"?lab_tour=true", []string{"b1", "l1", "s1"}},
		{"?type=labo&lab_tour=false", []string{"l2"}},
		{"?type=circus", []string{}},
	}
	for _, tt := range tests {
		got := getPlanIDs(t, tt.query)
		if len(got) != len(tt.want) {
			t.Errorf("query %q: got %v, want %v", tt.query, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("query %q: got %v, want %v", tt.query, got, tt.want)
				break
			}
		}
	}
}

func TestGetPlanNotFound(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/plans/ghost", nil)
	rec := httptest.NewRecorder()
	GetPlan(rec, req, httprouter.Params{{Key: "plan_id", Value: "ghost"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}

	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != http.StatusNotFound || body.Message == "" {
		t.Fatalf("error body %+v", body)
	}
}

const bulkEntry = `{
	"type": "stage",
	"organization_name": "org",
	"plan_name": "%s",
	"description": "",
	"is_child_friendly": false,
	"is_recommended": false,
	"schedule": {"day1": [], "day2": []},
	"location": []
}`

func TestBulkCreatePlansCleanRun(t *testing.T) {
	setupHandlers(t)

	body := `{
		"p1": ` + strings.Replace(bulkEntry, "%s", "one", 1) + `,
		"": ` + strings.Replace(bulkEntry, "%s", "two", 1) + `
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	BulkCreatePlans(rec, req, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d, want 201", rec.Code)
	}

	all, err := Planstore.ReadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("imported %d plans, want 2", len(all))
	}
	// The entry with an empty id gets a generated one.
	for _, p := range all {
		if p.ID == "" {
			t.Fatal("empty id survived import")
		}
	}
}

func TestBulkCreatePlansMixedOutcome(t *testing.T) {
	setupHandlers(t)
	seedPlan(t, "p1", models.PlanTypeStage, false, false, nil)

	body := `{
		"p1": ` + strings.Replace(bulkEntry, "%s", "dup", 1) + `,
		"p2": ` + strings.Replace(bulkEntry, "%s", "new", 1) + `
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	BulkCreatePlans(rec, req, nil)
	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status %d, want 207", rec.Code)
	}

	var resp struct {
		Errors []struct {
			PlanID  string `json:"plan_id"`
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %+v", len(resp.Errors), resp.Errors)
	}
	if resp.Errors[0].PlanID != "p1" || resp.Errors[0].Code != http.StatusConflict {
		t.Fatalf("error entry %+v", resp.Errors[0])
	}

	// The non-conflicting entry still commits.
	if _, err := Planstore.Read(context.Background(), "p2"); err != nil {
		t.Fatalf("p2 not imported: %v", err)
	}
}

func TestBulkCreatePlansBadBody(t *testing.T) {
	setupHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(`[]`))
	rec := httptest.NewRecorder()
	BulkCreatePlans(rec, req, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

package plans

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"matsuri/discord"
	"matsuri/globals"
	"matsuri/models"
	"matsuri/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// Package-level collaborators, wired in main.
var (
	Planstore   *Store
	Detailstore *DetailsStore
	Notifier    *discord.Webhook
)

// planFilters are the GET /v1/plans query parameters.
type planFilters struct {
	types         []string
	recommended   *bool
	childFriendly *bool
	labTour       *bool
}

func parseFilters(r *http.Request) planFilters {
	var f planFilters
	q := r.URL.Query()
	if v := q.Get("type"); v != "" {
		f.types = strings.Split(v, ",")
	}
	if v, err := strconv.ParseBool(q.Get("recommended")); err == nil {
		f.recommended = &v
	}
	if v, err := strconv.ParseBool(q.Get("child_friendly")); err == nil {
		f.childFriendly = &v
	}
	if v, err := strconv.ParseBool(q.Get("lab_tour")); err == nil {
		f.labTour = &v
	}
	return f
}

func (f planFilters) match(p models.Plan) bool {
	if f.recommended != nil && *f.recommended != p.IsRecommended {
		return false
	}
	if f.childFriendly != nil && *f.childFriendly != p.IsChildFriendly {
		return false
	}
	// lab_tour only constrains labo plans.
	if f.labTour != nil && p.Type == models.PlanTypeLabo {
		if p.IsLabTour == nil || *p.IsLabTour != *f.labTour {
			return false
		}
	}
	if f.types != nil {
		found := false
		for _, t := range f.types {
			if t == p.Type {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func GetPlans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filters := parseFilters(r)

	allPlans, err := Planstore.ReadAll(r.Context())
	if err != nil {
		log.Printf("Error reading plans: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	views := []models.PlanView{}
	for _, p := range allPlans {
		if filters.match(p) {
			views = append(views, p.View())
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"plans": views})
}

func GetPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	plan, err := Planstore.Read(r.Context(), planID)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found.")
		return
	}
	if err != nil {
		log.Printf("Error reading plan %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, plan.View())
}

func PutPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	var pc models.PlanCreate
	if err := json.NewDecoder(r.Body).Decode(&pc); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := Planstore.Create(r.Context(), planID, pc)
	switch {
	case errors.Is(err, ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, "A plan with this id already exists.")
		return
	case errors.Is(err, ErrInvalidDocument):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("Error creating plan %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	go func() {
		if err := Notifier.SendCreatePlan(globals.Ctx, planID, pc.Plan(planID)); err != nil {
			log.Printf("Discord webhook error: %v", err)
		}
	}()

	rebuildIndexLogged(planID)

	w.WriteHeader(http.StatusNoContent)
}

func PatchPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	err := Planstore.Update(r.Context(), planID, patch)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found.")
		return
	case errors.Is(err, ErrInvalidDocument):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("Error updating plan %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	go func() {
		if err := Notifier.SendUpdatePlan(globals.Ctx, planID, patch); err != nil {
			log.Printf("Discord webhook error: %v", err)
		}
	}()

	w.WriteHeader(http.StatusNoContent)
}

func DeletePlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	err := Planstore.Delete(r.Context(), planID)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Plan not found.")
		return
	case err != nil:
		log.Printf("Error deleting plan %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	go func() {
		if err := Notifier.SendDeletePlan(globals.Ctx, planID); err != nil {
			log.Printf("Discord webhook error: %v", err)
		}
	}()

	rebuildIndexLogged(planID)

	w.WriteHeader(http.StatusNoContent)
}

// BulkCreatePlans imports a map of id -> plan. Entries with an empty id get
// a generated one. All entries are attempted; a clean run returns 201, any
// per-entry failure turns the response into 207 Multi-Status.
func BulkCreatePlans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var plansMap map[string]models.PlanCreate
	if err := json.NewDecoder(r.Body).Decode(&plansMap); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	bulkErrors := []utils.M{}
	for id, pc := range plansMap {
		if id == "" {
			id = uuid.NewString()
		}
		err := Planstore.Create(r.Context(), id, pc)
		switch {
		case err == nil:
		case errors.Is(err, ErrConflict):
			bulkErrors = append(bulkErrors, utils.M{
				"plan_id": id,
				"code":    http.StatusConflict,
				"message": fmt.Sprintf("A plan with id %q already exists.", id),
			})
		default:
			log.Printf("Error creating plan %s in bulk import: %v", id, err)
			bulkErrors = append(bulkErrors, utils.M{
				"plan_id": id,
				"code":    http.StatusInternalServerError,
				"message": fmt.Sprintf("Internal error occurred while creating plan %q.", id),
			})
		}
	}

	// Some entries may have committed even when others failed, so the index
	// refresh runs before the status split.
	rebuildIndexLogged("bulk")

	if len(bulkErrors) > 0 {
		utils.RespondWithJSON(w, http.StatusMultiStatus, utils.M{"errors": bulkErrors})
		return
	}

	go func() {
		if err := Notifier.SendBulkCreatePlan(globals.Ctx, len(plansMap)); err != nil {
			log.Printf("Discord webhook error: %v", err)
		}
	}()

	w.WriteHeader(http.StatusCreated)
}

// rebuildIndexLogged refreshes the key index after a committed mutation. A
// rebuild failure is logged, never surfaced: the primary write already
// succeeded and the index repairs itself on the next read.
func rebuildIndexLogged(trigger string) {
	if err := Planstore.RebuildIndex(globals.Ctx); err != nil {
		log.Printf("Failed to rebuild keys index after %s: %v", trigger, err)
	}
}

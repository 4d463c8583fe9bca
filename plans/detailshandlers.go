package plans

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"matsuri/models"
	"matsuri/utils"

	"github.com/julienschmidt/httprouter"
)

func GetDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	details, err := Detailstore.Read(r.Context(), planID)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Plan details not found.")
		return
	}
	if err != nil {
		log.Printf("Error reading plan details %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	// Details change rarely; let shared caches hold them for a while.
	w.Header().Set("Cache-Control", "public, max-age=600, s-maxage=600")
	utils.RespondWithJSON(w, http.StatusOK, details)
}

func PutDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	var details models.PlanDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	err := Detailstore.Create(r.Context(), planID, details)
	switch {
	case errors.Is(err, ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, "Details for this plan already exist.")
		return
	case err != nil:
		log.Printf("Error creating plan details %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func PatchDetails(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	err := Detailstore.Update(r.Context(), planID, patch)
	switch {
	case errors.Is(err, ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Plan details not found.")
		return
	case errors.Is(err, ErrInvalidDocument):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("Error updating plan details %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

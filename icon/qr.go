package icon

import (
	"encoding/json"
	"log"
	"net/http"

	"matsuri/globals"
	"matsuri/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// PlanQR renders a QR code pointing at the public plan page, for printed
// signage next to each booth.
func PlanQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	qrPNG, err := qrcode.Encode(globals.BaseURL+"/v1/plans/"+planID, qrcode.Medium, 256)
	if err != nil {
		log.Printf("Error encoding QR for %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(qrPNG)
}

func decodeJSONBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

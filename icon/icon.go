// Package icon stores plan icons on the static file tree and serves them
// with etags. Uploads keep the original bytes and derive a small thumbnail.
package icon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"matsuri/discord"
	"matsuri/globals"
	"matsuri/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"

	// imaging decodes through the registered image formats; webp needs an
	// explicit registration.
	_ "golang.org/x/image/webp"
)

var (
	// Dir is the icon storage root, set from ICON_DIR in main.
	Dir = "./static/planicons"
	// Notifier is wired in main.
	Notifier *discord.Webhook
)

const maxIconBytes = 10 << 20

var supportedIconTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

var iconExtensions = []string{"png", "jpg", "webp"}

func originalPath(planID, ext string) string {
	return filepath.Join(Dir, planID, "original."+ext)
}

func thumbPath(planID string) string {
	return filepath.Join(Dir, planID, "thumb.png")
}

// saveIcon writes the original plus a 256px thumbnail and fires the webhook.
func saveIcon(planID string, data []byte, contentType string) error {
	dir := filepath.Join(Dir, planID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Drop a previously stored original with a different extension.
	for _, ext := range iconExtensions {
		os.Remove(originalPath(planID, ext))
	}

	ext := utils.ExtensionFromContentType(contentType)
	if err := os.WriteFile(originalPath(planID, ext), data, 0644); err != nil {
		return err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode icon image: %w", err)
	}
	thumb := imaging.Resize(img, 256, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath(planID)); err != nil {
		return err
	}

	go func() {
		if err := Notifier.SendUpdatePlanIcon(globals.Ctx, planID, contentType); err != nil {
			log.Printf("Discord webhook error: %v", err)
		}
	}()

	return nil
}

func PutIcon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	contentType := r.Header.Get("Content-Type")
	if !supportedIconTypes[contentType] {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported icon content type. Supported: PNG, JPEG, WebP.")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxIconBytes+1))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read request body.")
		return
	}
	if len(data) > maxIconBytes {
		utils.RespondWithError(w, http.StatusRequestEntityTooLarge, "Icon too large.")
		return
	}

	if err := saveIcon(planID, data, contentType); err != nil {
		log.Printf("Error saving icon for %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func GetIcon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	var data []byte
	var contentType string
	for _, ext := range iconExtensions {
		b, err := os.ReadFile(originalPath(planID, ext))
		if err == nil {
			data = b
			contentType = contentTypeFromExtension(ext)
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("Error reading icon for %s: %v", planID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
			return
		}
	}
	if data == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Icon not found.")
		return
	}

	etag := `"` + utils.EncrypIt(string(data)) + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportIcon fetches an icon from a remote URL and stores it like an upload.
func ImportIcon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("plan_id")

	var body struct {
		URL string `json:"url"`
	}
	if err := decodeJSONBody(r, &body); err != nil || body.URL == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A source url is required.")
		return
	}

	resp, err := http.Get(body.URL)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to fetch icon from source url.")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		utils.RespondWithError(w, http.StatusBadGateway, fmt.Sprintf("Source responded with status %d.", resp.StatusCode))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if !supportedIconTypes[contentType] {
		utils.RespondWithError(w, http.StatusBadRequest, "Source icon has an unsupported content type.")
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes+1))
	if err != nil || len(data) > maxIconBytes {
		utils.RespondWithError(w, http.StatusBadGateway, "Failed to read icon from source url.")
		return
	}

	if err := saveIcon(planID, data, contentType); err != nil {
		log.Printf("Error importing icon for %s: %v", planID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal error occurred.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func contentTypeFromExtension(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ecocycle-backend/pkg/utils"

	"github.com/google/uuid"
)

type UploadImageRequest struct {
	ImageData string `json:"image_data"`
}

type UploadImageResponse struct {
	URL string `json:"url"`
}

// extensionForDataURI maps a data-URI media type to a file extension.
// Defaults to .jpg for raw base64 payloads with no prefix.
func extensionForDataURI(prefix string) string {
	switch {
	case strings.Contains(prefix, "image/png"):
		return ".png"
	case strings.Contains(prefix, "image/gif"):
		return ".gif"
	case strings.Contains(prefix, "image/webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}

// UploadImage accepts a base64-encoded image (raw or data URI), stores it
// under UPLOAD_DIR, and returns the public URL. The offline agent calls this
// before replaying a queued complaint that carries inline image data.
func UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UploadImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.ImageData == "" {
			utils.RespondError(w, http.StatusBadRequest, "image_data is required")
			return
		}

		payload := req.ImageData
		ext := ".jpg"
		if idx := strings.Index(payload, ";base64,"); idx >= 0 {
			ext = extensionForDataURI(payload[:idx])
			payload = payload[idx+len(";base64,"):]
		}

		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "image_data is not valid base64")
			return
		}

		uploadDir := os.Getenv("UPLOAD_DIR")
		if uploadDir == "" {
			uploadDir = "./uploads"
		}
		if err := os.MkdirAll(uploadDir, 0o755); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to prepare upload directory")
			return
		}

		name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.New().String()[:8], ext)
		if err := os.WriteFile(filepath.Join(uploadDir, name), raw, 0o644); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to store image")
			return
		}

		baseURL := os.Getenv("PUBLIC_BASE_URL")
		if baseURL == "" {
			baseURL = "http://localhost:8080"
		}

		log.Printf("🖼️  Stored uploaded image %s (%d bytes)", name, len(raw))
		utils.RespondJSON(w, http.StatusCreated, UploadImageResponse{
			URL: fmt.Sprintf("%s/uploads/%s", strings.TrimRight(baseURL, "/"), name),
		})
	}
}

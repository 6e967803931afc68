package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ecocycle-backend/internal/middleware"
	"ecocycle-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type RegisterFCMTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"deviceType"` // "ios", "android" or "web"
}

// RegisterFCMToken stores a device token so complaint status changes can be
// pushed to the complainant.
func RegisterFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req RegisterFCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "token is required")
			return
		}

		validDeviceTypes := map[string]bool{"ios": true, "android": true, "web": true}
		if !validDeviceTypes[req.DeviceType] {
			utils.RespondError(w, http.StatusBadRequest, "deviceType must be 'ios', 'android', or 'web'")
			return
		}

		// Upsert on the token so re-registration moves it between accounts
		_, err := db.Exec(`
			INSERT INTO fcm_tokens (user_id, token, device_type, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (token) DO UPDATE SET user_id = $1, device_type = $3
		`, claims.UserID, req.Token, req.DeviceType, time.Now().Unix())
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register token")
			return
		}

		log.Printf("✅ Registered FCM token for user %s (%s)", claims.UserID, req.DeviceType)
		utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

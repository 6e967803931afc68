package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"ecocycle-backend/internal/models"
	"ecocycle-backend/internal/services"
	"ecocycle-backend/internal/websocket"
	"ecocycle-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func GetComplaints(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := "SELECT * FROM complaints"
		args := []interface{}{}

		if userID := r.URL.Query().Get("userId"); userID != "" {
			query += " WHERE user_id = $1"
			args = append(args, userID)
		}
		query += " ORDER BY created_at DESC"

		var complaints []models.Complaint
		if err := db.Select(&complaints, query, args...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch complaints")
			return
		}

		responses := make([]models.ComplaintResponse, len(complaints))
		for i, c := range complaints {
			responses[i] = c.ToComplaintResponse()
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

func GetComplaint(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var complaint models.Complaint
		err := db.Get(&complaint, "SELECT * FROM complaints WHERE id = $1", id)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch complaint")
			return
		}

		utils.RespondJSON(w, http.StatusOK, complaint.ToComplaintResponse())
	}
}

// CreateComplaint files a waste complaint. Admin dashboards are notified
// over the websocket hub.
func CreateComplaint(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateComplaintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.UserID == "" || req.Description == "" || req.Location == "" {
			utils.RespondError(w, http.StatusBadRequest, "userId, description, and location are required")
			return
		}

		complaint := models.Complaint{
			ID:          uuid.New().String(),
			UserID:      req.UserID,
			Description: req.Description,
			Location:    req.Location,
			Status:      "pending",
			CreatedAt:   time.Now().Unix(),
		}
		if req.ImageURL != nil {
			complaint.ImageURL = sql.NullString{String: *req.ImageURL, Valid: true}
		}

		_, err := db.Exec(`
			INSERT INTO complaints (id, user_id, description, location, image_url, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, complaint.ID, complaint.UserID, complaint.Description, complaint.Location,
			complaint.ImageURL, complaint.Status, complaint.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create complaint")
			return
		}

		response := complaint.ToComplaintResponse()

		if hub != nil {
			hub.BroadcastToRole("admin", map[string]interface{}{
				"type":      "complaint_created",
				"complaint": response,
			})
		}

		utils.RespondJSON(w, http.StatusCreated, response)
	}
}

// UpdateComplaintStatus transitions a complaint and pushes an FCM
// notification to the complainant's registered devices (best effort).
func UpdateComplaintStatus(db *sqlx.DB, fcmService *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !models.ValidComplaintStatuses[req.Status] {
			utils.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		result, err := db.Exec("UPDATE complaints SET status = $1 WHERE id = $2", req.Status, id)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update complaint status")
			return
		}

		rows, err := result.RowsAffected()
		if err != nil || rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Complaint not found")
			return
		}

		var complaint models.Complaint
		if err := db.Get(&complaint, "SELECT * FROM complaints WHERE id = $1", id); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch updated complaint")
			return
		}

		if fcmService != nil {
			var tokens []string
			if err := db.Select(&tokens, "SELECT token FROM fcm_tokens WHERE user_id = $1", complaint.UserID); err != nil {
				log.Printf("⚠️  Failed to load FCM tokens for %s: %v", complaint.UserID, err)
			} else if len(tokens) > 0 {
				go fcmService.SendComplaintStatusUpdate(tokens, complaint.ID, complaint.Status)
			}
		}

		utils.RespondJSON(w, http.StatusOK, complaint.ToComplaintResponse())
	}
}

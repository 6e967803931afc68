package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"ecocycle-backend/internal/models"
	"ecocycle-backend/internal/websocket"
	"ecocycle-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func GetWasteCollections(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT id, user_id, waste_type, quantity, price_per_kg, collection_zone,
			       available_for_sale, voice_description, created_at
			FROM waste_collections
		`
		args := []interface{}{}

		if userID := r.URL.Query().Get("userId"); userID != "" {
			query += " WHERE user_id = $1"
			args = append(args, userID)
		}
		query += " ORDER BY created_at DESC"

		var collections []models.WasteCollection
		if err := db.Select(&collections, query, args...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch waste collections")
			return
		}

		responses := make([]models.WasteCollectionResponse, len(collections))
		for i, c := range collections {
			responses[i] = c.ToWasteCollectionResponse()
		}

		utils.RespondJSON(w, http.StatusOK, responses)
	}
}

func GetWasteCollection(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var collection models.WasteCollection
		err := db.Get(&collection, "SELECT * FROM waste_collections WHERE id = $1", id)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Waste collection not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch waste collection")
			return
		}

		utils.RespondJSON(w, http.StatusOK, collection.ToWasteCollectionResponse())
	}
}

// CreateWasteCollection records a vendor's collected lot. Lots flagged for
// sale are broadcast to connected factory dashboards.
func CreateWasteCollection(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateWasteCollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.UserID == "" || req.WasteType == "" || req.CollectionZone == "" {
			utils.RespondError(w, http.StatusBadRequest, "userId, wasteType, and collectionZone are required")
			return
		}
		if req.Quantity <= 0 || req.PricePerKg < 0 {
			utils.RespondError(w, http.StatusBadRequest, "quantity must be positive and pricePerKg non-negative")
			return
		}

		collection := models.WasteCollection{
			ID:               uuid.New().String(),
			UserID:           req.UserID,
			WasteType:        req.WasteType,
			Quantity:         req.Quantity,
			PricePerKg:       req.PricePerKg,
			CollectionZone:   req.CollectionZone,
			AvailableForSale: req.AvailableForSale,
			CreatedAt:        time.Now().Unix(),
		}
		if req.VoiceDescription != nil {
			collection.VoiceDescription = sql.NullString{String: *req.VoiceDescription, Valid: true}
		}

		_, err := db.Exec(`
			INSERT INTO waste_collections
				(id, user_id, waste_type, quantity, price_per_kg, collection_zone,
				 available_for_sale, voice_description, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, collection.ID, collection.UserID, collection.WasteType, collection.Quantity,
			collection.PricePerKg, collection.CollectionZone, collection.AvailableForSale,
			collection.VoiceDescription, collection.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create waste collection")
			return
		}

		response := collection.ToWasteCollectionResponse()

		if hub != nil && collection.AvailableForSale {
			hub.BroadcastToRole("factory", map[string]interface{}{
				"type":       "collection_created",
				"collection": response,
			})
		}

		utils.RespondJSON(w, http.StatusCreated, response)
	}
}

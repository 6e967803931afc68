package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"ecocycle-backend/internal/models"
	"ecocycle-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func GetCollectionZones(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var zones []models.CollectionZone
		err := db.Select(&zones, "SELECT * FROM collection_zones ORDER BY name ASC")
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch collection zones")
			return
		}

		utils.RespondJSON(w, http.StatusOK, zones)
	}
}

func GetCollectionZone(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var zone models.CollectionZone
		err := db.Get(&zone, "SELECT * FROM collection_zones WHERE id = $1", id)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Collection zone not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch collection zone")
			return
		}

		utils.RespondJSON(w, http.StatusOK, zone)
	}
}

func CreateCollectionZone(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateCollectionZoneRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" || req.Coordinates == "" {
			utils.RespondError(w, http.StatusBadRequest, "name and coordinates are required")
			return
		}
		if !models.ValidZoneTypes[req.ZoneType] {
			utils.RespondError(w, http.StatusBadRequest, "zoneType must be 'collection', 'processing', or 'high_waste'")
			return
		}

		zone := models.CollectionZone{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Coordinates: req.Coordinates,
			ZoneType:    req.ZoneType,
			CreatedAt:   time.Now().Unix(),
		}

		_, err := db.Exec(`
			INSERT INTO collection_zones (id, name, coordinates, zone_type, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, zone.ID, zone.Name, zone.Coordinates, zone.ZoneType, zone.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create collection zone")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, zone)
	}
}

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

func GetTransactions(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := "SELECT * FROM transactions"
		args := []interface{}{}

		if userID := r.URL.Query().Get("userId"); userID != "" {
			query += " WHERE seller_id = $1 OR buyer_id = $1"
			args = append(args, userID)
		}
		query += " ORDER BY created_at DESC"

		var transactions []models.Transaction
		if err := db.Select(&transactions, query, args...); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch transactions")
			return
		}

		utils.RespondJSON(w, http.StatusOK, transactions)
	}
}

func GetTransaction(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var transaction models.Transaction
		err := db.Get(&transaction, "SELECT * FROM transactions WHERE id = $1", id)
		if err == sql.ErrNoRows {
			utils.RespondError(w, http.StatusNotFound, "Transaction not found")
			return
		}
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch transaction")
			return
		}

		utils.RespondJSON(w, http.StatusOK, transaction)
	}
}

// CreateTransaction records a factory purchasing a vendor's lot.
func CreateTransaction(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.SellerID == "" || req.BuyerID == "" || req.WasteType == "" {
			utils.RespondError(w, http.StatusBadRequest, "sellerId, buyerId, and wasteType are required")
			return
		}
		if req.Quantity <= 0 || req.Amount < 0 {
			utils.RespondError(w, http.StatusBadRequest, "quantity must be positive and amount non-negative")
			return
		}
		if !models.ValidTransactionStatuses[req.Status] {
			utils.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		transaction := models.Transaction{
			ID:        uuid.New().String(),
			SellerID:  req.SellerID,
			BuyerID:   req.BuyerID,
			WasteType: req.WasteType,
			Quantity:  req.Quantity,
			Amount:    req.Amount,
			Status:    req.Status,
			CreatedAt: time.Now().Unix(),
		}

		_, err := db.Exec(`
			INSERT INTO transactions (id, seller_id, buyer_id, waste_type, quantity, amount, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, transaction.ID, transaction.SellerID, transaction.BuyerID, transaction.WasteType,
			transaction.Quantity, transaction.Amount, transaction.Status, transaction.CreatedAt)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create transaction")
			return
		}

		utils.RespondJSON(w, http.StatusCreated, transaction)
	}
}

// UpdateTransactionStatus moves a purchase between processing/completed/cancelled
// and notifies both parties over the websocket hub.
func UpdateTransactionStatus(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
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

		if !models.ValidTransactionStatuses[req.Status] {
			utils.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}

		result, err := db.Exec("UPDATE transactions SET status = $1 WHERE id = $2", req.Status, id)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update transaction status")
			return
		}

		rows, err := result.RowsAffected()
		if err != nil || rows == 0 {
			utils.RespondError(w, http.StatusNotFound, "Transaction not found")
			return
		}

		var transaction models.Transaction
		if err := db.Get(&transaction, "SELECT * FROM transactions WHERE id = $1", id); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch updated transaction")
			return
		}

		if hub != nil {
			event := map[string]interface{}{
				"type":        "transaction_updated",
				"transaction": transaction,
			}
			hub.BroadcastToUser(transaction.SellerID, event)
			hub.BroadcastToUser(transaction.BuyerID, event)
		}

		utils.RespondJSON(w, http.StatusOK, transaction)
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"ecocycle-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// GetWasteSummary returns per-zone, per-type collection totals for the
// entrepreneur dashboard.
func GetWasteSummary(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 30
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			if parsed, err := strconv.Atoi(daysStr); err == nil && parsed > 0 && parsed <= 365 {
				days = parsed
			}
		}

		type ZoneSummary struct {
			CollectionZone string  `json:"collectionZone" db:"collection_zone"`
			WasteType      string  `json:"wasteType" db:"waste_type"`
			TotalQuantity  float64 `json:"totalQuantity" db:"total_quantity"`
			AvgPricePerKg  float64 `json:"avgPricePerKg" db:"avg_price_per_kg"`
			LotCount       int     `json:"lotCount" db:"lot_count"`
			ForSaleCount   int     `json:"forSaleCount" db:"for_sale_count"`
		}

		var summaries []ZoneSummary
		err := db.Select(&summaries, `
			SELECT
				collection_zone,
				waste_type,
				COALESCE(SUM(quantity), 0) AS total_quantity,
				COALESCE(AVG(price_per_kg), 0) AS avg_price_per_kg,
				COUNT(*) AS lot_count,
				COUNT(*) FILTER (WHERE available_for_sale) AS for_sale_count
			FROM waste_collections
			WHERE created_at > EXTRACT(EPOCH FROM NOW())::BIGINT - $1 * 86400
			GROUP BY collection_zone, waste_type
			ORDER BY collection_zone, total_quantity DESC
		`, days)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to compute waste summary")
			return
		}

		type MarketTotals struct {
			TotalTransactions int     `json:"totalTransactions" db:"total_transactions"`
			TotalAmount       float64 `json:"totalAmount" db:"total_amount"`
			CompletedCount    int     `json:"completedCount" db:"completed_count"`
		}

		var totals MarketTotals
		err = db.Get(&totals, `
			SELECT
				COUNT(*) AS total_transactions,
				COALESCE(SUM(amount), 0) AS total_amount,
				COUNT(*) FILTER (WHERE status = 'completed') AS completed_count
			FROM transactions
			WHERE created_at > EXTRACT(EPOCH FROM NOW())::BIGINT - $1 * 86400
		`, days)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to compute market totals")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"days":   days,
			"zones":  summaries,
			"market": totals,
		})
	}
}

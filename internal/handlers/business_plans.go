package handlers

import (
	"encoding/json"
	"net/http"

	"ecocycle-backend/internal/middleware"
	"ecocycle-backend/pkg/utils"
)

// SaveBusinessPlan acknowledges an entrepreneur's feasibility plan. Plans are
// assembled client-side; the server only confirms receipt for now.
func SaveBusinessPlan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.GetUserFromContext(r); !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var plan map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Business plan saved successfully",
			"data":    plan,
		})
	}
}

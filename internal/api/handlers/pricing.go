package handlers

import (
	"net/http"

	"ewaste-collection-service/internal/api/dto"
	"ewaste-collection-service/internal/services"
)

// Quote prices an item without persisting anything. Any authenticated role
// may request one.
func Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := services.CalculateFinalPrice(req.Category, req.WeightKg, req.Condition, req.AgeYears)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, quoteResponse(quote))
}

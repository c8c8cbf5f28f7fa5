package handlers

import (
	"net/http"

	"ewaste-collection-service/internal/api/dto"
	"ewaste-collection-service/internal/services"
)

// PaymentHandler exposes recycler settlement.
type PaymentHandler struct {
	Settler *services.Settler
}

func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var req dto.SettleRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	invoices, err := h.Settler.Settle(r.Context(), actor, req.PickupID, req.Amount, req.TransactionID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SettleResponse{Invoices: invoiceResponses(invoices)})
}

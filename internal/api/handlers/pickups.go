package handlers

import (
	"fmt"
	"net/http"
	"time"

	"ewaste-collection-service/internal/api/dto"
	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"
	"ewaste-collection-service/internal/services"

	"github.com/google/uuid"
)

// PickupHandler exposes pickup submission, listing and inspection.
type PickupHandler struct {
	Repo      ports.PickupRepository
	Clusterer *services.Clusterer
	Inspector *services.Inspector
}

func (h *PickupHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.PickupStatus(r.URL.Query().Get("status"))
	pickups, err := h.Repo.ListPickups(r.Context(), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListPickupsResponse{Pickups: make([]dto.PickupResponse, 0, len(pickups))}
	for _, p := range pickups {
		res.Pickups = append(res.Pickups, pickupResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Create persists a new pickup request and runs immediate cluster formation
// around it. The submitting user is the actor.
func (h *PickupHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	if actor.Role != domain.RoleUser {
		writeError(w, r, http.StatusForbidden, "only users submit pickup requests")
		return
	}

	var req dto.CreatePickupRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var location *domain.Coordinates
	if req.Latitude != nil || req.Longitude != nil {
		if req.Latitude == nil || req.Longitude == nil {
			writeError(w, r, http.StatusBadRequest, "latitude and longitude must be supplied together")
			return
		}
		loc, err := domain.NewCoordinates(*req.Latitude, *req.Longitude)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		location = &loc
	}

	items := make([]domain.PickupItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.PickupItem{
			Type:        it.Type,
			WeightGrams: it.WeightGrams,
			Description: it.Description,
		})
	}

	now := time.Now()
	pickup := &domain.PickupRequest{
		ID:            uuid.NewString(),
		UserID:        actor.ID,
		Area:          req.Area,
		Address:       req.Address,
		EwasteType:    req.EwasteType,
		Description:   req.Description,
		WeightGrams:   req.WeightGrams,
		Items:         items,
		Location:      location,
		Status:        domain.PickupPending,
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := pickup.Validate(); err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Repo.InsertPickup(r.Context(), pickup); err != nil {
		writeDomainError(w, r, fmt.Errorf("create pickup: %w", err))
		return
	}

	cluster, err := h.Clusterer.FormClusterForPickup(r.Context(), pickup.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// Re-read the pickup so the response reflects any cluster membership.
	stored, err := h.Repo.GetPickup(r.Context(), pickup.ID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.CreatePickupResponse{Pickup: pickupResponse(stored)}
	if cluster != nil {
		cr := clusterResponse(cluster)
		res.Cluster = &cr
	}
	writeJSON(w, r, http.StatusCreated, res)
}

// Inspect records an engineer's on-site finding for one pickup.
func (h *PickupHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var req dto.InspectionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Inspector.SubmitInspection(r.Context(), actor, r.PathValue("id"), services.InspectionInput{
		FinalWeightGrams: req.FinalWeightGrams,
		Condition:        req.Condition,
		AgeYears:         req.AgeYears,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.InspectionResponse{
		PickupID:         result.PickupID,
		FinalWeightGrams: result.FinalWeightGrams,
		Quote:            quoteResponse(result.Quote),
	})
}

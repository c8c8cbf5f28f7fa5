package handlers

import (
	"net/http"

	"ewaste-collection-service/internal/api/dto"
	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"
	"ewaste-collection-service/internal/services"
)

// ClusterHandler exposes cluster formation, lifecycle and staffing.
type ClusterHandler struct {
	Repo        ports.ClusterRepository
	Clusterer   *services.Clusterer
	Lifecycle   *services.Lifecycle
	Recommender *services.Recommender
}

func (h *ClusterHandler) List(w http.ResponseWriter, r *http.Request) {
	clusters, err := h.Repo.ListClusters(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListClustersResponse{Clusters: make([]dto.ClusterResponse, 0, len(clusters))}
	for _, c := range clusters {
		res.Clusters = append(res.Clusters, clusterResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Analyze sweeps all unclustered pickups and forms whatever viable clusters
// the batch radius allows.
func (h *ClusterHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}
	if actor.Role != domain.RoleWarehouse {
		writeError(w, r, http.StatusForbidden, "only warehouse admins run route analysis")
		return
	}

	clusters, err := h.Clusterer.AnalyzeRoutes(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.AnalyzeRoutesResponse{Clusters: make([]dto.ClusterResponse, 0, len(clusters))}
	for _, c := range clusters {
		res.Clusters = append(res.Clusters, clusterResponse(c))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ClusterHandler) Transition(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var req dto.TransitionRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cluster, err := h.Lifecycle.TransitionCluster(r.Context(), actor, r.PathValue("id"), domain.ClusterStatus(req.Status))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, clusterResponse(cluster))
}

func (h *ClusterHandler) Assign(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var req dto.AssignmentRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	cluster, err := h.Lifecycle.AssignStaff(r.Context(), actor, r.PathValue("id"), req.EngineerID, req.DriverID, req.Hub)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, clusterResponse(cluster))
}

func (h *ClusterHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var req dto.ScheduleRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.ScheduledFor.IsZero() {
		writeError(w, r, http.StatusBadRequest, "scheduled_for is required")
		return
	}

	cluster, err := h.Lifecycle.ScheduleCluster(r.Context(), actor, r.PathValue("id"), req.ScheduledFor)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, clusterResponse(cluster))
}

// Recommend lists ranked engineer and driver candidates for a cluster.
func (h *ClusterHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	// The cluster must exist even though ranking is currently global.
	if _, err := h.Repo.GetCluster(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, r, err)
		return
	}

	rec, err := h.Recommender.RankCandidates(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RecommendationResponse{
		Engineers: candidateResponses(rec.Engineers),
		Drivers:   candidateResponses(rec.Drivers),
	})
}

func candidateResponses(in []services.Candidate) []dto.CandidateResponse {
	out := make([]dto.CandidateResponse, 0, len(in))
	for _, c := range in {
		out = append(out, dto.CandidateResponse{
			UserID:      c.User.ID,
			Name:        c.User.Name,
			Available:   c.Available,
			ActiveCount: c.ActiveCount,
		})
	}
	return out
}

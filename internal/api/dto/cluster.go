package dto

import "time"

type ClusterMemberResponse struct {
	PickupID             string  `json:"pickup_id"`
	WeightGrams          int64   `json:"weight_grams"`
	DistanceFromAnchorKm float64 `json:"distance_from_anchor_km"`
}

type StatusChangeResponse struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
}

type ClusterResponse struct {
	ClusterID                string                  `json:"cluster_id"`
	AnchorPickupID           string                  `json:"anchor_pickup_id"`
	AnchorLat                float64                 `json:"anchor_lat"`
	AnchorLng                float64                 `json:"anchor_lng"`
	Members                  []ClusterMemberResponse `json:"members"`
	TotalWeightGrams         int64                   `json:"total_weight_grams"`
	DestinationHub           string                  `json:"destination_hub"`
	DistToHubKm              float64                 `json:"dist_to_hub_km"`
	RadiusUsedKm             float64                 `json:"radius_used_km"`
	Status                   string                  `json:"status"`
	AdminOverride            bool                    `json:"admin_override"`
	EngineerID               string                  `json:"engineer_id,omitempty"`
	DriverID                 string                  `json:"driver_id,omitempty"`
	ScheduledFor             *time.Time              `json:"scheduled_for,omitempty"`
	EstimatedDurationMinutes int                     `json:"estimated_duration_minutes,omitempty"`
	RouteDistanceKm          float64                 `json:"route_distance_km,omitempty"`
	History                  []StatusChangeResponse  `json:"history"`
	CreatedAt                time.Time               `json:"created_at"`
}

type ListClustersResponse struct {
	Clusters []ClusterResponse `json:"clusters"`
}

type AnalyzeRoutesResponse struct {
	Clusters []ClusterResponse `json:"clusters"`
}

type TransitionRequest struct {
	Status string `json:"status"`
}

type AssignmentRequest struct {
	EngineerID string `json:"engineer_id"`
	DriverID   string `json:"driver_id"`
	Hub        string `json:"hub"`
}

type ScheduleRequest struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

type CandidateResponse struct {
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Available   bool   `json:"available"`
	ActiveCount int    `json:"active_count"`
}

type RecommendationResponse struct {
	Engineers []CandidateResponse `json:"engineers"`
	Drivers   []CandidateResponse `json:"drivers"`
}

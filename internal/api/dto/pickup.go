package dto

import "time"

type PickupItemPayload struct {
	Type        string `json:"type"`
	WeightGrams int64  `json:"weight_grams"`
	Description string `json:"description"`
}

type CreatePickupRequest struct {
	Area        string              `json:"area"`
	Address     string              `json:"address"`
	EwasteType  string              `json:"ewaste_type"`
	Description string              `json:"description"`
	WeightGrams int64               `json:"weight_grams"`
	Items       []PickupItemPayload `json:"items"`
	Latitude    *float64            `json:"latitude"`
	Longitude   *float64            `json:"longitude"`
}

type PickupResponse struct {
	PickupID         string              `json:"pickup_id"`
	UserID           string              `json:"user_id"`
	Area             string              `json:"area"`
	Address          string              `json:"address"`
	EwasteType       string              `json:"ewaste_type"`
	Description      string              `json:"description"`
	WeightGrams      int64               `json:"weight_grams"`
	Items            []PickupItemPayload `json:"items"`
	Latitude         *float64            `json:"latitude"`
	Longitude        *float64            `json:"longitude"`
	Status           string              `json:"status"`
	ClusterID        string              `json:"cluster_id,omitempty"`
	EngineerID       string              `json:"engineer_id,omitempty"`
	FinalWeightGrams *int64              `json:"final_weight_grams,omitempty"`
	EngineerPrice    *float64            `json:"engineer_price,omitempty"`
	PaymentStatus    string              `json:"payment_status"`
	CreatedAt        time.Time           `json:"created_at"`
}

type CreatePickupResponse struct {
	Pickup  PickupResponse   `json:"pickup"`
	Cluster *ClusterResponse `json:"cluster,omitempty"`
}

type ListPickupsResponse struct {
	Pickups []PickupResponse `json:"pickups"`
}

type InspectionRequest struct {
	FinalWeightGrams int64   `json:"final_weight_grams"`
	Condition        string  `json:"condition"`
	AgeYears         float64 `json:"age_years"`
}

type InspectionResponse struct {
	PickupID         string        `json:"pickup_id"`
	FinalWeightGrams int64         `json:"final_weight_grams"`
	Quote            QuoteResponse `json:"quote"`
}

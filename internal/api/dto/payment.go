package dto

import "time"

type QuoteRequest struct {
	Category  string  `json:"category"`
	WeightKg  float64 `json:"weight_kg"`
	Condition string  `json:"condition"`
	AgeYears  float64 `json:"age_years"`
}

type QuoteResponse struct {
	BaseRate        float64 `json:"base_rate"`
	ConditionFactor float64 `json:"condition_factor"`
	AgeFactor       float64 `json:"age_factor"`
	EstimatedValue  float64 `json:"estimated_value"`
	Currency        string  `json:"currency"`
}

type SettleRequest struct {
	PickupID      string  `json:"pickup_id"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

type InvoiceResponse struct {
	InvoiceNumber string    `json:"invoice_number"`
	RecipientID   string    `json:"recipient_id"`
	RecipientRole string    `json:"recipient_role"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Percentage    string    `json:"percentage"`
	PickupID      string    `json:"pickup_id"`
	TransactionID string    `json:"transaction_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type SettleResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

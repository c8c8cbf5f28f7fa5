package domain

import (
	"fmt"
	"strings"
	"time"
)

// WarehouseRecipientID tags the warehouse share when no individual account
// receives it.
const WarehouseRecipientID = "WAREHOUSE_ADMIN"

// Invoice is one stakeholder's share of a settled payment.
// Immutable once created.
type Invoice struct {
	ID            string
	InvoiceNumber string
	RecipientID   string
	RecipientRole Role
	Amount        float64
	Currency      string
	Percentage    string
	PickupID      string
	TransactionID string
	Status        string
	Description   string
	CreatedAt     time.Time
}

// NewInvoiceNumber builds a human-readable invoice number from the
// settlement timestamp and the recipient role.
func NewInvoiceNumber(at time.Time, role Role) string {
	tag := strings.ToUpper(string(role))
	if len(tag) > 3 {
		tag = tag[:3]
	}
	return fmt.Sprintf("INV-%d-%s", at.Unix(), tag)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"

	"github.com/google/uuid"
)

// Fixed settlement percentages. Shares of unresolvable roles fold into the
// warehouse so every settlement still sums to the paid amount.
const (
	shareUser          = 0.50
	shareDriver        = 0.10
	shareEngineer      = 0.15
	shareWarehouseBase = 0.25
)

// Settler distributes a settled payment across stakeholder shares and
// generates one immutable invoice per resolved recipient.
type Settler struct {
	Pickups  ports.PickupRepository
	Clusters ports.ClusterRepository
	Users    ports.UserRepository
	Invoices ports.InvoiceRepository
	Now      ports.Clock
}

func NewSettler(
	pickups ports.PickupRepository,
	clusters ports.ClusterRepository,
	users ports.UserRepository,
	invoices ports.InvoiceRepository,
) *Settler {
	return &Settler{Pickups: pickups, Clusters: clusters, Users: users, Invoices: invoices, Now: time.Now}
}

// Settle splits amount across user/driver/engineer/warehouse, writes the
// invoices, credits wallets, and marks the pickup recycled and paid.
//
// A missing pickup aborts before any write. A pickup already marked paid
// fails with domain.ErrAlreadySettled and writes nothing, which keeps
// retries safe.
func (s *Settler) Settle(
	ctx context.Context,
	actor domain.Actor,
	pickupID string,
	amount float64,
	transactionID string,
) ([]*domain.Invoice, error) {
	if !actor.Role.CanSettle() {
		return nil, fmt.Errorf("%w: role %q may not settle payments", domain.ErrUnauthorized, actor.Role)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: settlement amount must be positive, got %v", domain.ErrValidation, amount)
	}

	pickup, err := s.Pickups.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("settle pickup %q: %w", pickupID, err)
	}
	if pickup.PaymentStatus == domain.PaymentPaid {
		return nil, fmt.Errorf("settle pickup %q: %w", pickupID, domain.ErrAlreadySettled)
	}

	// Resolve stakeholders. The driver hangs off the linked cluster, the
	// engineer off the pickup itself.
	driverID := ""
	if pickup.ClusterID != "" {
		cluster, err := s.Clusters.GetCluster(ctx, pickup.ClusterID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("settle pickup %q: cluster %q: %w", pickupID, pickup.ClusterID, err)
		}
		if cluster != nil {
			driverID = cluster.DriverID
		}
	}
	engineerID := pickup.EngineerID

	warehousePct := shareWarehouseBase
	if driverID == "" {
		warehousePct += shareDriver
	}
	if engineerID == "" {
		warehousePct += shareEngineer
	}

	now := s.Now()
	description := fmt.Sprintf("Payout for E-Waste Collection: %s", pickup.EwasteType)

	newInvoice := func(recipientID string, role domain.Role, share, pct float64) *domain.Invoice {
		return &domain.Invoice{
			ID:            uuid.NewString(),
			InvoiceNumber: domain.NewInvoiceNumber(now, role),
			RecipientID:   recipientID,
			RecipientRole: role,
			Amount:        round2(share),
			Currency:      "INR",
			Percentage:    fmt.Sprintf("%d%%", int(math.Round(pct*100))),
			PickupID:      pickupID,
			TransactionID: transactionID,
			Status:        domain.PaymentPaid,
			Description:   description,
			CreatedAt:     now,
		}
	}

	invoices := make([]*domain.Invoice, 0, 4)
	credits := make(map[string]float64, 3)

	if pickup.UserID != "" {
		inv := newInvoice(pickup.UserID, domain.RoleUser, amount*shareUser, shareUser)
		invoices = append(invoices, inv)
		credits[pickup.UserID] = inv.Amount
	}
	if driverID != "" {
		inv := newInvoice(driverID, domain.RoleDriver, amount*shareDriver, shareDriver)
		invoices = append(invoices, inv)
		credits[driverID] = inv.Amount
	}
	if engineerID != "" {
		inv := newInvoice(engineerID, domain.RoleEngineer, amount*shareEngineer, shareEngineer)
		invoices = append(invoices, inv)
		credits[engineerID] = inv.Amount
	}
	// The warehouse always receives an invoice, including folded shares.
	invoices = append(invoices, newInvoice(domain.WarehouseRecipientID, domain.RoleWarehouse, amount*warehousePct, warehousePct))

	if err := s.Invoices.InsertInvoices(ctx, invoices); err != nil {
		return nil, fmt.Errorf("settle pickup %q: write invoices: %w", pickupID, err)
	}
	for userID, credit := range credits {
		if err := s.Users.CreditWallet(ctx, userID, credit); err != nil {
			return nil, fmt.Errorf("settle pickup %q: credit wallet %q: %w", pickupID, userID, err)
		}
	}
	if err := s.Pickups.MarkSettled(ctx, pickupID, amount); err != nil {
		return nil, fmt.Errorf("settle pickup %q: mark settled: %w", pickupID, err)
	}

	return invoices, nil
}

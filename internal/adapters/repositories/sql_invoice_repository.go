package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ewaste-collection-service/internal/domain"
)

// SQL-backed implementation of the InvoiceRepository port.
type SQLInvoiceRepository struct{ DB *sql.DB }

func NewSQLInvoiceRepository(db *sql.DB) *SQLInvoiceRepository {
	return &SQLInvoiceRepository{DB: db}
}

// InsertInvoices writes settlement invoices in one transaction. The
// (pickup_id, recipient_role) uniqueness makes retried settlements no-ops
// instead of duplicating payouts.
func (s *SQLInvoiceRepository) InsertInvoices(ctx context.Context, invoices []*domain.Invoice) error {
	if s.DB == nil {
		return errors.New("invoice repository: DB is nil")
	}
	if len(invoices) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert invoices: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO invoices (
		invoice_id, invoice_number, recipient_id, recipient_role,
		amount, currency, percentage, pickup_id, transaction_id,
		status, description, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (pickup_id, recipient_role) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("insert invoices: prepare: %w", err)
	}
	defer stmt.Close()

	for _, inv := range invoices {
		if _, err := stmt.ExecContext(ctx,
			inv.ID, inv.InvoiceNumber, inv.RecipientID, string(inv.RecipientRole),
			inv.Amount, inv.Currency, inv.Percentage, inv.PickupID, inv.TransactionID,
			inv.Status, inv.Description, inv.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert invoice %q: %w", inv.InvoiceNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert invoices: commit tx: %w", err)
	}
	return nil
}

func (s *SQLInvoiceRepository) ListByPickup(ctx context.Context, pickupID string) ([]*domain.Invoice, error) {
	query := `
	SELECT
		invoice_id, invoice_number, recipient_id, recipient_role,
		amount, currency, percentage, pickup_id, transaction_id,
		status, description, created_at
	FROM invoices
	WHERE pickup_id = $1
	ORDER BY created_at;
	`
	rows, err := s.DB.QueryContext(ctx, query, pickupID)
	if err != nil {
		return nil, fmt.Errorf("list invoices for pickup %q: %w", pickupID, err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0, 4)
	for rows.Next() {
		var inv domain.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.RecipientID, &inv.RecipientRole,
			&inv.Amount, &inv.Currency, &inv.Percentage, &inv.PickupID, &inv.TransactionID,
			&inv.Status, &inv.Description, &inv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list invoices for pickup %q: scan row: %w", pickupID, err)
		}
		invoices = append(invoices, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices for pickup %q: row iteration: %w", pickupID, err)
	}
	return invoices, nil
}

package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ewaste-collection-service/internal/domain"
)

const pickupColumns = `
	pickup_id, user_id, area, address, ewaste_type, description,
	weight_grams, items_json, latitude, longitude, status,
	COALESCE(cluster_id, '') AS cluster_id,
	COALESCE(engineer_id, '') AS engineer_id,
	final_weight_grams, engineer_price,
	payment_status, paid_amount, created_at, updated_at
`

// SQL-backed implementation of the PickupRepository port.
type SQLPickupRepository struct{ DB *sql.DB }

func NewSQLPickupRepository(db *sql.DB) *SQLPickupRepository {
	return &SQLPickupRepository{DB: db}
}

func (s *SQLPickupRepository) InsertPickup(ctx context.Context, p *domain.PickupRequest) error {
	if s.DB == nil {
		return errors.New("pickup repository: DB is nil")
	}

	items, err := json.Marshal(p.Items)
	if err != nil {
		return fmt.Errorf("insert pickup: marshal items: %w", err)
	}

	var lat, lng *float64
	if p.Location != nil {
		lat, lng = &p.Location.Lat, &p.Location.Lng
	}

	query := `
	INSERT INTO pickup_requests (
		pickup_id, user_id, area, address, ewaste_type, description,
		weight_grams, items_json, latitude, longitude, status,
		payment_status, paid_amount, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = s.DB.ExecContext(ctx, query,
		p.ID, p.UserID, p.Area, p.Address, p.EwasteType, p.Description,
		p.WeightGrams, string(items), lat, lng, string(p.Status),
		p.PaymentStatus, p.PaidAmount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pickup %q: %w", p.ID, err)
	}
	return nil
}

func (s *SQLPickupRepository) GetPickup(ctx context.Context, id string) (*domain.PickupRequest, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickup_requests WHERE pickup_id = $1;`

	p, err := scanPickup(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get pickup %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get pickup %q: %w", id, err)
	}
	return p, nil
}

func (s *SQLPickupRepository) ListPickups(ctx context.Context, status domain.PickupStatus) ([]*domain.PickupRequest, error) {
	query := `SELECT ` + pickupColumns + ` FROM pickup_requests`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC;`

	return s.queryPickups(ctx, query, args...)
}

func (s *SQLPickupRepository) ListUnclustered(ctx context.Context) ([]*domain.PickupRequest, error) {
	query := `
	SELECT ` + pickupColumns + `
	FROM pickup_requests
	WHERE status = 'pending' AND cluster_id IS NULL
	ORDER BY created_at;
	`
	return s.queryPickups(ctx, query)
}

// ClaimForCluster is the atomic conditional claim: the update succeeds only
// while cluster_id is still unset, so two concurrent sweeps can never both
// take the same pickup.
func (s *SQLPickupRepository) ClaimForCluster(ctx context.Context, pickupID, clusterID string) (bool, error) {
	query := `
	UPDATE pickup_requests
	SET cluster_id = $1, updated_at = now()
	WHERE pickup_id = $2 AND cluster_id IS NULL AND status = 'pending';
	`
	res, err := s.DB.ExecContext(ctx, query, clusterID, pickupID)
	if err != nil {
		return false, fmt.Errorf("claim pickup %q for cluster %q: %w", pickupID, clusterID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim pickup %q: rows affected: %w", pickupID, err)
	}
	return n == 1, nil
}

func (s *SQLPickupRepository) UpdateStatuses(ctx context.Context, pickupIDs []string, status domain.PickupStatus) error {
	if len(pickupIDs) == 0 {
		return nil
	}
	query := `
	UPDATE pickup_requests
	SET status = $1, updated_at = now()
	WHERE pickup_id = ANY($2::text[]);
	`
	if _, err := s.DB.ExecContext(ctx, query, string(status), pickupIDs); err != nil {
		return fmt.Errorf("update pickup statuses to %q: %w", status, err)
	}
	return nil
}

func (s *SQLPickupRepository) RecordInspection(ctx context.Context, pickupID, engineerID string, finalWeightGrams int64, price float64) error {
	query := `
	UPDATE pickup_requests
	SET engineer_id = $1, final_weight_grams = $2, engineer_price = $3,
		status = 'collected', updated_at = now()
	WHERE pickup_id = $4;
	`
	res, err := s.DB.ExecContext(ctx, query, engineerID, finalWeightGrams, price, pickupID)
	if err != nil {
		return fmt.Errorf("record inspection for pickup %q: %w", pickupID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record inspection for pickup %q: rows affected: %w", pickupID, err)
	}
	if n == 0 {
		return fmt.Errorf("record inspection for pickup %q: %w", pickupID, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLPickupRepository) MarkSettled(ctx context.Context, pickupID string, amount float64) error {
	query := `
	UPDATE pickup_requests
	SET status = 'recycled', payment_status = 'paid', paid_amount = $1, updated_at = now()
	WHERE pickup_id = $2;
	`
	res, err := s.DB.ExecContext(ctx, query, amount, pickupID)
	if err != nil {
		return fmt.Errorf("mark pickup %q settled: %w", pickupID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark pickup %q settled: rows affected: %w", pickupID, err)
	}
	if n == 0 {
		return fmt.Errorf("mark pickup %q settled: %w", pickupID, domain.ErrNotFound)
	}
	return nil
}

func (s *SQLPickupRepository) queryPickups(ctx context.Context, query string, args ...any) ([]*domain.PickupRequest, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pickups: %w", err)
	}
	defer rows.Close()

	pickups := make([]*domain.PickupRequest, 0, 64)
	for rows.Next() {
		p, err := scanPickup(rows)
		if err != nil {
			return nil, fmt.Errorf("query pickups: scan row: %w", err)
		}
		pickups = append(pickups, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query pickups: row iteration: %w", err)
	}
	return pickups, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanPickup(row rowScanner) (*domain.PickupRequest, error) {
	var (
		p           domain.PickupRequest
		itemsJSON   string
		lat, lng    sql.NullFloat64
		finalWeight sql.NullInt64
		price       sql.NullFloat64
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Area, &p.Address, &p.EwasteType, &p.Description,
		&p.WeightGrams, &itemsJSON, &lat, &lng, &p.Status,
		&p.ClusterID, &p.EngineerID,
		&finalWeight, &price,
		&p.PaymentStatus, &p.PaidAmount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &p.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items for pickup %q: %w", p.ID, err)
		}
	}
	if lat.Valid && lng.Valid {
		p.Location = &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if finalWeight.Valid {
		p.FinalWeightGrams = &finalWeight.Int64
	}
	if price.Valid {
		p.EngineerPrice = &price.Float64
	}
	return &p, nil
}

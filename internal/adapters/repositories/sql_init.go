package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createUsersQuery := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		mobile TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		available_tomorrow BOOLEAN,
		wallet_balance DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createPickupsQuery := `
	CREATE TABLE IF NOT EXISTS pickup_requests (
		pickup_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		area TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		ewaste_type TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		weight_grams BIGINT NOT NULL,
		items_json TEXT NOT NULL DEFAULT '[]',
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		status TEXT NOT NULL DEFAULT 'pending',
		cluster_id TEXT,
		engineer_id TEXT,
		final_weight_grams BIGINT,
		engineer_price DOUBLE PRECISION,
		payment_status TEXT NOT NULL DEFAULT 'unpaid',
		paid_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	createClustersQuery := `
	CREATE TABLE IF NOT EXISTS collection_clusters (
		cluster_id TEXT PRIMARY KEY,
		anchor_pickup_id TEXT NOT NULL,
		anchor_lat DOUBLE PRECISION NOT NULL,
		anchor_lng DOUBLE PRECISION NOT NULL,
		total_weight_grams BIGINT NOT NULL,
		destination_hub TEXT NOT NULL,
		dist_to_hub_km DOUBLE PRECISION NOT NULL,
		radius_used_km DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL,
		admin_override BOOLEAN NOT NULL DEFAULT FALSE,
		engineer_id TEXT NOT NULL DEFAULT '',
		driver_id TEXT NOT NULL DEFAULT '',
		inspector_id TEXT NOT NULL DEFAULT '',
		scheduled_for TIMESTAMPTZ,
		estimated_duration_minutes INTEGER NOT NULL DEFAULT 0,
		route_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	createMembersQuery := `
	CREATE TABLE IF NOT EXISTS cluster_members (
		cluster_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		pickup_id TEXT NOT NULL UNIQUE,
		weight_grams BIGINT NOT NULL,
		distance_from_anchor_km DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (cluster_id, position)
	);
	`

	createHistoryQuery := `
	CREATE TABLE IF NOT EXISTS cluster_status_history (
		cluster_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		status TEXT NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL,
		actor_role TEXT NOT NULL,
		PRIMARY KEY (cluster_id, position)
	);
	`

	createInvoicesQuery := `
	CREATE TABLE IF NOT EXISTS invoices (
		invoice_id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL,
		recipient_id TEXT NOT NULL,
		recipient_role TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		currency TEXT NOT NULL,
		percentage TEXT NOT NULL,
		pickup_id TEXT NOT NULL,
		transaction_id TEXT NOT NULL,
		status TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (pickup_id, recipient_role)
	);
	`

	createIndexesQuery := `
	CREATE INDEX IF NOT EXISTS idx_pickup_requests_status
	ON pickup_requests(status);
	CREATE INDEX IF NOT EXISTS idx_pickup_requests_cluster
	ON pickup_requests(cluster_id);
	CREATE INDEX IF NOT EXISTS idx_invoices_recipient
	ON invoices(recipient_id);
	`

	statements := []string{
		createUsersQuery,
		createPickupsQuery,
		createClustersQuery,
		createMembersQuery,
		createHistoryQuery,
		createInvoicesQuery,
		createIndexesQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type UserSeed struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
	Address string `json:"address"`
	Role    string `json:"role"`
}

type PickupSeed struct {
	PickupID    string   `json:"pickup_id"`
	UserID      string   `json:"user_id"`
	Area        string   `json:"area"`
	Address     string   `json:"address"`
	EwasteType  string   `json:"ewaste_type"`
	WeightGrams int64    `json:"weight_grams"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type SeedFile struct {
	Users   []UserSeed   `json:"users"`
	Pickups []PickupSeed `json:"pickups"`
}

// Populate the database with demo users and pickup requests from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	for i, u := range data.Users {
		if strings.TrimSpace(u.UserID) == "" || strings.TrimSpace(u.Email) == "" {
			return fmt.Errorf("seed: user at index %d: user_id and email are required", i+1)
		}
	}
	for i, p := range data.Pickups {
		if strings.TrimSpace(p.PickupID) == "" {
			return fmt.Errorf("seed: pickup at index %d: pickup_id is required", i+1)
		}
		if p.WeightGrams <= 0 {
			return fmt.Errorf("seed: pickup %q: weight_grams must be positive", p.PickupID)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	userStmt, err := tx.Prepare(`
	INSERT INTO users (user_id, name, email, mobile, address, role)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (user_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare user insert: %w", err)
	}
	defer userStmt.Close()

	for _, u := range data.Users {
		if _, err := userStmt.Exec(u.UserID, u.Name, u.Email, u.Mobile, u.Address, u.Role); err != nil {
			return fmt.Errorf("seed: insert user %q: %w", u.UserID, err)
		}
	}

	pickupStmt, err := tx.Prepare(`
	INSERT INTO pickup_requests (
		pickup_id, user_id, area, address, ewaste_type, weight_grams,
		latitude, longitude, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	ON CONFLICT (pickup_id) DO NOTHING;
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare pickup insert: %w", err)
	}
	defer pickupStmt.Close()

	for _, p := range data.Pickups {
		if _, err := pickupStmt.Exec(
			p.PickupID, p.UserID, p.Area, p.Address, p.EwasteType,
			p.WeightGrams, p.Latitude, p.Longitude,
		); err != nil {
			return fmt.Errorf("seed: insert pickup %q: %w", p.PickupID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}

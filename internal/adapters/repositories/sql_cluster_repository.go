package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/platform/obs"
)

// SQL-backed implementation of the ClusterRepository port. Members and the
// status audit trail live in side tables keyed by (cluster_id, position).
type SQLClusterRepository struct{ DB *sql.DB }

func NewSQLClusterRepository(db *sql.DB) *SQLClusterRepository {
	return &SQLClusterRepository{DB: db}
}

func (s *SQLClusterRepository) InsertCluster(ctx context.Context, c *domain.CollectionCluster) error {
	if s.DB == nil {
		return errors.New("cluster repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert cluster %q: begin tx: %w", c.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO collection_clusters (
		cluster_id, anchor_pickup_id, anchor_lat, anchor_lng,
		total_weight_grams, destination_hub, dist_to_hub_km, radius_used_km,
		status, admin_override, engineer_id, driver_id, inspector_id,
		scheduled_for, estimated_duration_minutes, route_distance_km,
		created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.ExecContext(ctx, query,
		c.ID, c.AnchorPickupID, c.AnchorLocation.Lat, c.AnchorLocation.Lng,
		c.TotalWeightGrams, c.DestinationHub, c.DistToHubKm, c.RadiusUsedKm,
		string(c.Status), c.AdminOverride, c.EngineerID, c.DriverID, c.InspectorID,
		c.ScheduledFor, c.EstimatedDurationMinutes, c.RouteDistanceKm,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cluster %q: %w", c.ID, err)
	}

	if err := replaceMembers(ctx, tx, c); err != nil {
		return fmt.Errorf("insert cluster %q: %w", c.ID, err)
	}
	if err := replaceHistory(ctx, tx, c); err != nil {
		return fmt.Errorf("insert cluster %q: %w", c.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert cluster %q: commit tx: %w", c.ID, err)
	}
	return nil
}

func (s *SQLClusterRepository) GetCluster(ctx context.Context, id string) (*domain.CollectionCluster, error) {
	query := `
	SELECT
		cluster_id, anchor_pickup_id, anchor_lat, anchor_lng,
		total_weight_grams, destination_hub, dist_to_hub_km, radius_used_km,
		status, admin_override, engineer_id, driver_id, inspector_id,
		scheduled_for, estimated_duration_minutes, route_distance_km,
		created_at, updated_at
	FROM collection_clusters
	WHERE cluster_id = $1;
	`
	c, err := scanCluster(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get cluster %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cluster %q: %w", id, err)
	}

	if err := s.loadMembers(ctx, c); err != nil {
		return nil, fmt.Errorf("get cluster %q: %w", id, err)
	}
	if err := s.loadHistory(ctx, c); err != nil {
		return nil, fmt.Errorf("get cluster %q: %w", id, err)
	}
	return c, nil
}

func (s *SQLClusterRepository) ListClusters(ctx context.Context) (_ []*domain.CollectionCluster, err error) {
	defer obs.Time(ctx, "clusters.ListClusters")(&err)

	query := `
	SELECT
		cluster_id, anchor_pickup_id, anchor_lat, anchor_lng,
		total_weight_grams, destination_hub, dist_to_hub_km, radius_used_km,
		status, admin_override, engineer_id, driver_id, inspector_id,
		scheduled_for, estimated_duration_minutes, route_distance_km,
		created_at, updated_at
	FROM collection_clusters
	ORDER BY created_at DESC;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	defer rows.Close()

	clusters := make([]*domain.CollectionCluster, 0, 32)
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, fmt.Errorf("list clusters: scan row: %w", err)
		}
		clusters = append(clusters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clusters: row iteration: %w", err)
	}

	for _, c := range clusters {
		if err := s.loadMembers(ctx, c); err != nil {
			return nil, fmt.Errorf("list clusters: %w", err)
		}
		if err := s.loadHistory(ctx, c); err != nil {
			return nil, fmt.Errorf("list clusters: %w", err)
		}
	}
	return clusters, nil
}

func (s *SQLClusterRepository) UpdateCluster(ctx context.Context, c *domain.CollectionCluster) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update cluster %q: begin tx: %w", c.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	UPDATE collection_clusters
	SET total_weight_grams = $1, destination_hub = $2, dist_to_hub_km = $3,
		status = $4, admin_override = $5,
		engineer_id = $6, driver_id = $7, inspector_id = $8,
		scheduled_for = $9, estimated_duration_minutes = $10,
		route_distance_km = $11, updated_at = $12
	WHERE cluster_id = $13;
	`
	res, err := tx.ExecContext(ctx, query,
		c.TotalWeightGrams, c.DestinationHub, c.DistToHubKm,
		string(c.Status), c.AdminOverride,
		c.EngineerID, c.DriverID, c.InspectorID,
		c.ScheduledFor, c.EstimatedDurationMinutes,
		c.RouteDistanceKm, c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update cluster %q: %w", c.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cluster %q: rows affected: %w", c.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update cluster %q: %w", c.ID, domain.ErrNotFound)
	}

	if err := replaceMembers(ctx, tx, c); err != nil {
		return fmt.Errorf("update cluster %q: %w", c.ID, err)
	}
	if err := replaceHistory(ctx, tx, c); err != nil {
		return fmt.Errorf("update cluster %q: %w", c.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update cluster %q: commit tx: %w", c.ID, err)
	}
	return nil
}

func (s *SQLClusterRepository) ActiveAssignmentCounts(
	ctx context.Context,
	role domain.Role,
	statuses []domain.ClusterStatus,
) (map[string]int, error) {
	column := "engineer_id"
	if role == domain.RoleDriver {
		column = "driver_id"
	}

	raw := make([]string, 0, len(statuses))
	for _, st := range statuses {
		raw = append(raw, string(st))
	}

	query := fmt.Sprintf(`
	SELECT %s, COUNT(*)
	FROM collection_clusters
	WHERE %s <> '' AND status = ANY($1::text[])
	GROUP BY %s;
	`, column, column, column)

	rows, err := s.DB.QueryContext(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("count active assignments for %s: %w", role, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("count active assignments for %s: scan row: %w", role, err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count active assignments for %s: row iteration: %w", role, err)
	}
	return counts, nil
}

func (s *SQLClusterRepository) loadMembers(ctx context.Context, c *domain.CollectionCluster) error {
	query := `
	SELECT pickup_id, weight_grams, distance_from_anchor_km
	FROM cluster_members
	WHERE cluster_id = $1
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query, c.ID)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.ClusterMember
		if err := rows.Scan(&m.PickupID, &m.WeightGrams, &m.DistanceFromAnchorKm); err != nil {
			return fmt.Errorf("load members: scan row: %w", err)
		}
		c.Members = append(c.Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load members: row iteration: %w", err)
	}
	return nil
}

func (s *SQLClusterRepository) loadHistory(ctx context.Context, c *domain.CollectionCluster) error {
	query := `
	SELECT status, changed_at, actor_role
	FROM cluster_status_history
	WHERE cluster_id = $1
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query, c.ID)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h domain.StatusChange
		if err := rows.Scan(&h.Status, &h.At, &h.Actor); err != nil {
			return fmt.Errorf("load history: scan row: %w", err)
		}
		c.History = append(c.History, h)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load history: row iteration: %w", err)
	}
	return nil
}

func replaceMembers(ctx context.Context, tx *sql.Tx, c *domain.CollectionCluster) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cluster_members WHERE cluster_id = $1;`, c.ID); err != nil {
		return fmt.Errorf("clear members: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cluster_members (cluster_id, position, pickup_id, weight_grams, distance_from_anchor_km)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("prepare member insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range c.Members {
		if _, err := stmt.ExecContext(ctx, c.ID, i, m.PickupID, m.WeightGrams, m.DistanceFromAnchorKm); err != nil {
			return fmt.Errorf("insert member %q: %w", m.PickupID, err)
		}
	}
	return nil
}

func replaceHistory(ctx context.Context, tx *sql.Tx, c *domain.CollectionCluster) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM cluster_status_history WHERE cluster_id = $1;`, c.ID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cluster_status_history (cluster_id, position, status, changed_at, actor_role)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for i, h := range c.History {
		if _, err := stmt.ExecContext(ctx, c.ID, i, string(h.Status), h.At, string(h.Actor)); err != nil {
			return fmt.Errorf("insert history entry %d: %w", i, err)
		}
	}
	return nil
}

func scanCluster(row rowScanner) (*domain.CollectionCluster, error) {
	var (
		c            domain.CollectionCluster
		scheduledFor sql.NullTime
	)
	err := row.Scan(
		&c.ID, &c.AnchorPickupID, &c.AnchorLocation.Lat, &c.AnchorLocation.Lng,
		&c.TotalWeightGrams, &c.DestinationHub, &c.DistToHubKm, &c.RadiusUsedKm,
		&c.Status, &c.AdminOverride, &c.EngineerID, &c.DriverID, &c.InspectorID,
		&scheduledFor, &c.EstimatedDurationMinutes, &c.RouteDistanceKm,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if scheduledFor.Valid {
		t := scheduledFor.Time
		c.ScheduledFor = &t
	}
	return &c, nil
}

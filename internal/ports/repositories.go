package ports

import (
	"context"
	"time"

	"ewaste-collection-service/internal/domain"
)

// Port: boundary for pickup request persistence.
type PickupRepository interface {
	// Insert a new pickup request.
	InsertPickup(ctx context.Context, p *domain.PickupRequest) error

	// Retrieve one pickup by id. Missing pickups fail with domain.ErrNotFound.
	GetPickup(ctx context.Context, id string) (*domain.PickupRequest, error)

	// Retrieve pickups filtered by status; an empty status lists everything.
	ListPickups(ctx context.Context, status domain.PickupStatus) ([]*domain.PickupRequest, error)

	// Retrieve all unclustered pickups eligible for cluster formation
	// (pending status, no cluster reference).
	ListUnclustered(ctx context.Context) ([]*domain.PickupRequest, error)

	// Atomically claim a pickup for a cluster: succeeds only if the pickup
	// still has no cluster reference. Returns false when another cluster won
	// the race. This is the conditional write that keeps concurrent sweeps
	// from double-counting a candidate.
	ClaimForCluster(ctx context.Context, pickupID, clusterID string) (bool, error)

	// Set the status of every listed pickup.
	UpdateStatuses(ctx context.Context, pickupIDs []string, status domain.PickupStatus) error

	// Record an engineer inspection result on one pickup.
	RecordInspection(ctx context.Context, pickupID, engineerID string, finalWeightGrams int64, price float64) error

	// Mark a pickup settled: recycled, paid, with the settled amount.
	MarkSettled(ctx context.Context, pickupID string, amount float64) error
}

// Port: boundary for collection cluster persistence.
type ClusterRepository interface {
	// Insert a formed cluster with its members.
	InsertCluster(ctx context.Context, c *domain.CollectionCluster) error

	// Retrieve one cluster by id. Missing clusters fail with domain.ErrNotFound.
	GetCluster(ctx context.Context, id string) (*domain.CollectionCluster, error)

	// Retrieve all clusters.
	ListClusters(ctx context.Context) ([]*domain.CollectionCluster, error)

	// Persist a cluster's mutable fields (status, staff, scheduling, audit).
	UpdateCluster(ctx context.Context, c *domain.CollectionCluster) error

	// Count clusters in the given statuses assigned to each staff member of
	// a role. Used by the recommender as the workload signal.
	ActiveAssignmentCounts(ctx context.Context, role domain.Role, statuses []domain.ClusterStatus) (map[string]int, error)
}

// Port: boundary for user account persistence.
type UserRepository interface {
	// Retrieve one user by id. Missing users fail with domain.ErrNotFound.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// Retrieve all users holding a role.
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)

	// Credit a user's running wallet balance.
	CreditWallet(ctx context.Context, userID string, amount float64) error

	// Idempotently mark all users of the given roles available tomorrow.
	ResetAvailability(ctx context.Context, roles []domain.Role) (int64, error)
}

// Port: boundary for invoice persistence.
type InvoiceRepository interface {
	// Insert settlement invoices. Re-inserting for an already settled
	// (pickup, role) pair must be a no-op so retried settlements stay safe.
	InsertInvoices(ctx context.Context, invoices []*domain.Invoice) error

	// Retrieve invoices linked to a pickup, oldest first.
	ListByPickup(ctx context.Context, pickupID string) ([]*domain.Invoice, error)
}

// Clock abstracts time for deterministic tests.
type Clock func() time.Time

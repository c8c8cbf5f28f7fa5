package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ewaste-collection-service/internal/domain"
)

// In-memory implementations of the repository ports, used as substitutes in
// tests. Claim semantics mirror the SQL adapters: a pickup can be claimed
// for exactly one cluster.

type MemoryPickupRepository struct {
	mu      sync.Mutex
	pickups map[string]*domain.PickupRequest
}

func NewMemoryPickupRepository() *MemoryPickupRepository {
	return &MemoryPickupRepository{pickups: make(map[string]*domain.PickupRequest)}
}

func (m *MemoryPickupRepository) InsertPickup(ctx context.Context, p *domain.PickupRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pickups[p.ID]; ok {
		return fmt.Errorf("insert pickup %q: duplicate id", p.ID)
	}
	cp := *p
	m.pickups[p.ID] = &cp
	return nil
}

func (m *MemoryPickupRepository) GetPickup(ctx context.Context, id string) (*domain.PickupRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pickups[id]
	if !ok {
		return nil, fmt.Errorf("get pickup %q: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryPickupRepository) ListPickups(ctx context.Context, status domain.PickupStatus) ([]*domain.PickupRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.PickupRequest, 0, len(m.pickups))
	for _, p := range m.pickups {
		if status == "" || p.Status == status {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryPickupRepository) ListUnclustered(ctx context.Context) ([]*domain.PickupRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.PickupRequest, 0, len(m.pickups))
	for _, p := range m.pickups {
		if p.Status == domain.PickupPending && p.ClusterID == "" {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryPickupRepository) ClaimForCluster(ctx context.Context, pickupID, clusterID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pickups[pickupID]
	if !ok {
		return false, fmt.Errorf("claim pickup %q: %w", pickupID, domain.ErrNotFound)
	}
	if p.ClusterID != "" || p.Status != domain.PickupPending {
		return false, nil
	}
	p.ClusterID = clusterID
	return true, nil
}

func (m *MemoryPickupRepository) UpdateStatuses(ctx context.Context, pickupIDs []string, status domain.PickupStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range pickupIDs {
		if p, ok := m.pickups[id]; ok {
			p.Status = status
		}
	}
	return nil
}

func (m *MemoryPickupRepository) RecordInspection(ctx context.Context, pickupID, engineerID string, finalWeightGrams int64, price float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pickups[pickupID]
	if !ok {
		return fmt.Errorf("record inspection for pickup %q: %w", pickupID, domain.ErrNotFound)
	}
	p.EngineerID = engineerID
	p.FinalWeightGrams = &finalWeightGrams
	p.EngineerPrice = &price
	p.Status = domain.PickupCollected
	return nil
}

func (m *MemoryPickupRepository) MarkSettled(ctx context.Context, pickupID string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pickups[pickupID]
	if !ok {
		return fmt.Errorf("mark pickup %q settled: %w", pickupID, domain.ErrNotFound)
	}
	p.Status = domain.PickupRecycled
	p.PaymentStatus = domain.PaymentPaid
	p.PaidAmount = amount
	return nil
}

type MemoryClusterRepository struct {
	mu       sync.Mutex
	clusters map[string]*domain.CollectionCluster
}

func NewMemoryClusterRepository() *MemoryClusterRepository {
	return &MemoryClusterRepository{clusters: make(map[string]*domain.CollectionCluster)}
}

func (m *MemoryClusterRepository) InsertCluster(ctx context.Context, c *domain.CollectionCluster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clusters[c.ID]; ok {
		return fmt.Errorf("insert cluster %q: duplicate id", c.ID)
	}
	m.clusters[c.ID] = copyCluster(c)
	return nil
}

func (m *MemoryClusterRepository) GetCluster(ctx context.Context, id string) (*domain.CollectionCluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clusters[id]
	if !ok {
		return nil, fmt.Errorf("get cluster %q: %w", id, domain.ErrNotFound)
	}
	return copyCluster(c), nil
}

func (m *MemoryClusterRepository) ListClusters(ctx context.Context) ([]*domain.CollectionCluster, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.CollectionCluster, 0, len(m.clusters))
	for _, c := range m.clusters {
		out = append(out, copyCluster(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryClusterRepository) UpdateCluster(ctx context.Context, c *domain.CollectionCluster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clusters[c.ID]; !ok {
		return fmt.Errorf("update cluster %q: %w", c.ID, domain.ErrNotFound)
	}
	m.clusters[c.ID] = copyCluster(c)
	return nil
}

func (m *MemoryClusterRepository) ActiveAssignmentCounts(
	ctx context.Context,
	role domain.Role,
	statuses []domain.ClusterStatus,
) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := make(map[domain.ClusterStatus]bool, len(statuses))
	for _, st := range statuses {
		active[st] = true
	}

	counts := make(map[string]int)
	for _, c := range m.clusters {
		if !active[c.Status] {
			continue
		}
		id := c.EngineerID
		if role == domain.RoleDriver {
			id = c.DriverID
		}
		if id != "" {
			counts[id]++
		}
	}
	return counts, nil
}

func copyCluster(c *domain.CollectionCluster) *domain.CollectionCluster {
	cp := *c
	cp.Members = append([]domain.ClusterMember(nil), c.Members...)
	cp.History = append([]domain.StatusChange(nil), c.History...)
	return &cp
}

type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*domain.User)}
}

// AddUser seeds an account. Test helper, not part of the port.
func (m *MemoryUserRepository) AddUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
}

func (m *MemoryUserRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user %q: %w", id, domain.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		if u.Role == role {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryUserRepository) CreditWallet(ctx context.Context, userID string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return fmt.Errorf("credit wallet %q: %w", userID, domain.ErrNotFound)
	}
	u.WalletBalance += amount
	return nil
}

func (m *MemoryUserRepository) ResetAvailability(ctx context.Context, roles []domain.Role) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	match := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		match[r] = true
	}

	var n int64
	for _, u := range m.users {
		if match[u.Role] {
			t := true
			u.AvailableTomorrow = &t
			n++
		}
	}
	return n, nil
}

type MemoryInvoiceRepository struct {
	mu       sync.Mutex
	invoices []*domain.Invoice
	settled  map[string]bool // pickup_id|role
}

func NewMemoryInvoiceRepository() *MemoryInvoiceRepository {
	return &MemoryInvoiceRepository{settled: make(map[string]bool)}
}

func (m *MemoryInvoiceRepository) InsertInvoices(ctx context.Context, invoices []*domain.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range invoices {
		key := inv.PickupID + "|" + string(inv.RecipientRole)
		if m.settled[key] {
			continue
		}
		m.settled[key] = true
		cp := *inv
		m.invoices = append(m.invoices, &cp)
	}
	return nil
}

func (m *MemoryInvoiceRepository) ListByPickup(ctx context.Context, pickupID string) ([]*domain.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Invoice, 0, 4)
	for _, inv := range m.invoices {
		if inv.PickupID == pickupID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

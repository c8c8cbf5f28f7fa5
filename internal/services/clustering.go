package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"

	"github.com/google/uuid"
)

// ClusterConfig carries the tunable constants of cluster formation.
// The two radii are deliberate: submission-time formation keeps batches
// tight, the warehouse batch sweep accepts a looser spread.
type ClusterConfig struct {
	SubmitRadiusKm       float64
	BatchRadiusKm        float64
	ReadyFloorGrams      int64
	AlmostReadyRatio     float64
	MaxWeightGrams       int64
	MinViableWeightGrams int64
	Hubs                 []domain.Hub
}

// DefaultClusterConfig returns the production constants: 15 km / 100 km
// radii, a 100 kg ready floor with a 70% almost-ready band, and a 150 kg
// per-cluster cap.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		SubmitRadiusKm:       15,
		BatchRadiusKm:        100,
		ReadyFloorGrams:      100_000,
		AlmostReadyRatio:     0.70,
		MaxWeightGrams:       150_000,
		MinViableWeightGrams: 100_000,
		Hubs:                 domain.DefaultHubs,
	}
}

// Clusterer groups unclustered pickup requests into collection clusters
// using greedy anchor expansion.
//
// The heaviest-first ordering is a heuristic that saturates capacity fastest,
// not an optimality guarantee; callers should rely on the invariants (weight
// sum, radius bound, single membership) rather than a specific partition.
type Clusterer struct {
	Pickups  ports.PickupRepository
	Clusters ports.ClusterRepository
	Config   ClusterConfig
	Now      ports.Clock
}

func NewClusterer(pickups ports.PickupRepository, clusters ports.ClusterRepository, cfg ClusterConfig) *Clusterer {
	return &Clusterer{Pickups: pickups, Clusters: clusters, Config: cfg, Now: time.Now}
}

// FormClusterForPickup attempts immediate cluster formation around a newly
// submitted pickup, scanning existing unclustered requests as joiners within
// the tight submission radius.
//
// A pickup without coordinates is never auto-clustered and stays pending; in
// that case (nil, nil) is returned. A lost claim race also yields (nil, nil).
func (c *Clusterer) FormClusterForPickup(ctx context.Context, pickupID string) (*domain.CollectionCluster, error) {
	anchor, err := c.Pickups.GetPickup(ctx, pickupID)
	if err != nil {
		return nil, fmt.Errorf("form cluster: get pickup %q: %w", pickupID, err)
	}
	if anchor.Location == nil || anchor.ClusterID != "" || anchor.Status != domain.PickupPending {
		return nil, nil
	}

	pool, err := c.candidatePool(ctx)
	if err != nil {
		return nil, fmt.Errorf("form cluster: %w", err)
	}

	cluster, err := c.grow(ctx, anchor, pool, c.Config.SubmitRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("form cluster: %w", err)
	}
	return cluster, nil
}

// AnalyzeRoutes is the batch sweep: it partitions all currently unclustered
// pickups into clusters using the looser batch radius, repeating anchor
// expansion until no candidates remain.
func (c *Clusterer) AnalyzeRoutes(ctx context.Context) ([]*domain.CollectionCluster, error) {
	pool, err := c.candidatePool(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyze routes: %w", err)
	}

	clusters := make([]*domain.CollectionCluster, 0, len(pool))
	used := make(map[string]bool, len(pool))

	for _, anchor := range pool {
		if used[anchor.ID] {
			continue
		}
		used[anchor.ID] = true

		remaining := make([]*domain.PickupRequest, 0, len(pool))
		for _, p := range pool {
			if !used[p.ID] {
				remaining = append(remaining, p)
			}
		}

		cluster, err := c.grow(ctx, anchor, remaining, c.Config.BatchRadiusKm)
		if err != nil {
			return nil, fmt.Errorf("analyze routes: anchor %q: %w", anchor.ID, err)
		}
		if cluster == nil {
			continue
		}
		for _, id := range cluster.MemberIDs() {
			used[id] = true
		}
		clusters = append(clusters, cluster)
	}

	return clusters, nil
}

// candidatePool lists unclustered pickups with known coordinates, ordered by
// descending declared weight (id ascending as the deterministic tie-break).
func (c *Clusterer) candidatePool(ctx context.Context) ([]*domain.PickupRequest, error) {
	unclustered, err := c.Pickups.ListUnclustered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unclustered pickups: %w", err)
	}

	pool := make([]*domain.PickupRequest, 0, len(unclustered))
	for _, p := range unclustered {
		if p.Location != nil {
			pool = append(pool, p)
		}
	}

	slices.SortFunc(pool, func(a, b *domain.PickupRequest) int {
		if a.WeightGrams != b.WeightGrams {
			if a.WeightGrams > b.WeightGrams {
				return -1
			}
			return 1
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	return pool, nil
}

// grow is the shared grouping rule behind both entry points: claim the
// anchor, expand with in-radius candidates while the weight cap holds,
// classify by total weight, bind the nearest hub, persist.
func (c *Clusterer) grow(
	ctx context.Context,
	anchor *domain.PickupRequest,
	pool []*domain.PickupRequest,
	radiusKm float64,
) (*domain.CollectionCluster, error) {
	now := c.Now()
	clusterID := uuid.NewString()

	claimed, err := c.Pickups.ClaimForCluster(ctx, anchor.ID, clusterID)
	if err != nil {
		return nil, fmt.Errorf("claim anchor %q: %w", anchor.ID, err)
	}
	if !claimed {
		return nil, nil
	}

	cluster := &domain.CollectionCluster{
		ID:             clusterID,
		AnchorPickupID: anchor.ID,
		AnchorLocation: *anchor.Location,
		RadiusUsedKm:   radiusKm,
		Status:         domain.ClusterPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	cluster.AddMember(domain.ClusterMember{
		PickupID:             anchor.ID,
		WeightGrams:          anchor.WeightGrams,
		DistanceFromAnchorKm: 0,
	})

	for _, cand := range pool {
		if cand.ID == anchor.ID || cand.Location == nil {
			continue
		}
		if cluster.TotalWeightGrams >= c.Config.MinViableWeightGrams {
			break
		}
		dist := anchor.Location.DistanceKm(*cand.Location)
		if dist > radiusKm {
			continue
		}
		if cluster.TotalWeightGrams+cand.WeightGrams > c.Config.MaxWeightGrams {
			continue
		}

		claimed, err := c.Pickups.ClaimForCluster(ctx, cand.ID, clusterID)
		if err != nil {
			return nil, fmt.Errorf("claim candidate %q: %w", cand.ID, err)
		}
		if !claimed {
			continue
		}
		cluster.AddMember(domain.ClusterMember{
			PickupID:             cand.ID,
			WeightGrams:          cand.WeightGrams,
			DistanceFromAnchorKm: dist,
		})
	}

	cluster.Status = c.classify(cluster.TotalWeightGrams)

	hub, distKm, err := domain.NearestHub(c.Config.Hubs, cluster.AnchorLocation)
	if err != nil {
		return nil, fmt.Errorf("select hub: %w", err)
	}
	cluster.DestinationHub = hub.Name
	cluster.DistToHubKm = distKm

	if err := c.Clusters.InsertCluster(ctx, cluster); err != nil {
		return nil, fmt.Errorf("insert cluster: %w", err)
	}
	if err := c.Pickups.UpdateStatuses(ctx, cluster.MemberIDs(), domain.PickupClustered); err != nil {
		return nil, fmt.Errorf("mark members clustered: %w", err)
	}

	return cluster, nil
}

// classify maps total weight onto the weight-driven status band.
func (c *Clusterer) classify(totalGrams int64) domain.ClusterStatus {
	switch {
	case totalGrams >= c.Config.ReadyFloorGrams:
		return domain.ClusterReady
	case float64(totalGrams) >= c.Config.AlmostReadyRatio*float64(c.Config.ReadyFloorGrams):
		return domain.ClusterAlmostReady
	default:
		return domain.ClusterPending
	}
}

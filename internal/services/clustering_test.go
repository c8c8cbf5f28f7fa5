package services

import (
	"context"
	"testing"
	"time"

	"ewaste-collection-service/internal/adapters/repositories"
	"ewaste-collection-service/internal/domain"
)

func testClusterer(t *testing.T) (*Clusterer, *repositories.MemoryPickupRepository, *repositories.MemoryClusterRepository) {
	t.Helper()
	pickups := repositories.NewMemoryPickupRepository()
	clusters := repositories.NewMemoryClusterRepository()
	return NewClusterer(pickups, clusters, DefaultClusterConfig()), pickups, clusters
}

func addPickup(t *testing.T, repo *repositories.MemoryPickupRepository, id string, grams int64, lat, lng float64) {
	t.Helper()
	loc := domain.Coordinates{Lat: lat, Lng: lng}
	p := &domain.PickupRequest{
		ID:            id,
		UserID:        "user-" + id,
		EwasteType:    "Laptop",
		WeightGrams:   grams,
		Location:      &loc,
		Status:        domain.PickupPending,
		PaymentStatus: domain.PaymentUnpaid,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := repo.InsertPickup(context.Background(), p); err != nil {
		t.Fatalf("insert pickup %s: %v", id, err)
	}
}

func TestFormClusterSinglePickupStaysPending(t *testing.T) {
	c, pickups, _ := testClusterer(t)
	addPickup(t, pickups, "p1", 60_000, 19.2301, 72.8502)

	cluster, err := c.FormClusterForPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cluster == nil {
		t.Fatal("expected a cluster")
	}

	if cluster.Status != domain.ClusterPending {
		t.Fatalf("status = %s, want pending (60 kg is below the 70%% band)", cluster.Status)
	}
	if len(cluster.Members) != 1 || cluster.TotalWeightGrams != 60_000 {
		t.Fatalf("members = %d weight = %d, want 1 member at 60000 g", len(cluster.Members), cluster.TotalWeightGrams)
	}
	if cluster.DestinationHub == "" || cluster.DistToHubKm <= 0 {
		t.Fatalf("hub binding missing: hub=%q dist=%v", cluster.DestinationHub, cluster.DistToHubKm)
	}

	p, err := pickups.GetPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get pickup: %v", err)
	}
	if p.Status != domain.PickupClustered || p.ClusterID != cluster.ID {
		t.Fatalf("pickup not linked: status=%s cluster=%q", p.Status, p.ClusterID)
	}
}

func TestFormClusterJoinsNearbyPickupAndReachesReady(t *testing.T) {
	c, pickups, _ := testClusterer(t)
	// Borivali and Kandivali are a few kilometers apart, well inside 15 km.
	addPickup(t, pickups, "p1", 45_000, 19.2041, 72.8691)
	addPickup(t, pickups, "p2", 60_000, 19.2301, 72.8502)

	cluster, err := c.FormClusterForPickup(context.Background(), "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cluster.Members) != 2 {
		t.Fatalf("members = %d, want 2", len(cluster.Members))
	}
	if cluster.TotalWeightGrams != 105_000 {
		t.Fatalf("total weight = %d, want 105000", cluster.TotalWeightGrams)
	}
	if cluster.Status != domain.ClusterReady {
		t.Fatalf("status = %s, want ready (105 kg over the 100 kg floor)", cluster.Status)
	}

	var sum int64
	for _, m := range cluster.Members {
		sum += m.WeightGrams
		if m.DistanceFromAnchorKm > cluster.RadiusUsedKm {
			t.Fatalf("member %s at %v km exceeds radius %v km", m.PickupID, m.DistanceFromAnchorKm, cluster.RadiusUsedKm)
		}
	}
	if sum != cluster.TotalWeightGrams {
		t.Fatalf("member weight sum %d != total %d", sum, cluster.TotalWeightGrams)
	}
}

func TestFormClusterAlmostReadyBand(t *testing.T) {
	c, pickups, _ := testClusterer(t)
	addPickup(t, pickups, "p1", 75_000, 19.2301, 72.8502)

	cluster, err := c.FormClusterForPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cluster.Status != domain.ClusterAlmostReady {
		t.Fatalf("status = %s, want almost_ready (75 kg is 75%% of the floor)", cluster.Status)
	}
}

func TestFormClusterIgnoresPickupsOutsideRadius(t *testing.T) {
	c, pickups, _ := testClusterer(t)
	// Colaba is ~36 km from Borivali, outside the 15 km submission radius.
	addPickup(t, pickups, "far", 45_000, 18.9101, 72.8156)
	addPickup(t, pickups, "p1", 60_000, 19.2301, 72.8502)

	cluster, err := c.FormClusterForPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cluster.Members) != 1 {
		t.Fatalf("members = %d, want only the anchor", len(cluster.Members))
	}

	far, err := pickups.GetPickup(context.Background(), "far")
	if err != nil {
		t.Fatalf("get pickup: %v", err)
	}
	if far.ClusterID != "" || far.Status != domain.PickupPending {
		t.Fatalf("distant pickup was claimed: status=%s cluster=%q", far.Status, far.ClusterID)
	}
}

func TestFormClusterRespectsWeightCap(t *testing.T) {
	c, pickups, _ := testClusterer(t)
	addPickup(t, pickups, "p1", 90_000, 19.2301, 72.8502)
	// Joining this one would push the batch to 185 kg, over the 150 kg cap.
	addPickup(t, pickups, "p2", 95_000, 19.2310, 72.8510)
	// This one fits.
	addPickup(t, pickups, "p3", 20_000, 19.2320, 72.8520)

	cluster, err := c.FormClusterForPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cluster.TotalWeightGrams > 150_000 {
		t.Fatalf("total weight %d exceeds the 150 kg cap", cluster.TotalWeightGrams)
	}
	for _, m := range cluster.Members {
		if m.PickupID == "p2" {
			t.Fatal("p2 joined despite exceeding the cap")
		}
	}
}

func TestFormClusterWithoutCoordinatesDoesNothing(t *testing.T) {
	c, pickups, clusters := testClusterer(t)
	p := &domain.PickupRequest{
		ID:          "p1",
		UserID:      "u1",
		WeightGrams: 60_000,
		Status:      domain.PickupPending,
	}
	if err := pickups.InsertPickup(context.Background(), p); err != nil {
		t.Fatalf("insert pickup: %v", err)
	}

	cluster, err := c.FormClusterForPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cluster != nil {
		t.Fatal("pickup without coordinates must not be auto-clustered")
	}

	all, err := clusters.ListClusters(context.Background())
	if err != nil {
		t.Fatalf("list clusters: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("clusters = %d, want 0", len(all))
	}
}

func TestFormClusterIsIdempotentForClusteredPickup(t *testing.T) {
	c, pickups, clusters := testClusterer(t)
	addPickup(t, pickups, "p1", 60_000, 19.2301, 72.8502)

	first, err := c.FormClusterForPickup(context.Background(), "p1")
	if err != nil || first == nil {
		t.Fatalf("first formation: cluster=%v err=%v", first, err)
	}

	second, err := c.FormClusterForPickup(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != nil {
		t.Fatal("already clustered pickup must not form a second cluster")
	}

	all, err := clusters.ListClusters(context.Background())
	if err != nil {
		t.Fatalf("list clusters: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("clusters = %d, want 1", len(all))
	}
}

func TestAnalyzeRoutesPartitionsAllPickupsOnce(t *testing.T) {
	c, pickups, _ := testClusterer(t)
	// Two northern pickups close together and one in Colaba: the batch
	// radius (100 km) spans all of Mumbai, so a single cluster forms
	// around the heaviest anchor.
	addPickup(t, pickups, "north-1", 60_000, 19.2301, 72.8502)
	addPickup(t, pickups, "north-2", 45_000, 19.2041, 72.8691)
	addPickup(t, pickups, "south-1", 55_000, 18.9101, 72.8156)

	clusters, err := c.AnalyzeRoutes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]int)
	for _, cl := range clusters {
		var sum int64
		for _, m := range cl.Members {
			seen[m.PickupID]++
			sum += m.WeightGrams
		}
		if sum != cl.TotalWeightGrams {
			t.Fatalf("cluster %s weight sum %d != total %d", cl.ID, sum, cl.TotalWeightGrams)
		}
	}

	for _, id := range []string{"north-1", "north-2", "south-1"} {
		if seen[id] != 1 {
			t.Fatalf("pickup %s appears in %d clusters, want exactly 1", id, seen[id])
		}
	}

	again, err := c.AnalyzeRoutes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second sweep formed %d clusters, want 0", len(again))
	}
}

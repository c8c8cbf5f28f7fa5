package services

import (
	"context"
	"fmt"
	"testing"

	"ewaste-collection-service/internal/adapters/repositories"
	"ewaste-collection-service/internal/domain"
)

func TestRankCandidatesAvailabilityThenLoad(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	clusters := repositories.NewMemoryClusterRepository()

	f := false
	users.AddUser(&domain.User{ID: "eng-busy", Name: "Busy", Role: domain.RoleEngineer})
	users.AddUser(&domain.User{ID: "eng-free", Name: "Free", Role: domain.RoleEngineer})
	users.AddUser(&domain.User{ID: "eng-off", Name: "Off", Role: domain.RoleEngineer, AvailableTomorrow: &f})

	// Two active clusters for eng-busy, one delivered (inactive) for eng-free.
	for i, st := range []domain.ClusterStatus{domain.ClusterAssigned, domain.ClusterInProgress} {
		c := &domain.CollectionCluster{
			ID:         fmt.Sprintf("busy-%d", i),
			Status:     st,
			EngineerID: "eng-busy",
		}
		if err := clusters.InsertCluster(context.Background(), c); err != nil {
			t.Fatalf("insert cluster: %v", err)
		}
	}
	done := &domain.CollectionCluster{ID: "done", Status: domain.ClusterDelivered, EngineerID: "eng-free"}
	if err := clusters.InsertCluster(context.Background(), done); err != nil {
		t.Fatalf("insert cluster: %v", err)
	}

	rec, err := NewRecommender(users, clusters).RankCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.Engineers) != 3 {
		t.Fatalf("engineers = %d, want 3", len(rec.Engineers))
	}
	order := []string{rec.Engineers[0].User.ID, rec.Engineers[1].User.ID, rec.Engineers[2].User.ID}
	if order[0] != "eng-free" || order[1] != "eng-busy" || order[2] != "eng-off" {
		t.Fatalf("ranking = %v, want [eng-free eng-busy eng-off]", order)
	}

	if rec.Engineers[0].ActiveCount != 0 {
		t.Fatalf("eng-free active count = %d, want 0 (delivered clusters are inactive)", rec.Engineers[0].ActiveCount)
	}
	if rec.Engineers[1].ActiveCount != 2 {
		t.Fatalf("eng-busy active count = %d, want 2", rec.Engineers[1].ActiveCount)
	}
	if rec.Engineers[2].Available {
		t.Fatal("eng-off should rank as unavailable")
	}
}

func TestRankCandidatesCapsAtFive(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	clusters := repositories.NewMemoryClusterRepository()

	for i := 0; i < 8; i++ {
		users.AddUser(&domain.User{
			ID:   fmt.Sprintf("drv-%d", i),
			Name: fmt.Sprintf("Driver %d", i),
			Role: domain.RoleDriver,
		})
	}

	rec, err := NewRecommender(users, clusters).RankCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Drivers) != 5 {
		t.Fatalf("drivers = %d, want cap of 5", len(rec.Drivers))
	}
}

func TestRankCandidatesSeparatesRoles(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	clusters := repositories.NewMemoryClusterRepository()

	users.AddUser(&domain.User{ID: "eng1", Name: "Kiran", Role: domain.RoleEngineer})
	users.AddUser(&domain.User{ID: "drv1", Name: "Mohan", Role: domain.RoleDriver})

	rec, err := NewRecommender(users, clusters).RankCandidates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Engineers) != 1 || rec.Engineers[0].User.ID != "eng1" {
		t.Fatalf("engineers = %+v, want only eng1", rec.Engineers)
	}
	if len(rec.Drivers) != 1 || rec.Drivers[0].User.ID != "drv1" {
		t.Fatalf("drivers = %+v, want only drv1", rec.Drivers)
	}
}

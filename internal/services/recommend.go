package services

import (
	"context"
	"fmt"
	"slices"

	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"
)

// recommendLimit caps how many candidates per role are surfaced.
const recommendLimit = 5

// activeStatuses are the cluster statuses that count toward a staff
// member's current workload.
var activeStatuses = []domain.ClusterStatus{
	domain.ClusterAssigned,
	domain.ClusterInProgress,
	domain.ClusterScheduled,
}

// Candidate is one ranked staff member.
type Candidate struct {
	User        *domain.User
	Available   bool
	ActiveCount int
}

// Recommendation holds ranked engineers and drivers for a cluster needing
// staff. Index 0 of each slice is the default pre-selection.
type Recommendation struct {
	Engineers []Candidate
	Drivers   []Candidate
}

// Recommender ranks available engineers and drivers by workload.
// Pure ranking, no side effects; the staff binding itself is Lifecycle's
// AssignStaff write.
type Recommender struct {
	Users    ports.UserRepository
	Clusters ports.ClusterRepository
}

func NewRecommender(users ports.UserRepository, clusters ports.ClusterRepository) *Recommender {
	return &Recommender{Users: users, Clusters: clusters}
}

// RankCandidates returns the top candidates per role: available staff
// first, then ascending active cluster count, capped at five per role.
func (r *Recommender) RankCandidates(ctx context.Context) (*Recommendation, error) {
	engineers, err := r.rankRole(ctx, domain.RoleEngineer)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	drivers, err := r.rankRole(ctx, domain.RoleDriver)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	return &Recommendation{Engineers: engineers, Drivers: drivers}, nil
}

func (r *Recommender) rankRole(ctx context.Context, role domain.Role) ([]Candidate, error) {
	users, err := r.Users.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list %s users: %w", role, err)
	}

	counts, err := r.Clusters.ActiveAssignmentCounts(ctx, role, activeStatuses)
	if err != nil {
		return nil, fmt.Errorf("count active %s assignments: %w", role, err)
	}

	candidates := make([]Candidate, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, Candidate{
			User:        u,
			Available:   u.IsAvailableTomorrow(),
			ActiveCount: counts[u.ID],
		})
	}

	// Available staff sort before unavailable; within each availability
	// group the less loaded sort first. Name is the deterministic tie-break.
	slices.SortFunc(candidates, func(a, b Candidate) int {
		if a.Available != b.Available {
			if a.Available {
				return -1
			}
			return 1
		}
		if a.ActiveCount != b.ActiveCount {
			return a.ActiveCount - b.ActiveCount
		}
		if a.User.Name < b.User.Name {
			return -1
		}
		if a.User.Name > b.User.Name {
			return 1
		}
		return 0
	})

	if len(candidates) > recommendLimit {
		candidates = candidates[:recommendLimit]
	}
	return candidates, nil
}

package domain

import (
	"fmt"
	"time"
)

// Collection cluster status lifecycle.
type ClusterStatus string

const (
	ClusterPending        ClusterStatus = "pending"
	ClusterAlmostReady    ClusterStatus = "almost_ready"
	ClusterReady          ClusterStatus = "ready"
	ClusterAssigned       ClusterStatus = "assigned"
	ClusterScheduled      ClusterStatus = "scheduled"
	ClusterInProgress     ClusterStatus = "in_progress"
	ClusterOutForDelivery ClusterStatus = "out_for_delivery"
	ClusterDelivered      ClusterStatus = "delivered"
	ClusterCompleted      ClusterStatus = "completed"
)

// clusterTransitions is the closed set of valid forward transitions.
// The almost_ready -> ready edge is the administrative force-promotion and
// is recorded with the AdminOverride flag when taken by a warehouse actor.
var clusterTransitions = map[ClusterStatus][]ClusterStatus{
	ClusterPending:        {ClusterAlmostReady, ClusterReady},
	ClusterAlmostReady:    {ClusterReady, ClusterAssigned},
	ClusterReady:          {ClusterAssigned},
	ClusterAssigned:       {ClusterScheduled},
	ClusterScheduled:      {ClusterInProgress, ClusterOutForDelivery},
	ClusterInProgress:     {ClusterOutForDelivery},
	ClusterOutForDelivery: {ClusterDelivered},
	ClusterDelivered:      {ClusterCompleted},
}

// CanTransition reports whether moving from -> to is a valid lifecycle step.
func CanTransition(from, to ClusterStatus) bool {
	for _, next := range clusterTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a cluster status admits no further transitions.
func (s ClusterStatus) IsTerminal() bool {
	return len(clusterTransitions[s]) == 0
}

// memberStatusFor maps a cluster transition onto the linked status applied to
// every member pickup. Statuses without an entry leave members untouched.
var memberStatusFor = map[ClusterStatus]PickupStatus{
	ClusterAssigned:  PickupAssigned,
	ClusterScheduled: PickupScheduled,
	ClusterDelivered: PickupCollected,
	ClusterCompleted: PickupCollected,
}

// MemberStatusFor returns the pickup status propagated to members when a
// cluster enters the given status, if any.
func MemberStatusFor(s ClusterStatus) (PickupStatus, bool) {
	ps, ok := memberStatusFor[s]
	return ps, ok
}

// ClusterMember records one pickup's participation in a cluster: the pickup
// reference, its weight at formation time, and its distance from the anchor.
type ClusterMember struct {
	PickupID             string
	WeightGrams          int64
	DistanceFromAnchorKm float64
}

// StatusChange is one audit-trail entry on a cluster.
type StatusChange struct {
	Status ClusterStatus
	At     time.Time
	Actor  Role
}

// CollectionCluster is a batch of pickup requests grouped for combined
// collection and delivery to a single hub.
//
// Invariant: TotalWeightGrams equals the sum of member weights, and every
// member pickup references this cluster and no other. Clusters are never
// deleted; they end in a terminal status.
type CollectionCluster struct {
	ID                       string
	AnchorPickupID           string
	AnchorLocation           Coordinates
	Members                  []ClusterMember
	TotalWeightGrams         int64
	DestinationHub           string
	DistToHubKm              float64
	RadiusUsedKm             float64
	Status                   ClusterStatus
	AdminOverride            bool
	EngineerID               string
	DriverID                 string
	InspectorID              string
	ScheduledFor             *time.Time
	EstimatedDurationMinutes int
	RouteDistanceKm          float64
	History                  []StatusChange
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// AddMember appends a member and keeps the aggregate weight in sync.
func (c *CollectionCluster) AddMember(m ClusterMember) {
	c.Members = append(c.Members, m)
	c.TotalWeightGrams += m.WeightGrams
}

// MemberIDs returns the pickup ids of all members in formation order.
func (c *CollectionCluster) MemberIDs() []string {
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		ids = append(ids, m.PickupID)
	}
	return ids
}

// Transition applies a validated status change and appends an audit entry.
func (c *CollectionCluster) Transition(to ClusterStatus, actor Role, at time.Time) error {
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("%w: cluster status %q cannot move to %q", ErrValidation, c.Status, to)
	}
	c.Status = to
	c.UpdatedAt = at
	c.History = append(c.History, StatusChange{Status: to, At: at, Actor: actor})
	return nil
}

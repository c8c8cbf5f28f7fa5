package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"
)

// Lifecycle drives cluster status transitions: authority checks, audit
// trail, member status propagation and best-effort notification fan-out.
type Lifecycle struct {
	Clusters ports.ClusterRepository
	Pickups  ports.PickupRepository
	Users    ports.UserRepository
	Notifier ports.Notifier
	Hubs     []domain.Hub
	Now      ports.Clock
}

func NewLifecycle(
	clusters ports.ClusterRepository,
	pickups ports.PickupRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	hubs []domain.Hub,
) *Lifecycle {
	return &Lifecycle{
		Clusters: clusters,
		Pickups:  pickups,
		Users:    users,
		Notifier: notifier,
		Hubs:     hubs,
		Now:      time.Now,
	}
}

// TransitionCluster applies one validated lifecycle step on behalf of actor.
//
// The status write and audit entry are the transaction; member propagation
// follows, and notification failures are isolated per recipient and never
// abort the update.
func (l *Lifecycle) TransitionCluster(
	ctx context.Context,
	actor domain.Actor,
	clusterID string,
	to domain.ClusterStatus,
) (*domain.CollectionCluster, error) {
	cluster, err := l.Clusters.GetCluster(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("transition cluster %q: %w", clusterID, err)
	}

	if !actor.Role.CanTransitionCluster(to) {
		return nil, fmt.Errorf(
			"%w: role %q may not move cluster %q to %q",
			domain.ErrUnauthorized, actor.Role, clusterID, to,
		)
	}

	from := cluster.Status
	if err := cluster.Transition(to, actor.Role, l.Now()); err != nil {
		return nil, fmt.Errorf("transition cluster %q: %w", clusterID, err)
	}

	// Force-promotion out of almost_ready is recorded distinctly from the
	// automatic weight-driven transition.
	if from == domain.ClusterAlmostReady && to == domain.ClusterReady && actor.Role == domain.RoleWarehouse {
		cluster.AdminOverride = true
	}

	if err := l.Clusters.UpdateCluster(ctx, cluster); err != nil {
		return nil, fmt.Errorf("transition cluster %q: persist: %w", clusterID, err)
	}

	if memberStatus, ok := domain.MemberStatusFor(to); ok {
		if err := l.Pickups.UpdateStatuses(ctx, cluster.MemberIDs(), memberStatus); err != nil {
			return nil, fmt.Errorf("transition cluster %q: propagate member status: %w", clusterID, err)
		}
	}

	l.fanOut(ctx, cluster, to)

	return cluster, nil
}

// AssignStaff binds an engineer and driver to a cluster and moves it to
// assigned. When hubName is set the destination hub is re-chosen explicitly
// and the hub distance recomputed.
func (l *Lifecycle) AssignStaff(
	ctx context.Context,
	actor domain.Actor,
	clusterID, engineerID, driverID, hubName string,
) (*domain.CollectionCluster, error) {
	if !actor.Role.CanAssignStaff() {
		return nil, fmt.Errorf("%w: role %q may not assign staff", domain.ErrUnauthorized, actor.Role)
	}
	if engineerID == "" && driverID == "" {
		return nil, fmt.Errorf("%w: assignment needs an engineer or a driver", domain.ErrValidation)
	}

	cluster, err := l.Clusters.GetCluster(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("assign staff: cluster %q: %w", clusterID, err)
	}

	if engineerID != "" {
		if err := l.requireRole(ctx, engineerID, domain.RoleEngineer); err != nil {
			return nil, fmt.Errorf("assign staff: %w", err)
		}
		cluster.EngineerID = engineerID
	}
	if driverID != "" {
		if err := l.requireRole(ctx, driverID, domain.RoleDriver); err != nil {
			return nil, fmt.Errorf("assign staff: %w", err)
		}
		cluster.DriverID = driverID
	}

	if hubName != "" {
		hub, ok := domain.HubByName(l.Hubs, hubName)
		if !ok {
			return nil, fmt.Errorf("%w: unknown hub %q", domain.ErrValidation, hubName)
		}
		cluster.DestinationHub = hub.Name
		cluster.DistToHubKm = cluster.AnchorLocation.DistanceKm(hub.Location)
	}

	if err := cluster.Transition(domain.ClusterAssigned, actor.Role, l.Now()); err != nil {
		return nil, fmt.Errorf("assign staff: cluster %q: %w", clusterID, err)
	}
	if err := l.Clusters.UpdateCluster(ctx, cluster); err != nil {
		return nil, fmt.Errorf("assign staff: cluster %q: persist: %w", clusterID, err)
	}
	if err := l.Pickups.UpdateStatuses(ctx, cluster.MemberIDs(), domain.PickupAssigned); err != nil {
		return nil, fmt.Errorf("assign staff: cluster %q: propagate member status: %w", clusterID, err)
	}

	l.fanOut(ctx, cluster, domain.ClusterAssigned)

	return cluster, nil
}

// ScheduleCluster sets the collection timing and route estimate and moves
// the cluster to scheduled.
func (l *Lifecycle) ScheduleCluster(
	ctx context.Context,
	actor domain.Actor,
	clusterID string,
	scheduledFor time.Time,
) (*domain.CollectionCluster, error) {
	if !actor.Role.CanAssignStaff() {
		return nil, fmt.Errorf("%w: role %q may not schedule clusters", domain.ErrUnauthorized, actor.Role)
	}

	cluster, err := l.Clusters.GetCluster(ctx, clusterID)
	if err != nil {
		return nil, fmt.Errorf("schedule cluster %q: %w", clusterID, err)
	}

	plan, err := l.planRoute(ctx, cluster)
	if err != nil {
		return nil, fmt.Errorf("schedule cluster %q: %w", clusterID, err)
	}
	cluster.ScheduledFor = &scheduledFor
	cluster.RouteDistanceKm = plan.TotalDistanceKm
	cluster.EstimatedDurationMinutes = plan.TotalMinutes

	if err := cluster.Transition(domain.ClusterScheduled, actor.Role, l.Now()); err != nil {
		return nil, fmt.Errorf("schedule cluster %q: %w", clusterID, err)
	}
	if err := l.Clusters.UpdateCluster(ctx, cluster); err != nil {
		return nil, fmt.Errorf("schedule cluster %q: persist: %w", clusterID, err)
	}
	if err := l.Pickups.UpdateStatuses(ctx, cluster.MemberIDs(), domain.PickupScheduled); err != nil {
		return nil, fmt.Errorf("schedule cluster %q: propagate member status: %w", clusterID, err)
	}

	l.fanOut(ctx, cluster, domain.ClusterScheduled)

	return cluster, nil
}

func (l *Lifecycle) planRoute(ctx context.Context, cluster *domain.CollectionCluster) (*RoutePlan, error) {
	pickups := make([]*domain.PickupRequest, 0, len(cluster.Members))
	for _, m := range cluster.Members {
		p, err := l.Pickups.GetPickup(ctx, m.PickupID)
		if err != nil {
			return nil, fmt.Errorf("load member %q: %w", m.PickupID, err)
		}
		pickups = append(pickups, p)
	}

	hub, ok := domain.HubByName(l.Hubs, cluster.DestinationHub)
	if !ok {
		return nil, fmt.Errorf("%w: cluster hub %q not in registry", domain.ErrValidation, cluster.DestinationHub)
	}

	return PlanCollectionRoute(cluster.AnchorLocation, pickups, hub)
}

func (l *Lifecycle) requireRole(ctx context.Context, userID string, role domain.Role) error {
	u, err := l.Users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("user %q: %w", userID, err)
	}
	if u.Role != role {
		return fmt.Errorf("%w: user %q has role %q, want %q", domain.ErrValidation, userID, u.Role, role)
	}
	return nil
}

// fanOut notifies every stakeholder of the new status. Failures are
// collected per recipient and logged; none of them abort the transition.
func (l *Lifecycle) fanOut(ctx context.Context, cluster *domain.CollectionCluster, status domain.ClusterStatus) {
	if l.Notifier == nil {
		return
	}

	title, message := notificationTemplate(cluster, status)
	now := l.Now()

	recipients := make([]string, 0, len(cluster.Members)+2)
	for _, m := range cluster.Members {
		p, err := l.Pickups.GetPickup(ctx, m.PickupID)
		if err != nil {
			log.Printf("notify skipped: cluster=%s pickup=%s err=%v", cluster.ID, m.PickupID, err)
			continue
		}
		recipients = append(recipients, p.UserID)
	}
	if cluster.EngineerID != "" {
		recipients = append(recipients, cluster.EngineerID)
	}
	if cluster.DriverID != "" {
		recipients = append(recipients, cluster.DriverID)
	}

	for _, r := range recipients {
		n := domain.Notification{
			RecipientID: r,
			Title:       title,
			Message:     message,
			Type:        "cluster_" + string(status),
			RelatedData: map[string]string{"cluster_id": cluster.ID},
			CreatedAt:   now,
		}
		if err := l.Notifier.Notify(ctx, n); err != nil {
			log.Printf("notify failed: cluster=%s recipient=%s err=%v", cluster.ID, r, err)
		}
	}
}

// notificationTemplate returns the per-status stakeholder message.
func notificationTemplate(cluster *domain.CollectionCluster, status domain.ClusterStatus) (title, message string) {
	switch status {
	case domain.ClusterReady:
		return "Collection batch ready",
			fmt.Sprintf("Your collection batch has reached capacity and is ready for dispatch to %s.", cluster.DestinationHub)
	case domain.ClusterAssigned:
		return "Collection team assigned",
			"A field engineer and driver have been assigned to your e-waste pickup."
	case domain.ClusterScheduled:
		return "Pickup scheduled",
			fmt.Sprintf("Your e-waste pickup has been scheduled. Estimated route: %.1f km.", cluster.RouteDistanceKm)
	case domain.ClusterOutForDelivery:
		return "Batch out for delivery",
			fmt.Sprintf("The collection batch is on its way to %s.", cluster.DestinationHub)
	case domain.ClusterDelivered:
		return "Batch delivered",
			fmt.Sprintf("The collection batch was delivered to %s.", cluster.DestinationHub)
	case domain.ClusterCompleted:
		return "Collection completed",
			"Your e-waste has been received and will be processed for recycling."
	default:
		return "Collection update",
			fmt.Sprintf("Your collection batch status changed to %s.", status)
	}
}

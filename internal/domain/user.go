package domain

import "fmt"

// Role is the closed set of actor roles. Authority checks go through role
// methods instead of string comparisons scattered across handlers.
type Role string

const (
	RoleUser      Role = "user"
	RoleEngineer  Role = "engineer"
	RoleDriver    Role = "driver"
	RoleWarehouse Role = "warehouse"
	RoleRecycler  Role = "recycler"
)

// ParseRole validates an externally supplied role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleEngineer, RoleDriver, RoleWarehouse, RoleRecycler:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// CanTransitionCluster reports whether the role may drive a cluster into the
// given status. Warehouse staff own the full lifecycle; drivers own the
// field legs of their runs; engineers confirm the handover.
func (r Role) CanTransitionCluster(to ClusterStatus) bool {
	switch r {
	case RoleWarehouse:
		return true
	case RoleDriver:
		switch to {
		case ClusterInProgress, ClusterOutForDelivery, ClusterDelivered:
			return true
		}
	case RoleEngineer:
		return to == ClusterCompleted
	}
	return false
}

// CanAssignStaff reports whether the role may bind staff to a cluster.
func (r Role) CanAssignStaff() bool { return r == RoleWarehouse }

// CanInspect reports whether the role may record an inspection result.
func (r Role) CanInspect() bool { return r == RoleEngineer }

// CanSettle reports whether the role may settle a pickup's payment.
func (r Role) CanSettle() bool { return r == RoleRecycler || r == RoleWarehouse }

// Actor is a pre-authenticated identity passed in by the session layer.
// The core trusts it and performs no authentication of its own.
type Actor struct {
	ID   string
	Role Role
}

// User is a registered account of any role.
//
// AvailableTomorrow is a tri-state: nil means "unset", which staffing
// treats as available. A nightly job resets it to true for field staff.
type User struct {
	ID                string
	Name              string
	Email             string
	Mobile            string
	Address           string
	Role              Role
	AvailableTomorrow *bool
	WalletBalance     float64
}

// IsAvailableTomorrow applies the default-true reading of the unset flag.
func (u *User) IsAvailableTomorrow() bool {
	return u.AvailableTomorrow == nil || *u.AvailableTomorrow
}

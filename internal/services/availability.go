package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/ports"
)

// fieldRoles are the staff whose availability flag resets nightly.
var fieldRoles = []domain.Role{domain.RoleEngineer, domain.RoleDriver}

// ResetAvailability idempotently marks all field staff available tomorrow.
// Lock-free: it is a single bulk update and concurrent dashboard reads
// tolerate eventual consistency.
func ResetAvailability(ctx context.Context, users ports.UserRepository) (int64, error) {
	n, err := users.ResetAvailability(ctx, fieldRoles)
	if err != nil {
		return 0, fmt.Errorf("reset availability: %w", err)
	}
	return n, nil
}

// RunAvailabilityReset resets field-staff availability at local midnight,
// daily, until ctx is canceled. Errors are logged and the loop keeps going.
func RunAvailabilityReset(ctx context.Context, users ports.UserRepository) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)

		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
		}

		n, err := ResetAvailability(ctx, users)
		if err != nil {
			log.Printf("availability reset failed: err=%v", err)
			continue
		}
		log.Printf("availability reset: staff=%d", n)
	}
}

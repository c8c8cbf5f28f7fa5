package domain

import (
	"errors"
	"fmt"
)

// Error kinds for the core workflows. Callers classify failures with
// errors.Is rather than matching message strings.
var (
	// ErrValidation covers malformed or out-of-range input (weights,
	// coordinates, amounts). Surfaced before any side effect.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means a referenced pickup, cluster or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the actor's role does not permit the action.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrExternal wraps persistence or notification infrastructure failures.
	ErrExternal = errors.New("external service failure")

	// ErrAlreadySettled is returned when settlement is retried for a pickup
	// whose payment is already recorded. Retries are safe no-ops.
	ErrAlreadySettled = errors.New("payment already settled")

	// ErrInvalidCoordinate rejects non-numeric or out-of-range lat/lng input
	// instead of letting NaN leak into distance math. It is a validation
	// error for classification purposes.
	ErrInvalidCoordinate = fmt.Errorf("%w: invalid coordinate", ErrValidation)
)

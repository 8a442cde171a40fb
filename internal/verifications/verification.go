// Package verifications implements the manual verification queue: descriptors the
// identification cascade could not resolve to exactly one car, held for a person to
// match against the inventory or dismiss.
package verifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/identify"
)

// Queue states.
const (
	StatusPending   = "pending"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

// Reasons a descriptor was queued.
const (
	ReasonNotFound      = "not_found"
	ReasonMultipleFound = "multiple_found"
)

// Verification is a queued descriptor awaiting review.
type Verification struct {
	ID         uuid.UUID           `json:"id"`
	Source     string              `json:"source"`
	Descriptor identify.Descriptor `json:"descriptor"`
	Reason     string              `json:"reason"`
	Stage      string              `json:"stage"`
	Trace      identify.Trace      `json:"trace"`
	Status     string              `json:"status"`
	CarID      *uuid.UUID          `json:"car_id,omitempty"`
	ResolvedBy string              `json:"resolved_by,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	ResolvedAt *time.Time          `json:"resolved_at,omitempty"`
}

// EnqueueCommand queues a descriptor with the outcome that failed to resolve it.
type EnqueueCommand struct {
	Source     string
	Descriptor identify.Descriptor
	Outcome    identify.Outcome
}

// reason maps an unresolved outcome to its queue reason.
func reason(o identify.Outcome) string {
	if o.Status == identify.MultipleFound {
		return ReasonMultipleFound
	}
	return ReasonNotFound
}

// ResolveCommand links a pending verification to the car a reviewer picked.
type ResolveCommand struct {
	CarID uuid.UUID `json:"car_id"`
	By    string    `json:"by"`
}

// DismissCommand closes a pending verification without a car.
type DismissCommand struct {
	By string `json:"by"`
}

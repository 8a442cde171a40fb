package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/audit"
	"github.com/JaimeStill/forecourt/internal/cars"
	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/internal/metrics"
	"github.com/JaimeStill/forecourt/internal/verifications"
)

// Actions taken for an identified descriptor.
const (
	ActionSighting = "sighting"
	ActionCreated  = "created"
	ActionQueued   = "queued"
	ActionFailed   = "failed"
)

// Inventory is the part of cars.System intake mutates.
type Inventory interface {
	Create(ctx context.Context, cmd cars.CreateCommand) (*cars.Car, error)
	ApplySighting(ctx context.Context, id uuid.UUID, cmd cars.SightingCommand) (*cars.Car, error)
}

// Queue receives descriptors that need a person.
type Queue interface {
	Enqueue(ctx context.Context, cmd verifications.EnqueueCommand) (*verifications.Verification, error)
}

// Log records every identification.
type Log interface {
	Record(ctx context.Context, cmd audit.RecordCommand) (*audit.Entry, error)
}

// Result reports what happened to one descriptor.
type Result struct {
	Source         string              `json:"source"`
	Descriptor     identify.Descriptor `json:"descriptor"`
	Outcome        identify.Outcome    `json:"outcome"`
	Action         string              `json:"action"`
	CarID          *uuid.UUID          `json:"car_id,omitempty"`
	VerificationID *uuid.UUID          `json:"verification_id,omitempty"`
}

// Processor identifies descriptors and applies the outcome to the inventory.
// Process calls are serialized: each identification sees the inventory changes of
// the ones before it.
type Processor struct {
	mu sync.Mutex

	identifier identify.System
	inventory  Inventory
	queue      Queue
	log        Log
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(
	identifier identify.System,
	inventory Inventory,
	queue Queue,
	log Log,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Processor {
	return &Processor{
		identifier: identifier,
		inventory:  inventory,
		queue:      queue,
		log:        log,
		metrics:    m,
		logger:     logger.With("system", "intake"),
	}
}

// Identify resolves d without recording or changing anything.
func (p *Processor) Identify(ctx context.Context, d identify.Descriptor) (identify.Outcome, error) {
	return p.identifier.Identify(ctx, d)
}

// Process identifies d, records the identification, then acts on the outcome:
// a found car gets a sighting, an unknown trusted rego becomes a new car, and
// anything else is queued for verification.
func (p *Processor) Process(ctx context.Context, source string, d identify.Descriptor) (Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res := Result{Source: source, Descriptor: d}

	outcome, err := p.identifier.Identify(ctx, d)
	if err != nil {
		p.metrics.ObserveAction(ActionFailed)
		return res, fmt.Errorf("identify: %w", err)
	}
	res.Outcome = outcome
	p.metrics.ObserveOutcome(outcome)

	if _, err := p.log.Record(ctx, audit.RecordCommand{Source: source, Descriptor: d, Outcome: outcome}); err != nil {
		p.metrics.ObserveAction(ActionFailed)
		return res, err
	}

	if err := p.act(ctx, &res); err != nil {
		p.metrics.ObserveAction(ActionFailed)
		return res, err
	}

	p.metrics.ObserveAction(res.Action)
	p.logger.Info(
		"descriptor processed",
		"source", source,
		"status", outcome.Status,
		"stage", outcome.Stage,
		"action", res.Action,
	)
	return res, nil
}

func (p *Processor) act(ctx context.Context, res *Result) error {
	d, outcome := res.Descriptor, res.Outcome

	switch {
	case outcome.Status == identify.Found:
		car, err := p.inventory.ApplySighting(ctx, outcome.Record.ID, cars.SightingCommand{
			Location:    d.Location,
			Description: d.Description,
		})
		if err != nil {
			return fmt.Errorf("apply sighting: %w", err)
		}
		res.Action, res.CarID = ActionSighting, &car.ID
		return nil

	case outcome.Status == identify.NotFound && trustedRego(d):
		car, err := p.inventory.Create(ctx, cars.FromDescriptor(d))
		if err == nil {
			res.Action, res.CarID = ActionCreated, &car.ID
			return nil
		}
		if !errors.Is(err, cars.ErrInvalidCar) && !errors.Is(err, cars.ErrInvalidRego) {
			return fmt.Errorf("create car: %w", err)
		}
		p.logger.Warn("descriptor not creatable, queueing", "source", res.Source, "error", err)
	}

	v, err := p.queue.Enqueue(ctx, verifications.EnqueueCommand{
		Source:     res.Source,
		Descriptor: d,
		Outcome:    outcome,
	})
	if err != nil {
		return fmt.Errorf("enqueue verification: %w", err)
	}
	res.Action, res.VerificationID = ActionQueued, &v.ID
	return nil
}

// trustedRego reports whether d carries a rego that proves absence when unmatched.
func trustedRego(d identify.Descriptor) bool {
	return identify.Normalize(d.Rego) != "" && !d.RegoLowConfidence
}

// Package audit keeps the append-only log of identification outcomes. Every
// descriptor the intake pipeline resolves is recorded with the trace that explains it.
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/identify"
)

// Entry is one recorded identification.
type Entry struct {
	ID         uuid.UUID           `json:"id"`
	Source     string              `json:"source"`
	Descriptor identify.Descriptor `json:"descriptor"`
	Status     identify.Status     `json:"status"`
	Stage      string              `json:"stage"`
	CarID      *uuid.UUID          `json:"car_id,omitempty"`
	Trace      identify.Trace      `json:"trace"`
	CreatedAt  time.Time           `json:"created_at"`
}

// RecordCommand captures one identification for the log.
type RecordCommand struct {
	Source     string
	Descriptor identify.Descriptor
	Outcome    identify.Outcome
}

func (cmd RecordCommand) carID() *uuid.UUID {
	if cmd.Outcome.Record == nil {
		return nil
	}
	id := cmd.Outcome.Record.ID
	return &id
}

// Package prompts manages named overrides of the extraction instructions. At most one
// prompt is active; while one is, its instructions replace the configured defaults for
// every extraction request. The response contract is never overridable.
package prompts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prompt is a named instruction override.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to create a new prompt override.
type CreateCommand struct {
	Name         string  `json:"name"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// UpdateCommand replaces the editable fields of a prompt override.
type UpdateCommand = CreateCommand

func (cmd *CreateCommand) validate() error {
	cmd.Name = strings.TrimSpace(cmd.Name)
	switch {
	case cmd.Name == "":
		return ErrInvalid
	case strings.TrimSpace(cmd.Instructions) == "":
		return ErrInvalid
	}
	return nil
}

// Content wraps prompt text returned by the read-only endpoints.
type Content struct {
	Content string `json:"content"`
}

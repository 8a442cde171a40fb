// Package cars implements the vehicle inventory domain: car records, their photos, and
// the normalized matching queries the identification cascade runs against them.
package cars

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/identify"
)

// Inventory states of a car.
const (
	StatusInStock   = "in_stock"
	StatusSold      = "sold"
	StatusInTransit = "in_transit"
	StatusWorkshop  = "workshop"
)

var statuses = []string{StatusInStock, StatusSold, StatusInTransit, StatusWorkshop}

// Car is an inventory record.
type Car struct {
	ID            uuid.UUID `json:"id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Badge         string    `json:"badge"`
	Rego          string    `json:"rego"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	Status        string    `json:"status"`
	Stage         string    `json:"stage"`
	Checklist     []string  `json:"checklist"`
	NextLocations []string  `json:"next_locations"`
	Photos        []string  `json:"photos"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Record projects the car onto the fields used for identification.
func (c Car) Record() identify.Record {
	return identify.Record{
		ID:          c.ID,
		Make:        c.Make,
		Model:       c.Model,
		Badge:       c.Badge,
		Rego:        c.Rego,
		Description: c.Description,
		Location:    c.Location,
	}
}

// CreateCommand carries the fields of a new car. Status defaults to in_stock.
type CreateCommand struct {
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Badge         string   `json:"badge"`
	Rego          string   `json:"rego"`
	Description   string   `json:"description"`
	Location      string   `json:"location"`
	Status        string   `json:"status"`
	Stage         string   `json:"stage"`
	Checklist     []string `json:"checklist"`
	NextLocations []string `json:"next_locations"`
}

// UpdateCommand replaces the editable fields of a car.
type UpdateCommand = CreateCommand

// FromDescriptor builds the command for a car first seen in a chat message.
func FromDescriptor(d identify.Descriptor) CreateCommand {
	return CreateCommand{
		Make:        strings.TrimSpace(d.Make),
		Model:       strings.TrimSpace(d.Model),
		Badge:       strings.TrimSpace(d.Badge),
		Rego:        d.Rego,
		Description: strings.TrimSpace(d.Description),
		Location:    strings.TrimSpace(d.Location),
	}
}

// SightingCommand reports a car seen again in a chat message.
// Empty fields leave the stored values untouched.
type SightingCommand struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

// PhotoCommand carries an uploaded photo.
type PhotoCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// NormalizeRego reduces a rego to the upper-cased letters and digits the matcher compares,
// so "abc-123" is stored as "ABC123". A non-empty result must be at most 6 characters.
func NormalizeRego(rego string) (string, error) {
	rego = strings.ToUpper(identify.Normalize(rego))
	if len(rego) > 6 {
		return "", fmt.Errorf("%w: %q is longer than 6 characters", ErrInvalidRego, rego)
	}
	return rego, nil
}

// normalize trims and validates cmd in place.
func (cmd *CreateCommand) normalize() error {
	cmd.Make = strings.TrimSpace(cmd.Make)
	cmd.Model = strings.TrimSpace(cmd.Model)
	cmd.Badge = strings.TrimSpace(cmd.Badge)
	cmd.Description = strings.TrimSpace(cmd.Description)
	cmd.Location = strings.TrimSpace(cmd.Location)
	cmd.Stage = strings.TrimSpace(cmd.Stage)

	if cmd.Make == "" && cmd.Model == "" && cmd.Rego == "" {
		return fmt.Errorf("%w: make, model, or rego required", ErrInvalidCar)
	}

	rego, err := NormalizeRego(cmd.Rego)
	if err != nil {
		return err
	}
	cmd.Rego = rego

	if cmd.Status == "" {
		cmd.Status = StatusInStock
	}
	if !slices.Contains(statuses, cmd.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidCar, cmd.Status)
	}

	if cmd.Checklist == nil {
		cmd.Checklist = []string{}
	}
	if cmd.NextLocations == nil {
		cmd.NextLocations = []string{}
	}
	return nil
}

// apply returns the car after the sighting and whether anything changed.
// Arriving at a planned next location removes it from the plan.
func (s SightingCommand) apply(c Car) (Car, bool) {
	changed := false

	if loc := strings.TrimSpace(s.Location); loc != "" && identify.Normalize(loc) != identify.Normalize(c.Location) {
		c.Location = loc
		changed = true
	}

	if c.Location != "" {
		key := identify.Normalize(c.Location)
		next := slices.DeleteFunc(slices.Clone(c.NextLocations), func(l string) bool {
			return identify.Normalize(l) == key
		})
		if len(next) != len(c.NextLocations) {
			c.NextLocations = next
			changed = true
		}
	}

	if desc := strings.TrimSpace(s.Description); desc != "" && desc != c.Description {
		c.Description = desc
		changed = true
	}

	return c, changed
}

// Package identify resolves a vehicle descriptor extracted from a chat message to at most
// one inventory record. Resolution is a fixed cascade of read-only stages, from the
// strongest signal (rego) to the weakest (location); every query it issues is recorded
// in a trace so that a wrong identification can be explained after the fact.
package identify

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Field names a matchable vehicle attribute.
type Field string

const (
	FieldMake        Field = "make"
	FieldModel       Field = "model"
	FieldBadge       Field = "badge"
	FieldRego        Field = "rego"
	FieldDescription Field = "description"
	FieldLocation    Field = "location"
)

// Descriptor is one vehicle mention extracted from an inbound message.
// Absent fields are empty strings.
type Descriptor struct {
	Make              string `json:"make"`
	Model             string `json:"model"`
	Badge             string `json:"badge"`
	Rego              string `json:"rego"`
	Description       string `json:"description"`
	Location          string `json:"location"`
	RegoLowConfidence bool   `json:"rego_low_confidence"`
}

// Value returns the raw descriptor value of f.
func (d Descriptor) Value(f Field) string {
	switch f {
	case FieldMake:
		return d.Make
	case FieldModel:
		return d.Model
	case FieldBadge:
		return d.Badge
	case FieldRego:
		return d.Rego
	case FieldDescription:
		return d.Description
	case FieldLocation:
		return d.Location
	}
	return ""
}

// Empty reports whether every field normalizes to the empty string.
func (d Descriptor) Empty() bool {
	for _, f := range []Field{FieldMake, FieldModel, FieldBadge, FieldRego, FieldDescription, FieldLocation} {
		if Normalize(d.Value(f)) != "" {
			return false
		}
	}
	return true
}

func (d Descriptor) String() string {
	var parts []string
	for _, f := range []Field{FieldRego, FieldMake, FieldModel, FieldBadge, FieldDescription, FieldLocation} {
		if v := strings.TrimSpace(d.Value(f)); v != "" {
			parts = append(parts, fmt.Sprintf("%s=%q", f, v))
		}
	}
	if d.RegoLowConfidence {
		parts = append(parts, "rego_low_confidence")
	}
	if len(parts) == 0 {
		return "<empty>"
	}
	return strings.Join(parts, " ")
}

// Record is the read-only projection of an inventory car used for matching.
type Record struct {
	ID          uuid.UUID `json:"id"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Badge       string    `json:"badge"`
	Rego        string    `json:"rego"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
}

// Value returns the stored value of f.
func (r Record) Value(f Field) string {
	switch f {
	case FieldMake:
		return r.Make
	case FieldModel:
		return r.Model
	case FieldBadge:
		return r.Badge
	case FieldRego:
		return r.Rego
	case FieldDescription:
		return r.Description
	case FieldLocation:
		return r.Location
	}
	return ""
}

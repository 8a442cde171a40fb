package audit

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/query"
	"github.com/JaimeStill/forecourt/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "identifications", "i").
	Project("id", "ID").
	Project("source", "Source").
	Project("descriptor", "Descriptor").
	Project("status", "Status").
	Project("stage", "Stage").
	Project("car_id", "CarID").
	Project("trace", "Trace").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}

// Filters contains optional filtering criteria for the identification log.
type Filters struct {
	Source *string    `json:"source,omitempty"`
	Status *string    `json:"status,omitempty"`
	Stage  *string    `json:"stage,omitempty"`
	CarID  *uuid.UUID `json:"car_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Source", f.Source).
		WhereEquals("Status", f.Status).
		WhereEquals("Stage", f.Stage).
		WhereEquals("CarID", f.CarID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// A malformed car_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("source"); s != "" {
		f.Source = &s
	}
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if s := values.Get("stage"); s != "" {
		f.Stage = &s
	}
	if id, err := uuid.Parse(values.Get("car_id")); err == nil {
		f.CarID = &id
	}
	return f
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var (
		e          Entry
		status     string
		descriptor repository.JSON[identify.Descriptor]
		trace      repository.JSON[identify.Trace]
	)

	err := s.Scan(
		&e.ID,
		&e.Source,
		&descriptor,
		&status,
		&e.Stage,
		&e.CarID,
		&trace,
		&e.CreatedAt,
	)
	if err != nil {
		return e, err
	}

	e.Descriptor = descriptor.V
	e.Trace = trace.V
	return e, e.Status.UnmarshalText([]byte(status))
}

package verifications

import (
	"net/url"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/query"
	"github.com/JaimeStill/forecourt/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "verifications", "v").
	Project("id", "ID").
	Project("source", "Source").
	Project("descriptor", "Descriptor").
	Project("reason", "Reason").
	Project("stage", "Stage").
	Project("trace", "Trace").
	Project("status", "Status").
	Project("car_id", "CarID").
	Project("resolved_by", "ResolvedBy").
	Project("created_at", "CreatedAt").
	Project("resolved_at", "ResolvedAt")

// Pending entries surface oldest first.
var defaultSort = query.SortField{Field: "CreatedAt"}

// Filters contains optional filtering criteria for verification queries.
type Filters struct {
	Status *string `json:"status,omitempty"`
	Reason *string `json:"reason,omitempty"`
	Source *string `json:"source,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Reason", f.Reason).
		WhereEquals("Source", f.Source)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if r := values.Get("reason"); r != "" {
		f.Reason = &r
	}
	if s := values.Get("source"); s != "" {
		f.Source = &s
	}
	return f
}

func scanVerification(s repository.Scanner) (Verification, error) {
	var (
		v          Verification
		descriptor repository.JSON[identify.Descriptor]
		trace      repository.JSON[identify.Trace]
	)

	err := s.Scan(
		&v.ID,
		&v.Source,
		&descriptor,
		&v.Reason,
		&v.Stage,
		&trace,
		&v.Status,
		&v.CarID,
		&v.ResolvedBy,
		&v.CreatedAt,
		&v.ResolvedAt,
	)

	v.Descriptor = descriptor.V
	v.Trace = trace.V
	return v, err
}

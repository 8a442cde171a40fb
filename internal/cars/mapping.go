package cars

import (
	"net/url"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/query"
	"github.com/JaimeStill/forecourt/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cars", "c").
	Project("id", "ID").
	Project("make", "Make").
	Project("model", "Model").
	Project("badge", "Badge").
	Project("rego", "Rego").
	Project("description", "Description").
	Project("location", "Location").
	Project("status", "Status").
	Project("stage", "Stage").
	Project("checklist", "Checklist").
	Project("next_locations", "NextLocations").
	Project("photos", "Photos").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// matchProjection reads only the identification fields.
var matchProjection = query.
	NewProjectionMap("public", "cars", "c").
	Project("id", "ID").
	Project("make", "Make").
	Project("model", "Model").
	Project("badge", "Badge").
	Project("rego", "Rego").
	Project("description", "Description").
	Project("location", "Location")

var defaultSort = query.SortField{Field: "UpdatedAt", Descending: true}

var matchColumns = map[identify.Field]string{
	identify.FieldMake:        "Make",
	identify.FieldModel:       "Model",
	identify.FieldBadge:       "Badge",
	identify.FieldRego:        "Rego",
	identify.FieldDescription: "Description",
	identify.FieldLocation:    "Location",
}

// Filters contains optional filtering criteria for car queries.
// Status uses exact matching, Rego normalized matching, the rest case-insensitive contains.
type Filters struct {
	Make     *string `json:"make,omitempty"`
	Model    *string `json:"model,omitempty"`
	Rego     *string `json:"rego,omitempty"`
	Location *string `json:"location,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereContains("Make", f.Make).
		WhereContains("Model", f.Model).
		WhereContains("Location", f.Location).
		WhereEquals("Status", f.Status)

	if f.Rego != nil {
		b.WhereNormalized("Rego", identify.Normalize(*f.Rego))
	}
	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	get := func(key string) *string {
		if v := values.Get(key); v != "" {
			return &v
		}
		return nil
	}

	return Filters{
		Make:     get("make"),
		Model:    get("model"),
		Rego:     get("rego"),
		Location: get("location"),
		Status:   get("status"),
	}
}

// matchQuery translates identification criteria to SQL over the cars table.
func matchQuery(c identify.Criteria) (string, []any) {
	b := query.NewBuilder(matchProjection, query.SortField{Field: "ID"})
	for _, cond := range c.All {
		b.WhereNormalized(matchColumns[cond.Field], cond.Value)
	}
	b.WhereAnyWord("Description", c.Words)
	return b.Build()
}

func scanCar(s repository.Scanner) (Car, error) {
	var (
		c         Car
		checklist repository.JSON[[]string]
		next      repository.JSON[[]string]
		photos    repository.JSON[[]string]
	)

	err := s.Scan(
		&c.ID,
		&c.Make,
		&c.Model,
		&c.Badge,
		&c.Rego,
		&c.Description,
		&c.Location,
		&c.Status,
		&c.Stage,
		&checklist,
		&next,
		&photos,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	c.Checklist = orEmpty(checklist.V)
	c.NextLocations = orEmpty(next.V)
	c.Photos = orEmpty(photos.V)
	return c, err
}

func scanRecord(s repository.Scanner) (identify.Record, error) {
	var r identify.Record
	err := s.Scan(&r.ID, &r.Make, &r.Model, &r.Badge, &r.Rego, &r.Description, &r.Location)
	return r, err
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

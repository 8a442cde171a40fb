package identify

import (
	"context"
	"fmt"
	"strings"
)

// Condition requires Normalize(record.Field) to equal Value. Value is already normalized.
type Condition struct {
	Field Field  `json:"field"`
	Value string `json:"value"`
}

// Criteria is one inventory query. Every All condition must hold. When Words is non-empty,
// at least one whitespace-separated word of the record's description must normalize to
// one of Words. Empty criteria match every record.
type Criteria struct {
	All   []Condition `json:"all,omitempty"`
	Words []string    `json:"words,omitempty"`
}

// Base returns the criteria without the description word group.
func (c Criteria) Base() Criteria {
	return Criteria{All: c.All}
}

// Empty reports whether the criteria carry no constraint.
func (c Criteria) Empty() bool {
	return len(c.All) == 0 && len(c.Words) == 0
}

// Matches reports whether r satisfies the criteria.
func (c Criteria) Matches(r Record) bool {
	for _, cond := range c.All {
		if Normalize(r.Value(cond.Field)) != cond.Value {
			return false
		}
	}

	if len(c.Words) == 0 {
		return true
	}
	for _, w := range c.Words {
		if hasWord(r.Description, w) {
			return true
		}
	}
	return false
}

// String renders the criteria compactly, e.g. make=toyota model=corolla description~(white|ute).
func (c Criteria) String() string {
	if c.Empty() {
		return "<any>"
	}

	parts := make([]string, 0, len(c.All)+1)
	for _, cond := range c.All {
		parts = append(parts, fmt.Sprintf("%s=%s", cond.Field, cond.Value))
	}
	if len(c.Words) > 0 {
		parts = append(parts, fmt.Sprintf("%s~(%s)", FieldDescription, strings.Join(c.Words, "|")))
	}
	return strings.Join(parts, " ")
}

// Store answers inventory queries. Implementations must apply Criteria with the same
// normalized semantics as Criteria.Matches.
type Store interface {
	Match(ctx context.Context, c Criteria) ([]Record, error)
}

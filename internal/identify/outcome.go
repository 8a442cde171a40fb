package identify

import (
	"fmt"
	"strings"
)

// Status is the three-way resolution result.
type Status int

const (
	NotFound Status = iota
	Found
	MultipleFound
)

var statusText = map[Status]string{
	NotFound:      "not_found",
	Found:         "found",
	MultipleFound: "multiple_found",
}

func (s Status) String() string {
	if t, ok := statusText[s]; ok {
		return t
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	for k, v := range statusText {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Step is one query issued during resolution.
type Step struct {
	Stage    string   `json:"stage"`
	Criteria Criteria `json:"criteria"`
	Matches  int      `json:"matches"`
	Decision string   `json:"decision"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s: %s -> %d match(es), %s", s.Stage, s.Criteria, s.Matches, s.Decision)
}

// Trace is the ordered record of every step of one resolution.
type Trace []Step

// String renders one line per step.
func (t Trace) String() string {
	lines := make([]string, len(t))
	for i, s := range t {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

// Outcome is the result of Identify. Record is set only when Status is Found.
// Stage names the stage that decided the outcome, or "fallback" when none did.
type Outcome struct {
	Status Status  `json:"status"`
	Record *Record `json:"record,omitempty"`
	Stage  string  `json:"stage"`
	Trace  Trace   `json:"trace"`
}

package identify_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/internal/identify"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"ABC-123", "abc123"},
		{"abc123", "abc123"},
		{"  Land Cruiser ", "landcruiser"},
		{"Mercedes-Benz", "mercedesbenz"},
		{"!!!", ""},
		{"Škoda", "koda"},
		{"i30 N-Line", "i30nline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := identify.Normalize(tt.input)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, identify.Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestNormalizeCaseAndPunctuationInsensitive(t *testing.T) {
	require.Equal(t, identify.Normalize("abc123"), identify.Normalize("ABC-123"))
	require.Equal(t, identify.Normalize("a.b c"), identify.Normalize("ABC"))
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\n", nil},
		{"simple", "white ute", []string{"white", "ute"}},
		{"punctuation and duplicates", "White  UTE, white!", []string{"white", "ute"}},
		{"punctuation-only words dropped", "red - sedan", []string{"red", "sedan"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, identify.Tokens(tt.input))
		})
	}
}

func TestCriteriaMatches(t *testing.T) {
	rec := identify.Record{Make: "Toyota", Model: "Corolla", Description: "White ute, low km"}

	tests := []struct {
		name     string
		criteria identify.Criteria
		want     bool
	}{
		{"empty matches everything", identify.Criteria{}, true},
		{"normalized equality", identify.Criteria{All: []identify.Condition{{Field: identify.FieldMake, Value: "toyota"}}}, true},
		{"equality mismatch", identify.Criteria{All: []identify.Condition{{Field: identify.FieldModel, Value: "camry"}}}, false},
		{"word match", identify.Criteria{Words: []string{"ute"}}, true},
		{"word with trailing punctuation", identify.Criteria{Words: []string{"ute", "red"}}, true},
		{"substring is not a word", identify.Criteria{Words: []string{"whit"}}, false},
		{"no word matches", identify.Criteria{Words: []string{"red", "sedan"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.criteria.Matches(rec))
		})
	}
}

func TestCriteriaString(t *testing.T) {
	c := identify.Criteria{
		All:   []identify.Condition{{Field: identify.FieldMake, Value: "toyota"}},
		Words: []string{"white", "ute"},
	}
	require.Equal(t, "make=toyota description~(white|ute)", c.String())
	require.Equal(t, "make=toyota", c.Base().String())
	require.Equal(t, "<any>", identify.Criteria{}.String())
}

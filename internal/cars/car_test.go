package cars

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/internal/identify"
)

func TestNormalizeRego(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"abc123", "ABC123", false},
		{"ab c 12", "ABC12", false},
		{"A", "A", false},
		{"ABC1234", "", true},
		{"AB-123", "AB123", false},
		{"abc.12-3", "ABC123", false},
		{"ÄBC1", "BC1", false},
		{"--", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeRego(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidRego)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCreateCommandNormalize(t *testing.T) {
	t.Run("defaults and trimming", func(t *testing.T) {
		cmd := CreateCommand{Make: " Toyota ", Model: "Corolla", Rego: "abc 123"}
		require.NoError(t, cmd.normalize())

		require.Equal(t, "Toyota", cmd.Make)
		require.Equal(t, "ABC123", cmd.Rego)
		require.Equal(t, StatusInStock, cmd.Status)
		require.NotNil(t, cmd.Checklist)
		require.NotNil(t, cmd.NextLocations)
	})

	t.Run("needs an identifying field", func(t *testing.T) {
		cmd := CreateCommand{Description: "white ute"}
		require.ErrorIs(t, cmd.normalize(), ErrInvalidCar)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		cmd := CreateCommand{Make: "Ford", Status: "scrapped"}
		require.ErrorIs(t, cmd.normalize(), ErrInvalidCar)
	})

	t.Run("descriptor rego with punctuation", func(t *testing.T) {
		cmd := FromDescriptor(identify.Descriptor{Make: "Toyota", Rego: "ABC-123"})
		require.NoError(t, cmd.normalize())
		require.Equal(t, "ABC123", cmd.Rego)
		require.Equal(t, identify.Normalize("ABC-123"), strings.ToLower(cmd.Rego))
	})

	t.Run("rejects bad rego", func(t *testing.T) {
		cmd := CreateCommand{Make: "Ford", Rego: "TOOLONG1"}
		require.ErrorIs(t, cmd.normalize(), ErrInvalidRego)
	})
}

func TestSightingApply(t *testing.T) {
	base := Car{
		Location:      "Northpoint",
		Description:   "white ute",
		NextLocations: []string{"Detailing", "Southside Yard"},
	}

	tests := []struct {
		name        string
		cmd         SightingCommand
		wantChanged bool
		wantLoc     string
		wantDesc    string
		wantNext    []string
	}{
		{"empty sighting", SightingCommand{}, false, "Northpoint", "white ute", []string{"Detailing", "Southside Yard"}},
		{"same location differently written", SightingCommand{Location: "north point"}, false, "Northpoint", "white ute", []string{"Detailing", "Southside Yard"}},
		{"moved", SightingCommand{Location: "Workshop"}, true, "Workshop", "white ute", []string{"Detailing", "Southside Yard"}},
		{"arrived at planned stop", SightingCommand{Location: "southside yard"}, true, "southside yard", "white ute", []string{"Detailing"}},
		{"new description", SightingCommand{Description: "white ute, bullbar"}, true, "Northpoint", "white ute, bullbar", []string{"Detailing", "Southside Yard"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := tt.cmd.apply(base)
			require.Equal(t, tt.wantChanged, changed)
			require.Equal(t, tt.wantLoc, got.Location)
			require.Equal(t, tt.wantDesc, got.Description)
			require.Equal(t, tt.wantNext, got.NextLocations)
		})
	}

	require.Equal(t, []string{"Detailing", "Southside Yard"}, base.NextLocations, "apply must not mutate the input")
}

func TestFromDescriptor(t *testing.T) {
	cmd := FromDescriptor(identify.Descriptor{Make: " Mazda ", Model: "CX-5", Rego: "xyz 98", Location: "Northpoint"})
	require.Equal(t, "Mazda", cmd.Make)
	require.Equal(t, "xyz 98", cmd.Rego)
	require.NoError(t, cmd.normalize())
	require.Equal(t, "XYZ98", cmd.Rego)
}

func TestMatchQuery(t *testing.T) {
	q, args := matchQuery(identify.Criteria{
		All: []identify.Condition{
			{Field: identify.FieldMake, Value: "toyota"},
			{Field: identify.FieldLocation, Value: "northpoint"},
		},
		Words: []string{"white", "ute"},
	})

	require.Contains(t, q, "SELECT c.id, c.make, c.model, c.badge, c.rego, c.description, c.location FROM public.cars c WHERE ")
	require.Contains(t, q, "regexp_replace(lower(COALESCE(c.make, '')), '[^a-z0-9]', '', 'g') = $1")
	require.Contains(t, q, "regexp_replace(lower(COALESCE(c.location, '')), '[^a-z0-9]', '', 'g') = $2")
	require.Contains(t, q, "IN ($3, $4)")
	require.Contains(t, q, "ORDER BY c.id ASC")
	require.Equal(t, []any{"toyota", "northpoint", "white", "ute"}, args)
}

func TestMatchQueryEmptyCriteria(t *testing.T) {
	q, args := matchQuery(identify.Criteria{})
	require.NotContains(t, q, "WHERE")
	require.Empty(t, args)
}

func TestPhotoKey(t *testing.T) {
	id := identifyTestID
	key := photoKey(id, "../../etc/front view.jpg")
	require.Regexp(t, `^cars/`+id.String()+`/[0-9a-f]{8}-front%20view\.jpg$`, key)

	require.Contains(t, photoKey(id, ""), "-photo")
}

package pagination_test

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/query"
)

var cfg = pagination.Config{DefaultPageSize: 25, MaxPageSize: 100}

func TestConfigFinalize(t *testing.T) {
	var c pagination.Config
	require.NoError(t, c.Finalize(nil))
	require.Equal(t, 25, c.DefaultPageSize)
	require.Equal(t, 200, c.MaxPageSize)

	bad := pagination.Config{DefaultPageSize: 50, MaxPageSize: 10}
	require.Error(t, bad.Finalize(nil))
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", 1, 25},
		{"explicit", "page=3&page_size=10", 3, 10},
		{"clamped", "page=-1&page_size=500", 1, 100},
		{"garbage", "page=x&page_size=y", 1, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			req := pagination.PageRequestFromQuery(values, cfg)
			require.Equal(t, tt.wantPage, req.Page)
			require.Equal(t, tt.wantSize, req.PageSize)
		})
	}
}

func TestPageRequestSearchAndSort(t *testing.T) {
	values := url.Values{"search": {"hilux"}, "sort": {"make,-updatedAt"}}
	req := pagination.PageRequestFromQuery(values, cfg)

	require.NotNil(t, req.Search)
	require.Equal(t, "hilux", *req.Search)
	require.Equal(t, pagination.SortFields{{Field: "make"}, {Field: "updatedAt", Descending: true}}, req.Sort)
}

func TestSortFieldsUnmarshal(t *testing.T) {
	var fromString pagination.SortFields
	require.NoError(t, json.Unmarshal([]byte(`"-make"`), &fromString))
	require.Equal(t, pagination.SortFields{{Field: "make", Descending: true}}, fromString)

	var fromArray pagination.SortFields
	require.NoError(t, json.Unmarshal([]byte(`[{"Field":"model","Descending":false}]`), &fromArray))
	require.Equal(t, pagination.SortFields{{Field: "model"}}, fromArray)
}

func TestPageRequestSelect(t *testing.T) {
	proj := query.NewProjectionMap("public", "cars", "c").Project("make", "make")
	req := pagination.PageRequest{Page: 2, PageSize: 10, Sort: pagination.SortFields{{Field: "make"}}}

	sql, _ := req.Select(query.NewBuilder(proj))
	require.Equal(t, "SELECT c.make FROM public.cars c ORDER BY c.make ASC LIMIT 10 OFFSET 10", sql)
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		total, size, wantPages int
	}{
		{0, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 25, 4},
	}

	for _, tt := range tests {
		result := pagination.NewPageResult[string](nil, tt.total, 1, tt.size)
		require.Equal(t, tt.wantPages, result.TotalPages)
		require.NotNil(t, result.Data)
	}
}

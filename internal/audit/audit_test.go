package audit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/repository"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

type mockSystem struct {
	listFn func(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error)
}

func (m *mockSystem) Handler() *Handler {
	return NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) Record(context.Context, RecordCommand) (*Entry, error) {
	return nil, nil
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Entry], error) {
	return m.listFn(ctx, page, filters)
}

// rowScanner feeds fixed column values to a scan function.
type rowScanner []any

func (r rowScanner) Scan(dest ...any) error {
	for i, d := range dest {
		switch d := d.(type) {
		case *uuid.UUID:
			*d = r[i].(uuid.UUID)
		case **uuid.UUID:
			*d = r[i].(*uuid.UUID)
		case *string:
			*d = r[i].(string)
		case interface{ Scan(any) error }:
			if err := d.Scan(r[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ repository.Scanner = rowScanner(nil)

func TestRecordCommandCarID(t *testing.T) {
	require.Nil(t, RecordCommand{}.carID())

	id := uuid.New()
	got := RecordCommand{Outcome: identify.Outcome{Status: identify.Found, Record: &identify.Record{ID: id}}}.carID()
	require.NotNil(t, got)
	require.Equal(t, id, *got)
}

func TestFiltersFromQuery(t *testing.T) {
	id := uuid.New()
	f := FiltersFromQuery(url.Values{
		"source": {"yard-chat"},
		"status": {"multiple_found"},
		"car_id": {id.String()},
	})

	require.Equal(t, "yard-chat", *f.Source)
	require.Equal(t, "multiple_found", *f.Status)
	require.Nil(t, f.Stage)
	require.Equal(t, id, *f.CarID)

	require.Nil(t, FiltersFromQuery(url.Values{"car_id": {"bogus"}}).CarID)
}

func TestScanEntry(t *testing.T) {
	id := uuid.New()
	descriptor, _ := json.Marshal(identify.Descriptor{Make: "Toyota", Rego: "ABC123"})
	trace, _ := json.Marshal(identify.Trace{{Stage: "rego", Matches: 0, Decision: "continue"}})

	e, err := scanEntry(rowScanner{id, "chat-1", descriptor, "not_found", "fallback", (*uuid.UUID)(nil), trace, nil})
	require.NoError(t, err)
	require.Equal(t, id, e.ID)
	require.Equal(t, identify.NotFound, e.Status)
	require.Equal(t, "Toyota", e.Descriptor.Make)
	require.Len(t, e.Trace, 1)
	require.Nil(t, e.CarID)

	_, err = scanEntry(rowScanner{id, "chat-1", descriptor, "maybe", "fallback", (*uuid.UUID)(nil), trace, nil})
	require.Error(t, err)
}

func TestHandlerList(t *testing.T) {
	var got Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f Filters) (*pagination.PageResult[Entry], error) {
			got = f
			result := pagination.NewPageResult([]Entry{{Source: "chat-1", Status: identify.Found}}, 1, page.Page, page.PageSize)
			return &result, nil
		},
	}

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/identifications?stage=rego", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "rego", *got.Stage)
	require.Contains(t, rec.Body.String(), `"status":"found"`)
}

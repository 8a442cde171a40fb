package prompts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/internal/extraction"
	"github.com/JaimeStill/forecourt/pkg/pagination"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

var testID = uuid.MustParse("3f1c2b7e-5d4a-4e8b-9c21-0a6f7d8e9b10")

type mockSystem struct {
	listFn         func(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error)
	findFn         func(ctx context.Context, id uuid.UUID) (*Prompt, error)
	createFn       func(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	updateFn       func(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	activateFn     func(ctx context.Context, id uuid.UUID) (*Prompt, error)
	deactivateFn   func(ctx context.Context, id uuid.UUID) (*Prompt, error)
	instructionsFn func(ctx context.Context) (string, error)
}

func (m *mockSystem) Handler() *Handler {
	return NewHandler(m, slog.New(slog.NewTextHandler(io.Discard, nil)), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Prompt], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Activate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	return m.activateFn(ctx, id)
}

func (m *mockSystem) Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error) {
	return m.deactivateFn(ctx, id)
}

func (m *mockSystem) Instructions(ctx context.Context) (string, error) {
	return m.instructionsFn(ctx)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	return mux
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func TestCommandValidate(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateCommand
		err  error
	}{
		{"valid", CreateCommand{Name: " yard slang ", Instructions: "Treat 'ute' as a body style."}, nil},
		{"missing name", CreateCommand{Name: "  ", Instructions: "x"}, ErrInvalid},
		{"missing instructions", CreateCommand{Name: "n", Instructions: " \n"}, ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.cmd
			err := cmd.validate()
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "yard slang", cmd.Name)
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrDuplicate, http.StatusConflict},
		{ErrInvalid, http.StatusBadRequest},
		{ErrInvalidID, http.StatusBadRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, MapHTTPStatus(tt.err), tt.err.Error())
	}
}

func TestFiltersFromQuery(t *testing.T) {
	f := FiltersFromQuery(url.Values{"name": {"slang"}, "active": {"true"}})
	require.Equal(t, "slang", *f.Name)
	require.True(t, *f.Active)

	f = FiltersFromQuery(url.Values{"active": {"maybe"}})
	require.Nil(t, f.Name)
	require.Nil(t, f.Active)
}

func TestHandlerCreate(t *testing.T) {
	var got CreateCommand
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd CreateCommand) (*Prompt, error) {
			got = cmd
			return &Prompt{ID: testID, Name: cmd.Name, Instructions: cmd.Instructions}, nil
		},
	}

	rec := serve(setupMux(sys), http.MethodPost, "/prompts", `{"name":"yard slang","instructions":"Treat 'ute' as a body style."}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "yard slang", got.Name)

	var p Prompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, testID, p.ID)
	require.False(t, p.Active)
}

func TestHandlerCreateErrors(t *testing.T) {
	sys := &mockSystem{
		createFn: func(context.Context, CreateCommand) (*Prompt, error) {
			return nil, ErrDuplicate
		},
	}
	mux := setupMux(sys)

	rec := serve(mux, http.MethodPost, "/prompts", `{"name":"a","instructions":"b"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(mux, http.MethodPost, "/prompts", `{"name":"a","stage":"classify"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerActivate(t *testing.T) {
	sys := &mockSystem{
		activateFn: func(_ context.Context, id uuid.UUID) (*Prompt, error) {
			if id != testID {
				return nil, ErrNotFound
			}
			return &Prompt{ID: id, Active: true}, nil
		},
	}
	mux := setupMux(sys)

	rec := serve(mux, http.MethodPost, "/prompts/"+testID.String()+"/activate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"active":true`)

	rec = serve(mux, http.MethodPost, "/prompts/"+uuid.NewString()+"/activate", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(mux, http.MethodPost, "/prompts/nope/activate", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDelete(t *testing.T) {
	var deleted uuid.UUID
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		},
	}

	rec := serve(setupMux(sys), http.MethodDelete, "/prompts/"+testID.String(), "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, testID, deleted)
}

func TestHandlerInstructions(t *testing.T) {
	sys := &mockSystem{
		instructionsFn: func(context.Context) (string, error) {
			return "active override", nil
		},
	}
	mux := setupMux(sys)

	rec := serve(mux, http.MethodGet, "/prompts/instructions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var c Content
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, "active override", c.Content)

	rec = serve(mux, http.MethodGet, "/prompts/contract", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	require.Equal(t, extraction.Contract, c.Content)
}

func TestHandlerSearch(t *testing.T) {
	var got Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f Filters) (*pagination.PageResult[Prompt], error) {
			got = f
			require.Equal(t, 20, page.PageSize)
			result := pagination.NewPageResult[Prompt](nil, 0, page.Page, page.PageSize)
			return &result, nil
		},
	}

	rec := serve(setupMux(sys), http.MethodPost, "/prompts/search", `{"active":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, *got.Active)
}

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r[i].(uuid.UUID)
		case *string:
			*p = r[i].(string)
		case **string:
			*p = r[i].(*string)
		case *bool:
			*p = r[i].(bool)
		default:
			// timestamps are left zero
		}
	}
	return nil
}

func TestScanPrompt(t *testing.T) {
	desc := "dealer shorthand"
	p, err := scanPrompt(fakeRow{testID, "yard slang", "Treat 'ute' as a body style.", &desc, true, nil, nil})

	require.NoError(t, err)
	require.Equal(t, testID, p.ID)
	require.Equal(t, "yard slang", p.Name)
	require.Equal(t, &desc, p.Description)
	require.True(t, p.Active)
}

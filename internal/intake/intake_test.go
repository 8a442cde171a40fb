package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/forecourt/internal/audit"
	"github.com/JaimeStill/forecourt/internal/cars"
	"github.com/JaimeStill/forecourt/internal/extraction"
	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/internal/metrics"
	"github.com/JaimeStill/forecourt/internal/verifications"
	"github.com/JaimeStill/forecourt/pkg/lifecycle"
	"github.com/JaimeStill/forecourt/pkg/routes"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeInventory records mutations in memory.
type fakeInventory struct {
	mu        sync.Mutex
	created   []cars.CreateCommand
	sightings map[uuid.UUID]cars.SightingCommand
	createErr error
}

func (f *fakeInventory) Create(_ context.Context, cmd cars.CreateCommand) (*cars.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, cmd)
	return &cars.Car{ID: uuid.New(), Make: cmd.Make, Rego: cmd.Rego}, nil
}

func (f *fakeInventory) ApplySighting(_ context.Context, id uuid.UUID, cmd cars.SightingCommand) (*cars.Car, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sightings == nil {
		f.sightings = make(map[uuid.UUID]cars.SightingCommand)
	}
	f.sightings[id] = cmd
	return &cars.Car{ID: id, Location: cmd.Location}, nil
}

type fakeQueue struct {
	mu     sync.Mutex
	queued []verifications.EnqueueCommand
}

func (f *fakeQueue) Enqueue(_ context.Context, cmd verifications.EnqueueCommand) (*verifications.Verification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, cmd)
	return &verifications.Verification{ID: uuid.New(), Status: verifications.StatusPending}, nil
}

type fakeLog struct {
	mu      sync.Mutex
	entries []audit.RecordCommand
	err     error
}

func (f *fakeLog) Record(_ context.Context, cmd audit.RecordCommand) (*audit.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.entries = append(f.entries, cmd)
	return &audit.Entry{ID: uuid.New()}, nil
}

type fakeExtractor struct {
	descriptors []identify.Descriptor
	err         error
	mu          sync.Mutex
	seen        []extraction.Message
}

func (f *fakeExtractor) Extract(_ context.Context, msg extraction.Message) ([]identify.Descriptor, error) {
	f.mu.Lock()
	f.seen = append(f.seen, msg)
	f.mu.Unlock()
	return f.descriptors, f.err
}

type fixture struct {
	hilux     identify.Record
	corollaA  identify.Record
	corollaB  identify.Record
	inventory *fakeInventory
	queue     *fakeQueue
	log       *fakeLog
	metrics   *metrics.Metrics
	processor *Processor
}

func newFixture() *fixture {
	f := &fixture{
		hilux:     identify.Record{ID: uuid.New(), Make: "Toyota", Model: "Hilux", Rego: "ABC123", Location: "yard"},
		corollaA:  identify.Record{ID: uuid.New(), Make: "Toyota", Model: "Corolla", Description: "white hatch"},
		corollaB:  identify.Record{ID: uuid.New(), Make: "Toyota", Model: "Corolla", Description: "red sedan"},
		inventory: &fakeInventory{},
		queue:     &fakeQueue{},
		log:       &fakeLog{},
		metrics:   metrics.New(),
	}

	store := identify.NewMemoryStore(f.hilux, f.corollaA, f.corollaB)
	f.processor = NewProcessor(identify.New(store, discard()), f.inventory, f.queue, f.log, f.metrics, discard())
	return f
}

func testConfig() Config {
	return Config{Window: "40ms", MaxWait: "200ms", Workers: 2}
}

func TestProcessFoundAppliesSighting(t *testing.T) {
	f := newFixture()

	res, err := f.processor.Process(context.Background(), "chat-1", identify.Descriptor{Rego: "abc 123", Location: "Wash Bay"})
	require.NoError(t, err)

	require.Equal(t, ActionSighting, res.Action)
	require.Equal(t, f.hilux.ID, *res.CarID)
	require.Equal(t, "Wash Bay", f.inventory.sightings[f.hilux.ID].Location)
	require.Len(t, f.log.entries, 1)
	require.Empty(t, f.queue.queued)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Identifications.WithLabelValues("found", "rego")))
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Actions.WithLabelValues(ActionSighting)))
}

func TestProcessTrustedRegoCreatesCar(t *testing.T) {
	f := newFixture()

	res, err := f.processor.Process(context.Background(), "chat-1", identify.Descriptor{Make: "Mazda", Rego: "NEW001"})
	require.NoError(t, err)

	require.Equal(t, ActionCreated, res.Action)
	require.Equal(t, identify.NotFound, res.Outcome.Status)
	require.Len(t, f.inventory.created, 1)
	require.Equal(t, "NEW001", f.inventory.created[0].Rego)
	require.Empty(t, f.queue.queued)
}

func TestProcessLowConfidenceRegoQueues(t *testing.T) {
	f := newFixture()

	res, err := f.processor.Process(context.Background(), "chat-1", identify.Descriptor{
		Make: "Mazda", Rego: "NEW001", RegoLowConfidence: true,
	})
	require.NoError(t, err)

	require.Equal(t, ActionQueued, res.Action)
	require.NotNil(t, res.VerificationID)
	require.Empty(t, f.inventory.created)
	require.Len(t, f.queue.queued, 1)
}

func TestProcessMultipleFoundQueues(t *testing.T) {
	f := newFixture()

	res, err := f.processor.Process(context.Background(), "chat-1", identify.Descriptor{Make: "Toyota", Model: "Corolla"})
	require.NoError(t, err)

	require.Equal(t, ActionQueued, res.Action)
	require.Equal(t, identify.MultipleFound, f.queue.queued[0].Outcome.Status)
}

func TestProcessUncreatableRegoQueues(t *testing.T) {
	f := newFixture()
	f.inventory.createErr = cars.ErrInvalidRego

	res, err := f.processor.Process(context.Background(), "chat-1", identify.Descriptor{Rego: "TOOLONG99"})
	require.NoError(t, err)
	require.Equal(t, ActionQueued, res.Action)
}

func TestProcessAuditFailure(t *testing.T) {
	f := newFixture()
	f.log.err = errors.New("db down")

	_, err := f.processor.Process(context.Background(), "chat-1", identify.Descriptor{Rego: "ABC123"})
	require.Error(t, err)
	require.Empty(t, f.inventory.sightings)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Actions.WithLabelValues(ActionFailed)))
}

func TestProcessDescriptorsKeepsOrder(t *testing.T) {
	f := newFixture()
	sys := New(testConfig(), f.processor, &fakeExtractor{}, f.metrics, discard())

	results, err := sys.ProcessDescriptors(context.Background(), "chat-1", []identify.Descriptor{
		{Rego: "ABC123"},
		{Make: "Toyota", Model: "Corolla", Description: "red"},
		{Make: "Toyota", Model: "Corolla"},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.Equal(t, f.hilux.ID, *results[0].CarID)
	require.Equal(t, f.corollaB.ID, *results[1].CarID)
	require.Equal(t, ActionQueued, results[2].Action)
}

// slowStore delays every query, widening the gap between identifying a descriptor
// and acting on it.
type slowStore struct {
	*identify.MemoryStore
	delay time.Duration
}

func (s slowStore) Match(ctx context.Context, c identify.Criteria) ([]identify.Record, error) {
	time.Sleep(s.delay)
	return s.MemoryStore.Match(ctx, c)
}

// storeInventory writes created cars back into the store the identifier reads.
type storeInventory struct {
	store   *identify.MemoryStore
	mu      sync.Mutex
	created int
}

func (s *storeInventory) Create(_ context.Context, cmd cars.CreateCommand) (*cars.Car, error) {
	s.mu.Lock()
	s.created++
	s.mu.Unlock()

	car := &cars.Car{ID: uuid.New(), Make: cmd.Make, Rego: cmd.Rego}
	s.store.Add(identify.Record{ID: car.ID, Make: car.Make, Rego: car.Rego})
	return car, nil
}

func (s *storeInventory) ApplySighting(_ context.Context, id uuid.UUID, cmd cars.SightingCommand) (*cars.Car, error) {
	return &cars.Car{ID: id, Location: cmd.Location}, nil
}

func TestProcessRepeatedTrustedRegoCreatesOneCar(t *testing.T) {
	newSystem := func() (System, *Processor, *storeInventory) {
		store := identify.NewMemoryStore()
		inv := &storeInventory{store: store}
		identifier := identify.New(slowStore{MemoryStore: store, delay: 20 * time.Millisecond}, discard())
		p := NewProcessor(identifier, inv, &fakeQueue{}, &fakeLog{}, metrics.New(), discard())
		return New(testConfig(), p, &fakeExtractor{}, metrics.New(), discard()), p, inv
	}
	d := identify.Descriptor{Make: "Toyota", Rego: "XYZ789"}

	t.Run("within one batch", func(t *testing.T) {
		sys, _, inv := newSystem()

		results, err := sys.ProcessDescriptors(context.Background(), "chat-1", []identify.Descriptor{d, d})
		require.NoError(t, err)

		require.Equal(t, ActionCreated, results[0].Action)
		require.Equal(t, ActionSighting, results[1].Action)
		require.Equal(t, *results[0].CarID, *results[1].CarID)
		require.Equal(t, 1, inv.created)

		out, err := sys.Identify(context.Background(), identify.Descriptor{Rego: "xyz 789"})
		require.NoError(t, err)
		require.Equal(t, identify.Found, out.Status)
	})

	t.Run("across batches", func(t *testing.T) {
		sys, p, inv := newSystem()

		var wg sync.WaitGroup
		actions := make([]string, 2)
		for i := range 2 {
			wg.Go(func() {
				res, err := p.Process(context.Background(), "chat-"+string(rune('a'+i)), d)
				require.NoError(t, err)
				actions[i] = res.Action
			})
		}
		wg.Wait()

		require.ElementsMatch(t, []string{ActionCreated, ActionSighting}, actions)
		require.Equal(t, 1, inv.created)

		out, err := sys.Identify(context.Background(), d)
		require.NoError(t, err)
		require.Equal(t, identify.Found, out.Status)
	})
}

func TestProcessDescriptorsRequiresSource(t *testing.T) {
	f := newFixture()
	sys := New(testConfig(), f.processor, &fakeExtractor{}, f.metrics, discard())

	_, err := sys.ProcessDescriptors(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrNoSource)
}

func TestProcessMessageExtractionDisabled(t *testing.T) {
	f := newFixture()
	sys := New(testConfig(), f.processor, extraction.Disabled(), f.metrics, discard())

	_, err := sys.ProcessMessage(context.Background(), extraction.Message{Source: "chat-1", Text: "hilux"})
	require.ErrorIs(t, err, extraction.ErrDisabled)
	require.Equal(t, 503, MapHTTPStatus(err))
}

func TestBatcherCombinesPerSource(t *testing.T) {
	var (
		mu  sync.Mutex
		got = make(map[string]extraction.Message)
	)
	flushed := make(chan struct{}, 4)
	b := NewBatcher(testConfig(), func(_ context.Context, msg extraction.Message) {
		mu.Lock()
		got[msg.Source] = msg
		mu.Unlock()
		flushed <- struct{}{}
	}, discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	require.NoError(t, b.Add(extraction.Message{Source: "a", Text: "white hilux"}))
	require.NoError(t, b.Add(extraction.Message{Source: "b", Text: "red corolla"}))
	require.NoError(t, b.Add(extraction.Message{Source: "a", Text: "now at the wash bay", PhotoText: []string{"ABC123"}}))

	for range 2 {
		select {
		case <-flushed:
		case <-time.After(2 * time.Second):
			t.Fatal("batch not flushed")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "white hilux\nnow at the wash bay", got["a"].Text)
	require.Equal(t, []string{"ABC123"}, got["a"].PhotoText)
	require.Equal(t, "red corolla", got["b"].Text)
	require.Zero(t, b.Pending())
}

func TestBatcherDebounces(t *testing.T) {
	var count int
	var mu sync.Mutex
	b := NewBatcher(Config{Window: "60ms", MaxWait: "10s", Workers: 1}, func(context.Context, extraction.Message) {
		mu.Lock()
		count++
		mu.Unlock()
	}, discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	for range 4 {
		require.NoError(t, b.Add(extraction.Message{Source: "a", Text: "msg"}))
		time.Sleep(20 * time.Millisecond)
	}
	require.Equal(t, 1, b.Pending())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBatcherFlushesOnShutdown(t *testing.T) {
	var got []extraction.Message
	var mu sync.Mutex
	b := NewBatcher(Config{Window: "1h", MaxWait: "1h", Workers: 1}, func(ctx context.Context, msg extraction.Message) {
		require.NoError(t, ctx.Err())
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
	}, discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	require.NoError(t, b.Add(extraction.Message{Source: "a", Text: "one"}))
	require.NoError(t, b.Add(extraction.Message{Source: "b", Text: "two"}))
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return")
	}

	require.Len(t, got, 2)
	require.ErrorIs(t, b.Add(extraction.Message{Source: "a", Text: "late"}), ErrClosed)
}

func TestBatcherRejectsInvalid(t *testing.T) {
	b := NewBatcher(testConfig(), func(context.Context, extraction.Message) {}, discard())

	require.ErrorIs(t, b.Add(extraction.Message{Text: "hi"}), ErrNoSource)
	require.ErrorIs(t, b.Add(extraction.Message{Source: "a", Text: "  "}), ErrEmptyMessage)
}

func TestStartDrainsOnShutdown(t *testing.T) {
	f := newFixture()
	x := &fakeExtractor{descriptors: []identify.Descriptor{{Rego: "ABC123"}}}
	cfg := Config{Window: "1h", MaxWait: "1h", Workers: 1}
	sys := New(cfg, f.processor, x, f.metrics, discard())

	lc := lifecycle.New()
	sys.Start(lc)
	require.NoError(t, lc.Start())

	require.NoError(t, sys.Submit(extraction.Message{Source: "chat-1", Text: "hilux ABC123 at the wash bay"}))
	require.NoError(t, lc.Shutdown(2*time.Second))

	require.Len(t, x.seen, 1)
	require.Contains(t, f.inventory.sightings, f.hilux.ID)
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Messages))
}

func TestHandler(t *testing.T) {
	f := newFixture()
	sys := New(testConfig(), f.processor, &fakeExtractor{}, f.metrics, discard())

	mux := http.NewServeMux()
	patterns := routes.Register(mux, sys.Handler().Routes())
	require.ElementsMatch(t, []string{
		"POST /identify",
		"POST /intake/messages",
		"POST /intake/descriptors",
	}, patterns)

	t.Run("identify is a dry run", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/identify", strings.NewReader(`{"rego":"abc123"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		var body IdentifyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, identify.Found, body.Status)
		require.Equal(t, "rego", body.Stage)
		require.Contains(t, body.Explanation, "rego: rego=abc123 -> 1 match(es)")
		require.Empty(t, f.log.entries)
		require.Empty(t, f.inventory.sightings)
	})

	t.Run("submit queues", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/intake/messages", strings.NewReader(`{"source":"chat-9","text":"red corolla"}`)))
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Contains(t, rec.Body.String(), `"status":"queued"`)
	})

	t.Run("submit rejects empty text", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/intake/messages", strings.NewReader(`{"source":"chat-9"}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("descriptors", func(t *testing.T) {
		body, _ := json.Marshal(DescriptorsRequest{
			Source:      "chat-2",
			Descriptors: []identify.Descriptor{{Rego: "ABC123", Location: "front"}},
		})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/intake/descriptors", bytes.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		var results []Result
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		require.Len(t, results, 1)
		require.Equal(t, ActionSighting, results[0].Action)
	})
}

func TestConfigFinalize(t *testing.T) {
	var c Config
	require.NoError(t, c.Finalize(nil))
	require.Equal(t, 3*time.Second, c.WindowDuration())
	require.Equal(t, 30*time.Second, c.MaxWaitDuration())

	bad := Config{Window: "10s", MaxWait: "1s"}
	require.Error(t, bad.Finalize(nil))
}

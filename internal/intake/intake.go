// Package intake feeds inbound chat messages through extraction and identification
// and applies the outcomes to the inventory.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/forecourt/internal/extraction"
	"github.com/JaimeStill/forecourt/internal/identify"
	"github.com/JaimeStill/forecourt/internal/metrics"
	"github.com/JaimeStill/forecourt/pkg/lifecycle"
)

// System defines the intake contract.
type System interface {
	Handler() *Handler

	// Start runs the batcher for the lifetime of the coordinator.
	Start(lc *lifecycle.Coordinator)

	// Submit queues a chat message for batching.
	Submit(msg extraction.Message) error
	// ProcessMessage extracts and processes a message immediately.
	ProcessMessage(ctx context.Context, msg extraction.Message) ([]Result, error)
	// ProcessDescriptors processes already extracted descriptors of one source.
	ProcessDescriptors(ctx context.Context, source string, ds []identify.Descriptor) ([]Result, error)
	// Identify resolves a descriptor without side effects.
	Identify(ctx context.Context, d identify.Descriptor) (identify.Outcome, error)
}

type service struct {
	cfg       Config
	processor *Processor
	extractor extraction.Extractor
	batcher   *Batcher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates the intake system.
func New(
	cfg Config,
	processor *Processor,
	extractor extraction.Extractor,
	m *metrics.Metrics,
	logger *slog.Logger,
) System {
	s := &service{
		cfg:       cfg,
		processor: processor,
		extractor: extractor,
		metrics:   m,
		logger:    logger.With("system", "intake"),
	}
	s.batcher = NewBatcher(cfg, s.flush, logger)
	return s
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Start(lc *lifecycle.Coordinator) {
	var (
		once sync.Once
		done = make(chan error, 1)
	)

	lc.OnStartup("intake", func(context.Context) error {
		once.Do(func() {
			go func() { done <- s.batcher.Run(lc.Context()) }()
		})
		s.logger.Info("batcher started", "window", s.cfg.Window, "max_wait", s.cfg.MaxWait)
		return nil
	})

	lc.OnShutdown("intake", func(ctx context.Context) error {
		select {
		case err := <-done:
			s.logger.Info("batcher stopped")
			return err
		case <-ctx.Done():
			return fmt.Errorf("batcher drain: %w", ctx.Err())
		}
	})
}

func (s *service) Submit(msg extraction.Message) error {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now()
	}
	if err := s.batcher.Add(msg); err != nil {
		return err
	}
	s.metrics.Messages.Inc()
	return nil
}

func (s *service) ProcessMessage(ctx context.Context, msg extraction.Message) ([]Result, error) {
	descriptors, err := s.extractor.Extract(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", msg.Source, err)
	}
	return s.ProcessDescriptors(ctx, msg.Source, descriptors)
}

// ProcessDescriptors processes ds one at a time, in order, so a car created for one
// descriptor is visible to the next. The first failure stops the rest.
func (s *service) ProcessDescriptors(ctx context.Context, source string, ds []identify.Descriptor) ([]Result, error) {
	if source == "" {
		return nil, ErrNoSource
	}

	results := make([]Result, 0, len(ds))
	for i, d := range ds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := s.processor.Process(ctx, source, d)
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i+1, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *service) Identify(ctx context.Context, d identify.Descriptor) (identify.Outcome, error) {
	return s.processor.Identify(ctx, d)
}

// flush is the batcher's delivery target. Failures are logged since there is no caller
// to return them to.
func (s *service) flush(ctx context.Context, msg extraction.Message) {
	start := time.Now()
	defer s.metrics.ObserveBatch(start)

	results, err := s.ProcessMessage(ctx, msg)
	if err != nil {
		s.logger.Error("batch failed", "source", msg.Source, "error", err)
		return
	}

	s.logger.Info(
		"batch processed",
		"source", msg.Source,
		"descriptors", len(results),
		"duration", time.Since(start),
	)
}

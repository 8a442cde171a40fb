package intake

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/forecourt/internal/extraction"
)

// FlushFunc handles the combined message of one chat batch.
type FlushFunc func(ctx context.Context, msg extraction.Message)

type batch struct {
	first    time.Time
	deadline time.Time
	texts    []string
	photos   []string
	timer    *time.Timer
}

// Batcher debounces messages per source. A chat's messages are combined until the
// chat has been quiet for the window, or the batch reaches its maximum age, and then
// handed to the flush function. Pending batches flush when Run returns.
type Batcher struct {
	window  time.Duration
	maxWait time.Duration
	workers int
	flush   FlushFunc
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]*batch
	closed  bool

	due  chan string
	done chan struct{}
}

// NewBatcher creates a Batcher. Run must be called to deliver batches.
func NewBatcher(cfg Config, flush FlushFunc, logger *slog.Logger) *Batcher {
	return &Batcher{
		window:  cfg.WindowDuration(),
		maxWait: cfg.MaxWaitDuration(),
		workers: cfg.Workers,
		flush:   flush,
		logger:  logger.With("system", "batcher"),
		now:     time.Now,
		pending: make(map[string]*batch),
		due:     make(chan string),
		done:    make(chan struct{}),
	}
}

// Add appends msg to its source's batch and restarts the quiet window.
func (b *Batcher) Add(msg extraction.Message) error {
	if strings.TrimSpace(msg.Source) == "" {
		return ErrNoSource
	}
	if msg.Empty() {
		return ErrEmptyMessage
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	now := b.now()
	bt, ok := b.pending[msg.Source]
	if !ok {
		bt = &batch{first: now}
		b.pending[msg.Source] = bt
	}

	if t := strings.TrimSpace(msg.Text); t != "" {
		bt.texts = append(bt.texts, t)
	}
	bt.photos = append(bt.photos, msg.PhotoText...)

	bt.deadline = now.Add(b.window)
	if limit := bt.first.Add(b.maxWait); bt.deadline.After(limit) {
		bt.deadline = limit
	}

	wait := bt.deadline.Sub(now)
	if bt.timer == nil {
		source := msg.Source
		bt.timer = time.AfterFunc(wait, func() { b.signal(source) })
	} else {
		bt.timer.Reset(wait)
	}
	return nil
}

// Pending returns the number of sources with an open batch.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Batcher) signal(source string) {
	select {
	case b.due <- source:
	case <-b.done:
	}
}

// Run delivers due batches until ctx is cancelled, then stops accepting messages,
// flushes every pending batch, and waits for in-flight flushes.
// Flushes receive a context that is not cancelled with ctx.
func (b *Batcher) Run(ctx context.Context) error {
	flushCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(b.workers)

	dispatch := func(msg extraction.Message) {
		g.Go(func() error {
			b.flush(flushCtx, msg)
			return nil
		})
	}

	for {
		select {
		case source := <-b.due:
			if msg, ok := b.take(source, false); ok {
				dispatch(msg)
			}
		case <-ctx.Done():
			for _, msg := range b.close() {
				dispatch(msg)
			}
			return g.Wait()
		}
	}
}

// take removes the batch of source when it is due, or unconditionally when force is set.
func (b *Batcher) take(source string, force bool) (extraction.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bt, ok := b.pending[source]
	if !ok {
		return extraction.Message{}, false
	}
	if !force && b.now().Before(bt.deadline) {
		return extraction.Message{}, false
	}

	bt.timer.Stop()
	delete(b.pending, source)
	return bt.message(source), true
}

func (b *Batcher) close() []extraction.Message {
	b.mu.Lock()
	b.closed = true
	sources := make([]string, 0, len(b.pending))
	for s := range b.pending {
		sources = append(sources, s)
	}
	b.mu.Unlock()
	close(b.done)

	msgs := make([]extraction.Message, 0, len(sources))
	for _, s := range sources {
		if msg, ok := b.take(s, true); ok {
			msgs = append(msgs, msg)
		}
	}
	if len(msgs) > 0 {
		b.logger.Info("flushing pending batches", "count", len(msgs))
	}
	return msgs
}

func (bt *batch) message(source string) extraction.Message {
	return extraction.Message{
		Source:     source,
		Text:       strings.Join(bt.texts, "\n"),
		PhotoText:  bt.photos,
		ReceivedAt: bt.first,
	}
}

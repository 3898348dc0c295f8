package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	id "healthbridge/pkg/domain"
	dErrors "healthbridge/pkg/domain-errors"
	"healthbridge/pkg/requestcontext"
)

// ErrBufferFull is returned by Emit in async mode when the queue is saturated.
var ErrBufferFull = dErrors.New(dErrors.CodeUnavailable, "audit buffer full")

// Sink receives a copy of every persisted entry (e.g. a Kafka topic).
type Sink interface {
	Publish(ctx context.Context, entry Entry) error
}

// Publisher records audit entries. It is append-only and uses the storage
// layer for persistence so tests can swap sinks easily. Entries that reach the
// store are fanned out to the configured mirrors on a best-effort basis.
type Publisher struct {
	store   Store
	mirrors []Sink
	entries chan queued
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *Metrics
	async   bool
	closeMu sync.RWMutex
	closed  bool
}

type queued struct {
	ctx   context.Context
	entry Entry
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async persistence with the given queue size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.entries = make(chan queued, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets a logger for failure reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMirror adds a sink that receives every persisted entry.
func WithMirror(sink Sink) PublisherOption {
	return func(p *Publisher) {
		if sink != nil {
			p.mirrors = append(p.mirrors, sink)
		}
	}
}

// WithPublisherMetrics enables Prometheus counters.
func WithPublisherMetrics(m *Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.process()
	}
	return p
}

func (p *Publisher) process() {
	defer p.wg.Done()
	for q := range p.entries {
		_ = p.persist(q.ctx, q.entry)
	}
}

// Close stops accepting entries and waits for the async queue to drain.
func (p *Publisher) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	p.closeMu.Unlock()

	if p.async {
		close(p.entries)
		p.wg.Wait()
	}
}

// Emit records entry. ID, Timestamp and request metadata are filled from ctx
// when unset. In sync mode the store error is returned; in async mode Emit
// only fails when the queue is full or the publisher is closed.
func (p *Publisher) Emit(ctx context.Context, entry Entry) error {
	entry = enrich(ctx, entry)

	if !p.async {
		return p.persist(ctx, entry)
	}

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return dErrors.New(dErrors.CodeUnavailable, "audit publisher closed")
	}
	select {
	case p.entries <- queued{ctx: context.WithoutCancel(ctx), entry: entry}:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit buffer full, entry dropped",
			"action", entry.Action,
			"actor_id", entry.ActorID,
			"target_id", entry.TargetID,
		)
		if p.metrics != nil {
			p.metrics.Dropped.Inc()
		}
		return ErrBufferFull
	}
}

// ListByTarget returns entries about targetID, newest first.
func (p *Publisher) ListByTarget(ctx context.Context, targetID string) ([]Entry, error) {
	entries, err := p.store.ListByTarget(ctx, targetID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit entries")
	}
	return entries, nil
}

func (p *Publisher) persist(ctx context.Context, entry Entry) error {
	if err := p.store.Append(ctx, entry); err != nil {
		p.logger.ErrorContext(ctx, "failed to persist audit entry",
			"error", err,
			"action", entry.Action,
			"actor_id", entry.ActorID,
			"target_id", entry.TargetID,
		)
		if p.metrics != nil {
			p.metrics.Failures.WithLabelValues("store").Inc()
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist audit entry")
	}
	if p.metrics != nil {
		p.metrics.EntriesRecorded.WithLabelValues(string(entry.Action)).Inc()
	}

	var mirrorErr error
	for _, sink := range p.mirrors {
		if err := sink.Publish(ctx, entry); err != nil {
			mirrorErr = errors.Join(mirrorErr, err)
		}
	}
	if mirrorErr != nil {
		p.logger.WarnContext(ctx, "failed to mirror audit entry",
			"error", mirrorErr,
			"entry_id", entry.ID.String(),
		)
		if p.metrics != nil {
			p.metrics.Failures.WithLabelValues("mirror").Inc()
		}
	}
	return nil
}

func enrich(ctx context.Context, entry Entry) Entry {
	if entry.ID.IsNil() {
		entry.ID = id.NewAuditEntryID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}
	if entry.ClientIP == "" {
		entry.ClientIP = requestcontext.ClientIP(ctx)
	}
	if entry.Device == "" {
		entry.Device = requestcontext.Device(ctx)
	}
	return entry
}

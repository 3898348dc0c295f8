// Package cache adds a Redis read-through layer in front of a patient directory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"healthbridge/internal/identity/models"
)

const (
	keyPrefix  = "healthbridge:patient:uid:"
	DefaultTTL = 5 * time.Minute

	// DefaultFillTimeout bounds a shared lookup that outlives its callers.
	DefaultFillTimeout = 10 * time.Second
)

// PatientLookup is the directory operation being cached.
type PatientLookup interface {
	FindPatientByHealthUID(ctx context.Context, healthUID string) (*models.Patient, error)
}

// Metrics counts cache outcomes.
type Metrics struct {
	Requests *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "healthbridge_identity_cache_requests_total",
			Help: "Identity cache lookups by result (hit, miss, error, coalesced)",
		}, []string{"result"}),
	}
}

// PatientCache serves lookups from Redis and falls back to next. Only
// successful lookups are cached; a Redis failure degrades to a direct call.
type PatientCache struct {
	next    PatientLookup
	client  redis.UniversalClient
	ttl     time.Duration
	logger  *slog.Logger
	metrics *Metrics

	fills       singleflight.Group
	fillTimeout time.Duration
}

type Option func(*PatientCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *PatientCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *PatientCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithFillTimeout caps how long a shared backing lookup may run once every
// waiting caller has given up.
func WithFillTimeout(d time.Duration) Option {
	return func(c *PatientCache) {
		if d > 0 {
			c.fillTimeout = d
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *PatientCache) {
		c.metrics = m
	}
}

func New(next PatientLookup, client redis.UniversalClient, opts ...Option) *PatientCache {
	c := &PatientCache{
		next:   next,
		client: client,
		ttl:    DefaultTTL,
		logger: slog.Default(),

		fillTimeout: DefaultFillTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindPatientByHealthUID serves from Redis when it can. Concurrent misses
// for the same UID share one backing lookup; each caller still returns as
// soon as its own context is done.
func (c *PatientCache) FindPatientByHealthUID(ctx context.Context, healthUID string) (*models.Patient, error) {
	key := keyPrefix + healthUID

	p, result := c.read(ctx, key)
	c.observe(result)
	if p != nil {
		return p, nil
	}

	ch := c.fills.DoChan(healthUID, func() (any, error) {
		fillCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fillTimeout)
		defer cancel()
		return c.fill(fillCtx, key, healthUID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		cp := *res.Val.(*models.Patient)
		return &cp, nil
	}
}

// fill runs once per flight. It re-reads first because an earlier flight
// for the same UID may have just written the entry.
func (c *PatientCache) fill(ctx context.Context, key, healthUID string) (*models.Patient, error) {
	if p, _ := c.read(ctx, key); p != nil {
		c.observe("coalesced")
		return p, nil
	}

	p, err := c.next.FindPatientByHealthUID(ctx, healthUID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode patient for cache: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "identity cache write failed", "error", err)
	}
	return p, nil
}

// read returns the cached patient and the lookup result label.
func (c *PatientCache) read(ctx context.Context, key string) (*models.Patient, string) {
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p models.Patient
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
			return &p, "hit"
		}
		c.logger.WarnContext(ctx, "discarding corrupt identity cache entry", "key", key)
		return nil, "error"
	case errors.Is(err, redis.Nil):
		return nil, "miss"
	default:
		c.logger.WarnContext(ctx, "identity cache read failed", "error", err)
		return nil, "error"
	}
}

func (c *PatientCache) observe(result string) {
	if c.metrics != nil {
		c.metrics.Requests.WithLabelValues(result).Inc()
	}
}

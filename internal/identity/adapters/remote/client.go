// Package remote resolves patients against an external health identity registry.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"healthbridge/internal/identity/models"
	"healthbridge/internal/sentinel"
	"healthbridge/pkg/platform/circuit"
)

// Config holds connection settings for the registry.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

// DefaultConfig returns conservative client settings.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		RetryCount: 2,
	}
}

type patientResponse struct {
	ID        string `json:"id"`
	HealthUID string `json:"health_uid"`
	Name      string `json:"name"`
}

// Client looks patients up by health UID over HTTP.
type Client struct {
	http    *resty.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBreaker replaces the default circuit breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Client) {
		if b != nil {
			c.breaker = b
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(cfg Config, opts ...Option) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.APIKey != "" {
		httpClient.SetHeader("X-API-Key", cfg.APIKey)
	}

	c := &Client{
		http:    httpClient,
		breaker: circuit.New("identity-registry"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindPatientByHealthUID returns sentinel.ErrNotFound when the registry
// answers 404 and sentinel.ErrUnavailable when the registry cannot be
// reached or the circuit is open.
func (c *Client) FindPatientByHealthUID(ctx context.Context, healthUID string) (*models.Patient, error) {
	if !c.breaker.Allow() {
		return nil, fmt.Errorf("identity registry circuit open: %w", sentinel.ErrUnavailable)
	}

	var body patientResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/patients/" + url.PathEscape(healthUID))
	if err != nil {
		c.breaker.RecordFailure()
		c.logger.WarnContext(ctx, "identity registry call failed", "error", err)
		return nil, fmt.Errorf("identity registry: %v: %w", err, sentinel.ErrUnavailable)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		c.breaker.RecordSuccess()
		return nil, sentinel.ErrNotFound
	case resp.StatusCode() >= http.StatusInternalServerError:
		c.breaker.RecordFailure()
		c.logger.WarnContext(ctx, "identity registry returned server error", "status_code", resp.StatusCode())
		return nil, fmt.Errorf("identity registry status %d: %w", resp.StatusCode(), sentinel.ErrUnavailable)
	case resp.IsError():
		c.breaker.RecordSuccess()
		return nil, fmt.Errorf("identity registry status %d", resp.StatusCode())
	}
	c.breaker.RecordSuccess()

	p := &models.Patient{HealthUID: body.HealthUID, Name: body.Name}
	if err := p.ID.UnmarshalText([]byte(body.ID)); err != nil {
		return nil, fmt.Errorf("identity registry returned invalid patient id %q: %w", body.ID, err)
	}
	return p, nil
}

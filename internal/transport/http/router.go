package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"healthbridge/internal/platform/health"
	"healthbridge/pkg/platform/middleware/admin"
	"healthbridge/pkg/platform/middleware/auth"
	"healthbridge/pkg/platform/middleware/device"
	"healthbridge/pkg/platform/middleware/metadata"
	"healthbridge/pkg/platform/middleware/request"
	"healthbridge/pkg/platform/middleware/requesttime"
)

const defaultMaxBodyBytes = 64 << 10

// Registrar mounts a feature's routes on an authenticated router.
type Registrar interface {
	Register(r chi.Router)
}

// Deps collects everything NewRouter mounts. Metrics, Gatherer, Sweeper and
// AdminToken are optional.
type Deps struct {
	Logger         *slog.Logger
	Metrics        *request.Metrics
	Gatherer       prometheus.Gatherer
	Health         *health.Handler
	Validator      auth.JWTValidator
	Grants         Registrar
	Sweeper        Sweeper
	AdminToken     string
	RequestTimeout time.Duration
	TrustedProxies string
	MaxBodyBytes   int64
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(d Deps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 30 * time.Second
	}
	if d.MaxBodyBytes <= 0 {
		d.MaxBodyBytes = defaultMaxBodyBytes
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(metadata.NewMiddleware(&metadata.Config{
		TrustedProxies: metadata.ParseTrustedProxies(d.TrustedProxies),
	}).Handler)
	r.Use(device.Device)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(d.Logger))
	r.Use(request.Latency(d.Metrics, routePattern))
	r.Use(request.Timeout(d.RequestTimeout))

	if d.Health != nil {
		d.Health.Register(r)
	}
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(request.BodyLimit(d.MaxBodyBytes))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.Validator, d.Logger))
			d.Grants.Register(r)
		})

		if d.Sweeper != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(admin.RequireAdminToken(d.AdminToken, d.Logger))
				r.Post("/sweep", handleSweep(d.Sweeper, d.Logger))
			})
		}
	})

	return r
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		return rctx.RoutePattern()
	}
	return ""
}

// Package requestcontext carries request-scoped values (request ID, client
// metadata, authenticated actor) between middleware, handlers and services.
package requestcontext

import (
	"context"
	"time"

	id "healthbridge/pkg/domain"
)

type (
	contextKeyRequestID struct{}
	contextKeyClientIP  struct{}
	contextKeyUserAgent struct{}
	contextKeyDevice    struct{}
	contextKeyActor     struct{}
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID or "" outside an HTTP request.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyRequestID{}).(string)
	return v
}

// WithClientMetadata stores the resolved client IP and raw User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, clientIP)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyClientIP{}).(string)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyUserAgent{}).(string)
	return v
}

// WithDevice stores a short device label such as "Firefox 120 on Linux".
func WithDevice(ctx context.Context, device string) context.Context {
	return context.WithValue(ctx, contextKeyDevice{}, device)
}

func Device(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyDevice{}).(string)
	return v
}

// WithActor stores the authenticated caller.
func WithActor(ctx context.Context, actor id.Actor) context.Context {
	return context.WithValue(ctx, contextKeyActor{}, actor)
}

// Actor returns the authenticated caller and whether one was set.
func Actor(ctx context.Context) (id.Actor, bool) {
	actor, ok := ctx.Value(contextKeyActor{}).(id.Actor)
	return actor, ok && actor != nil
}

type contextKeyRequestTime struct{}

// WithTime pins the request-scoped "now". Workers and tests use it to run a
// batch against a single instant.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t)
}

// Now returns the request-scoped time, falling back to time.Now() outside a request.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

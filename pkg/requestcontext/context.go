// Package requestcontext carries request-scoped values from the HTTP edge
// into the service and pipeline layers without importing net/http.
//
// Accessors return the zero value when nothing was set, except Now, which
// falls back to the wall clock so CLI and background callers need no setup.
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	requestIDKey key = iota
	subjectKey
	clientIPKey
	userAgentKey
	requestTimeKey
)

func lookup[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

func str(ctx context.Context, k key) string {
	s, _ := lookup[string](ctx, k)
	return s
}

func RequestID(ctx context.Context) string { return str(ctx, requestIDKey) }

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// Subject is the authenticated API caller, empty when auth is off.
func Subject(ctx context.Context) string { return str(ctx, subjectKey) }

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

func ClientIP(ctx context.Context) string  { return str(ctx, clientIPKey) }
func UserAgent(ctx context.Context) string { return str(ctx, userAgentKey) }

// WithClientMetadata stores the caller's address and raw User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey, clientIP)
	return context.WithValue(ctx, userAgentKey, userAgent)
}

// Now is the time pinned for this request, so every verdict stamped while
// serving it agrees.
func Now(ctx context.Context) time.Time {
	if t, ok := lookup[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}

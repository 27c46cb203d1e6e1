package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextPrincipalKey ctxKey = "principal"

// Principal is the resolved identity threaded through every operation call.
// It is placed in the request context by the auth middleware; services never
// reach for ambient session state.
type Principal struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	PreferredLanguage string `json:"preferred_language"`
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextPrincipalKey).(*Principal)
	return p, ok && p != nil
}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, p)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}

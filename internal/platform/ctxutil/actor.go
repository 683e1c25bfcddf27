package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type actorKey struct{}

// Actor is the authenticated caller as asserted by the bearer token.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func WithActor(ctx context.Context, a *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func GetActor(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	if a, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return a
	}
	return nil
}

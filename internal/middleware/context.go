package middleware

import (
	"context"

	"m-cosmetics/internal/domain"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor stores the acting identity in the context
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the acting identity, anonymous when none was set
func ActorFromContext(ctx context.Context) *domain.Actor {
	if actor, ok := ctx.Value(actorKey).(*domain.Actor); ok && actor != nil {
		return actor
	}
	return domain.Anonymous()
}

// Package ctxutil provides typed context accessors for request-scoped values.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	actorIDKey   ctxKey = "actor_id"
	actorNameKey ctxKey = "actor_name"
	requestIDKey ctxKey = "request_id"
)

// WithActor stores the authenticated actor's identity in the context.
func WithActor(ctx context.Context, id uuid.UUID, name string) context.Context {
	ctx = context.WithValue(ctx, actorIDKey, id)
	return context.WithValue(ctx, actorNameKey, name)
}

// ActorIDFromCtx extracts the actor ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func ActorIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// ActorNameFromCtx extracts the actor's display name from the context.
// Returns an empty string if absent.
func ActorNameFromCtx(ctx context.Context) string {
	name, _ := ctx.Value(actorNameKey).(string)
	return name
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

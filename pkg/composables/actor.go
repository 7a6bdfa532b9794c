package composables

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/iota-uz/approvals/pkg/constants"
)

var ErrNoActor = errors.New("no actor found in context")

// WithActor attaches the acting principal's id to the context. The HTTP
// boundary resolves the actor; services only read it.
func WithActor(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, constants.ActorKey, actorID)
}

func UseActor(ctx context.Context) (uuid.UUID, error) {
	actor := ctx.Value(constants.ActorKey)
	if actor == nil {
		return uuid.Nil, ErrNoActor
	}
	id, ok := actor.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoActor
	}
	return id, nil
}

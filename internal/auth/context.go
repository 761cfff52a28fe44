package auth

import (
	"context"

	"github.com/fekuna/omnipos-pharmacy-service/internal/model"
)

// Actor is the authenticated caller, taken from verified token claims only.
type Actor struct {
	ID   string
	Name string
	Role model.Role
}

func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

package service

import "context"

type actorKey struct{}

// WithActor records the acting user on ctx. Notifications are never sent to
// the actor about their own changes.
func WithActor(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, userID)
}

// ActorFrom returns the acting user recorded by WithActor.
func ActorFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actorKey{}).(string)
	return id, ok && id != ""
}

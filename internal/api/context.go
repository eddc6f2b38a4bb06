package api

import (
	"context"

	"eventbooking/internal/user"
)

type ctxKey string

const ctxKeyActor ctxKey = "actor"

func WithActor(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, ctxKeyActor, u)
}

func ActorFromContext(ctx context.Context) *user.User {
	v := ctx.Value(ctxKeyActor)
	if v == nil {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}

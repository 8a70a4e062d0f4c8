package auth

import (
	"context"
)

type ctxKey string

const (
	claimsKey ctxKey = "userClaims"
)

func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func FromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(claimsKey).(Claims)
	return c, ok
}

// Subject returns the authenticated user id, or "" outside the guard.
func Subject(ctx context.Context) string {
	c, _ := FromContext(ctx)
	return c.UserID
}

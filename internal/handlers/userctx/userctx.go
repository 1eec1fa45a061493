// Package userctx carries the authenticated user through the request context.
package userctx

import (
	"context"

	"github.com/saed34123/investa/internal/models"
)

type ctxKey struct{}

// New returns a context with the user attached.
func New(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext extracts the user set by the auth middleware.
func FromContext(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(models.User)
	return u, ok
}

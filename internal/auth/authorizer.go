package auth

import (
	"context"
	"errors"

	"escrowfund/internal/escrow"
)

var ErrUnauthorized = errors.New("caller did not prove control of this identity")

type identityKey struct{}

// WithIdentity stamps the authenticated identity onto the request context.
func WithIdentity(ctx context.Context, id escrow.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (escrow.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(escrow.Identity)
	return id, ok
}

// ContextAuthorizer implements the engine's authorization capability: an
// operation acting for an identity passes only when the request was
// authenticated as that same identity.
type ContextAuthorizer struct{}

func (ContextAuthorizer) RequireAuthorized(ctx context.Context, id escrow.Identity) error {
	got, ok := IdentityFromContext(ctx)
	if !ok || got != id {
		return ErrUnauthorized
	}
	return nil
}

// Package auth resolves bearer tokens into identities and decides what an
// identity may see and do.
package auth

import (
	"context"

	"empresspc/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Identity is the authenticated caller, passed explicitly into every service
// call that filters by ownership.
type Identity struct {
	ID   primitive.ObjectID
	Role models.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

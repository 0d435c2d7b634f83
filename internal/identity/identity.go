// Package identity carries the verified caller identity from the gateway to
// downstream handlers. The gateway writes it into forwarded headers; services
// read it back into a typed context value instead of touching raw headers.
package identity

import (
	"context"
	"net/http"
)

const (
	HeaderUserID   = "x-user-id"
	HeaderUserRole = "x-user-role"
)

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
	RoleRider    = "rider"
	RoleAdmin    = "admin"
)

type Identity struct {
	UserID string
	Role   string
}

type contextKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// FromHeaders reads the gateway-injected identity headers.
func FromHeaders(r *http.Request) (Identity, bool) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		return Identity{}, false
	}
	role := r.Header.Get(HeaderUserRole)
	if role == "" {
		role = RoleCustomer
	}
	return Identity{UserID: userID, Role: role}, true
}

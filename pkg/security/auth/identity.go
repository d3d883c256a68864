// Package auth carries the resolved caller identity through the system.
//
// Authentication itself is an external collaborator: something upstream
// verifies credentials and hands this package a resolved Identity. The core
// only consumes it, chiefly for the handler initials embedded in exhibit
// numbers and for the superuser gate. Identity travels explicitly, either as
// a parameter or on the context, never as ambient global state.
package auth

import "context"

// Identity is the resolved identity of the current caller.
type Identity struct {
	Username  string
	FirstName string
	LastName  string
	Superuser bool
}

// contextKey is a private type to avoid context key collisions.
type contextKey struct{}

var identityKey = contextKey{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext extracts the caller identity from the context.
// The second return value reports whether an identity was present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

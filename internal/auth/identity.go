package auth

import "context"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type identityCtxKey struct{}

// Identity is the authenticated caller, injected into the request
// context by the auth middleware.
type Identity struct {
	UserID int
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityCtxKey{}).(Identity)
	return identity, ok
}

// CanModify is the single ownership check used across handlers: a resource
// can be mutated by its owner or by an admin.
func CanModify(ownerID int, caller Identity) bool {
	return ownerID == caller.UserID || caller.IsAdmin()
}

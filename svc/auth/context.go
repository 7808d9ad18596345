package auth

import "context"

type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var userContextKey = &contextKey{name: "auth_user"}

// SetUser stores the authenticated user in the context.
func SetUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user set by RequireUser.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

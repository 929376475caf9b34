package session

import "context"

// Auth is the authenticated session attached to a request context.
type Auth struct {
	// Token is the opaque token the client presented.
	Token string
	// Session is the server-side state the token resolved to.
	Session Session
}

type authKey struct{}

// SetAuth returns a context carrying the authenticated session.
func SetAuth(ctx context.Context, auth Auth) context.Context {
	return context.WithValue(ctx, authKey{}, auth)
}

// GetAuth returns the authenticated session from the context.
func GetAuth(ctx context.Context) (Auth, bool) {
	auth, ok := ctx.Value(authKey{}).(Auth)
	return auth, ok
}

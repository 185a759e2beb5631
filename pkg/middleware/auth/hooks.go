package auth

import "github.com/joeydtaylor/steeze-fsrouter/pkg/event"

// RequireAuth is an onRequest hook: the request must carry a Bearer token.
// With a secret configured the token must also verify. The caller is
// stored under UserKey.
func (m *Middleware) RequireAuth(c *event.Context) error {
	if u, ok := UserFrom(c); ok {
		c.Set(UserKey, u)
		return nil
	}
	u, err := m.identify(c.Request)
	switch err {
	case nil:
		c.Set(UserKey, u)
		return nil
	case errNoToken:
		return event.Unauthorized("authentication token required")
	default:
		return event.Unauthorized("authentication token invalid").WithCause(err)
	}
}

// RequireAdmin is an onRequest hook that only lets the admin role through.
// Without a secret, an opaque token equal to the admin role is accepted.
func (m *Middleware) RequireAdmin(c *event.Context) error {
	if u, ok := UserFrom(c); ok && u.Username != "" {
		if u.Role.Name == m.adminRole {
			return nil
		}
		return event.Forbidden("administrator permissions required")
	}
	if u, err := m.identify(c.Request); err == nil {
		if u.Role.Name == m.adminRole {
			c.Set(UserKey, u)
			return nil
		}
		if u.AuthenticationSource.Provider == ProviderBearer {
			if tok, ok := bearer(c.Request); ok && tok == m.adminRole {
				return nil
			}
		}
	}
	return event.Forbidden("administrator permissions required")
}

// UserFrom returns the caller recorded by RequireAuth or by the HTTP
// middleware.
func UserFrom(c *event.Context) (User, bool) {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(User); ok {
			return u, true
		}
	}
	if u, ok := c.Context().Value(userCtxKey).(User); ok && u.Username != "" {
		return u, true
	}
	return User{}, false
}

package auth

type Role struct {
	Name string `json:"name"`
}

type AuthenticationSource struct {
	Provider string `json:"provider"`
}

type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
}

// Providers reported in AuthenticationSource.
const (
	ProviderJWT    = "jwt"
	ProviderBearer = "bearer" // opaque token, accepted when no secret is configured
	ProviderDev    = "dev"
)

type contextKey struct{ name string }

var userCtxKey = &contextKey{"user"}

// UserKey is the event.Context local the hooks store the caller under.
const UserKey = "auth.user"

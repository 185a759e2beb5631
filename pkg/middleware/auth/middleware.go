package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Middleware struct {
	secret    []byte
	issuer    string
	audience  string
	leeway    time.Duration
	adminRole string
	devBypass bool
}

type Options struct {
	Secret    string
	Issuer    string
	Audience  string
	Leeway    time.Duration
	AdminRole string
	DevBypass bool
}

func New(o Options) *Middleware {
	role := strings.TrimSpace(o.AdminRole)
	if role == "" {
		role = "admin"
	}
	return &Middleware{
		secret:    []byte(o.Secret),
		issuer:    o.Issuer,
		audience:  o.Audience,
		leeway:    o.Leeway,
		adminRole: role,
		devBypass: o.DevBypass,
	}
}

var (
	errNoToken      = errors.New("no bearer token")
	errInvalidToken = errors.New("invalid token")
)

// identify resolves the caller of r. Dev headers win when the bypass is on;
// otherwise a Bearer token is required.
func (m *Middleware) identify(r *http.Request) (User, error) {
	if m.devBypass {
		if u := devUserFromHeaders(r); u.Username != "" {
			return u, nil
		}
	}
	raw, ok := bearer(r)
	if !ok {
		return User{}, errNoToken
	}
	if len(m.secret) == 0 {
		return User{AuthenticationSource: AuthenticationSource{Provider: ProviderBearer}}, nil
	}
	return m.validateToken(raw)
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	return tok, tok != ""
}

// Dev-only user injection via headers when AUTH_DEV_BYPASS=true
func devUserFromHeaders(r *http.Request) User {
	user := r.Header.Get("X-Dev-User")
	if user == "" {
		return User{}
	}
	return User{
		Username:             user,
		AuthenticationSource: AuthenticationSource{Provider: ProviderDev},
		Role:                 Role{Name: r.Header.Get("X-Dev-Role")},
	}
}

type claims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid,omitempty"`
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

func (m *Middleware) validateToken(raw string) (User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.leeway),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var c claims
	tok, err := jwt.NewParser(opts...).ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return User{}, errInvalidToken
	}

	username := c.UID
	if username == "" {
		username = c.Subject
	}
	if username == "" {
		return User{}, errInvalidToken
	}
	role := c.Role
	if role == "" && len(c.Roles) > 0 {
		role = c.Roles[0]
	}
	return User{
		Username:             username,
		AuthenticationSource: AuthenticationSource{Provider: ProviderJWT},
		Role:                 Role{Name: role},
	}, nil
}

// Sign issues an HS256 token for u; used by the token command and tests.
func (m *Middleware) Sign(u User, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("no signing secret configured")
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: u.Role.Name,
	}
	if m.audience != "" {
		c.Audience = jwt.ClaimStrings{m.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

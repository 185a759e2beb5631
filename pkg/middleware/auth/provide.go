package auth

import (
	"github.com/joeydtaylor/steeze-fsrouter/pkg/config"
	"go.uber.org/fx"
)

// ProvideAuthentication builds the middleware from the auth config section
// and installs it as the shared one.
func ProvideAuthentication(cfg config.Config) *Middleware {
	m := New(Options{
		Secret:    cfg.Auth.JWTSecret,
		Issuer:    cfg.Auth.Issuer,
		Audience:  cfg.Auth.Audience,
		Leeway:    cfg.Auth.Leeway(),
		AdminRole: cfg.Auth.AdminRole,
		DevBypass: cfg.Auth.DevBypass,
	})
	SetShared(m)
	return m
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)

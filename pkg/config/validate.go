// config/validate.go
package config

import (
	"fmt"
	"path"
	"strings"
)

func (c *Config) normalize() {
	s := &c.Server
	s.Service = strings.TrimSpace(s.Service)
	if s.Service == "" {
		s.Service = "steeze-fsrouter"
	}
	if s.Port == 0 {
		s.Port = 3000
	}
	if s.ReadTimeoutMS == 0 {
		s.ReadTimeoutMS = 15_000
	}
	if s.WriteTimeoutMS == 0 {
		s.WriteTimeoutMS = 30_000
	}
	if s.IdleTimeoutMS == 0 {
		s.IdleTimeoutMS = 60_000
	}
	if s.ShutdownTimeoutMS == 0 {
		s.ShutdownTimeoutMS = 10_000
	}
	if s.MaxBodyBytes == 0 {
		s.MaxBodyBytes = 1 << 20
	}

	r := &c.Routes
	if r.AppRoot == "" {
		r.AppRoot = "app"
	}
	if r.RoutesDir == "" {
		r.RoutesDir = "routes"
	}
	if r.ModulesDir == "" {
		r.ModulesDir = "modules"
	}
	if r.ModuleMount == "" {
		r.ModuleMount = "/api"
	}
	r.ModuleMount = "/" + strings.Trim(r.ModuleMount, "/")
	if r.Extensions == nil {
		r.Extensions = []string{".go"}
	}
	for i, e := range r.Extensions {
		e = strings.TrimSpace(e)
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		r.Extensions[i] = e
	}
	if r.Exclude == nil {
		r.Exclude = []string{"_test.go"}
	}

	l := &c.Log
	if l.Dir == "" {
		l.Dir = "log"
	}
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = "info"
	}

	if c.Auth.AdminRole == "" {
		c.Auth.AdminRole = "admin"
	}
	if c.Auth.LeewayMS == 0 {
		c.Auth.LeewayMS = 60_000
	}

	rl := &c.RateLimit
	if rl.Strategy == "" {
		rl.Strategy = StrategySlidingWindow
	}
	if rl.WindowMS == 0 {
		rl.WindowMS = 60_000
	}
	if rl.Max == 0 {
		rl.Max = 10
	}
	if rl.Burst == 0 {
		rl.Burst = rl.Max
	}
	if rl.SweepMS == 0 {
		rl.SweepMS = rl.WindowMS
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks a normalised config.
func (c *Config) Validate() error {
	if c.Server.ListenAddress == "" && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if (c.Server.CertFile == "") != (c.Server.KeyFile == "") {
		return fmt.Errorf("server.cert_file and server.key_file must be set together")
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must be >= 0")
	}
	for _, f := range []struct {
		name string
		v    int
	}{
		{"server.read_timeout_ms", c.Server.ReadTimeoutMS},
		{"server.write_timeout_ms", c.Server.WriteTimeoutMS},
		{"server.idle_timeout_ms", c.Server.IdleTimeoutMS},
		{"server.shutdown_timeout_ms", c.Server.ShutdownTimeoutMS},
		{"auth.leeway_ms", c.Auth.LeewayMS},
	} {
		if f.v < 0 {
			return fmt.Errorf("%s must be >= 0", f.name)
		}
	}

	if len(c.Routes.Extensions) == 0 {
		return fmt.Errorf("routes.extensions must not be empty")
	}
	for _, e := range c.Routes.Extensions {
		if e == "" || e == "." {
			return fmt.Errorf("routes.extensions contains an empty extension")
		}
	}
	if path.Clean(c.Routes.ModuleMount) != c.Routes.ModuleMount {
		return fmt.Errorf("routes.module_mount %q is not a clean path", c.Routes.ModuleMount)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q invalid (debug|info|warn|error)", c.Log.Level)
	}

	switch c.RateLimit.Strategy {
	case StrategySlidingWindow, StrategyTokenBucket:
	default:
		return fmt.Errorf("rate_limit.strategy %q invalid (sliding_window|token_bucket)", c.RateLimit.Strategy)
	}
	if c.RateLimit.WindowMS <= 0 || c.RateLimit.Max <= 0 || c.RateLimit.Burst <= 0 || c.RateLimit.SweepMS <= 0 {
		return fmt.Errorf("rate_limit window_ms, max, burst and sweep_ms must be > 0")
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}
	return nil
}

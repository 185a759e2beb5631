// config/load.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	PathEnv     = "STEEZE_CONFIG"
	DefaultPath = "server.toml"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

// FromEnv loads the file named by STEEZE_CONFIG (server.toml by default).
func FromEnv() (Config, error) {
	p := strings.TrimSpace(os.Getenv(PathEnv))
	if p == "" {
		p = DefaultPath
	}
	return Load(p)
}

// Load reads a TOML or YAML file (by extension), applies environment
// overrides, fills defaults and validates. A missing file is not an error.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, err
	default:
		if err := decode(path, b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, b []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return toml.Unmarshal(b, cfg)
	}
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(k string, dst *string) {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			*dst = v
		}
	}
	str("SERVER_LISTEN_ADDRESS", &c.Server.ListenAddress)
	str("SSL_SERVER_CERTIFICATE", &c.Server.CertFile)
	str("SSL_SERVER_KEY", &c.Server.KeyFile)
	str("STEEZE_APP_ROOT", &c.Routes.AppRoot)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_DIR", &c.Log.Dir)
	str("AUTH_JWT_SECRET", &c.Auth.JWTSecret)
	str("ADMIN_ROLE_NAME", &c.Auth.AdminRole)

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT %q: %w", v, err)
		}
		c.Server.Port = n
	}
	if v := strings.TrimSpace(getenv("AUTH_DEV_BYPASS")); v != "" {
		c.Auth.DevBypass = v == "true"
	}
	return nil
}

// Addr is the address the HTTP server listens on.
func (s Server) Addr() string {
	if s.ListenAddress != "" {
		return s.ListenAddress
	}
	return ":" + strconv.Itoa(s.Port)
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (s Server) ReadTimeout() time.Duration     { return ms(s.ReadTimeoutMS) }
func (s Server) WriteTimeout() time.Duration    { return ms(s.WriteTimeoutMS) }
func (s Server) IdleTimeout() time.Duration     { return ms(s.IdleTimeoutMS) }
func (s Server) ShutdownTimeout() time.Duration { return ms(s.ShutdownTimeoutMS) }
func (r RateLimit) Window() time.Duration       { return ms(r.WindowMS) }
func (r RateLimit) SweepEvery() time.Duration   { return ms(r.SweepMS) }
func (a Auth) Leeway() time.Duration            { return ms(a.LeewayMS) }

// RoutesRoot is the directory holding the global route tree.
func (r Routes) RoutesRoot() string { return filepath.Join(r.AppRoot, r.RoutesDir) }

// ModulesRoot is the directory holding one sub-directory per module.
func (r Routes) ModulesRoot() string { return filepath.Join(r.AppRoot, r.ModulesDir) }

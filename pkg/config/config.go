// config/config.go
package config

/* ===========================
   Top-level config
   =========================== */

type Config struct {
	Server    Server    `toml:"server" yaml:"server"`
	Routes    Routes    `toml:"routes" yaml:"routes"`
	Log       Log       `toml:"log" yaml:"log"`
	Auth      Auth      `toml:"auth" yaml:"auth"`
	RateLimit RateLimit `toml:"rate_limit" yaml:"rate_limit"`
	Metrics   Metrics   `toml:"metrics" yaml:"metrics"`
}

/* ===========================
   HTTP server
   =========================== */

type Server struct {
	Service           string `toml:"service" yaml:"service"`
	ListenAddress     string `toml:"listen_address" yaml:"listen_address"` // wins over Port when set
	Port              int    `toml:"port" yaml:"port"`
	CertFile          string `toml:"cert_file" yaml:"cert_file"`
	KeyFile           string `toml:"key_file" yaml:"key_file"`
	ReadTimeoutMS     int    `toml:"read_timeout_ms" yaml:"read_timeout_ms"`
	WriteTimeoutMS    int    `toml:"write_timeout_ms" yaml:"write_timeout_ms"`
	IdleTimeoutMS     int    `toml:"idle_timeout_ms" yaml:"idle_timeout_ms"`
	ShutdownTimeoutMS int    `toml:"shutdown_timeout_ms" yaml:"shutdown_timeout_ms"`
	MaxBodyBytes      int64  `toml:"max_body_bytes" yaml:"max_body_bytes"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For /
	// X-Real-IP. Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool   `toml:"trust_proxy_headers" yaml:"trust_proxy_headers"`
}

/* ===========================
   Route discovery
   =========================== */

type Routes struct {
	AppRoot     string   `toml:"app_root" yaml:"app_root"`         // holds routes/ and modules/
	RoutesDir   string   `toml:"routes_dir" yaml:"routes_dir"`     // relative to AppRoot
	ModulesDir  string   `toml:"modules_dir" yaml:"modules_dir"`   // relative to AppRoot
	ModuleMount string   `toml:"module_mount" yaml:"module_mount"` // URL prefix for module trees
	Extensions  []string `toml:"extensions" yaml:"extensions"`
	Exclude     []string `toml:"exclude" yaml:"exclude"` // file name suffixes never treated as routes
}

/* ===========================
   Logging
   =========================== */

type Log struct {
	Dir       string   `toml:"dir" yaml:"dir"`
	Level     string   `toml:"level" yaml:"level"`
	Console   *bool    `toml:"console" yaml:"console"`
	BodyPaths []string `toml:"body_paths" yaml:"body_paths"` // request bodies logged only for these paths
}

/* ===========================
   Auth
   =========================== */

type Auth struct {
	JWTSecret string `toml:"jwt_secret" yaml:"jwt_secret"` // HS256; empty accepts opaque bearer tokens
	Issuer    string `toml:"issuer" yaml:"issuer"`
	Audience  string `toml:"audience" yaml:"audience"`
	LeewayMS  int    `toml:"leeway_ms" yaml:"leeway_ms"`
	AdminRole string `toml:"admin_role" yaml:"admin_role"`
	DevBypass bool   `toml:"dev_bypass" yaml:"dev_bypass"` // NEVER enable in prod
}

/* ===========================
   Rate limiting
   =========================== */

type RateLimitStrategy string

const (
	StrategySlidingWindow RateLimitStrategy = "sliding_window"
	StrategyTokenBucket   RateLimitStrategy = "token_bucket"
)

type RateLimit struct {
	Strategy RateLimitStrategy `toml:"strategy" yaml:"strategy"`
	WindowMS int               `toml:"window_ms" yaml:"window_ms"`
	Max      int               `toml:"max" yaml:"max"`     // requests per window
	Burst    int               `toml:"burst" yaml:"burst"` // token bucket only
	SweepMS  int               `toml:"sweep_ms" yaml:"sweep_ms"`
}

/* ===========================
   Metrics
   =========================== */

type Metrics struct {
	Path      string   `toml:"path" yaml:"path"`
	SkipPaths []string `toml:"skip_paths" yaml:"skip_paths"`
}

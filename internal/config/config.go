package config

import (
	"time"
	_ "time/tzdata"
)

type Config struct {
	Environment string `mapstructure:"environment" yaml:"environment"`
	Port        int    `mapstructure:"port" yaml:"port"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	// Timezone is the IANA zone in which user-entered dates and times are
	// interpreted ("UTC", "Europe/Riga").
	Timezone string `mapstructure:"timezone" yaml:"timezone"`

	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	CORS      CORSConfig      `mapstructure:"cors" yaml:"cors"`
	I18n      I18nConfig      `mapstructure:"i18n" yaml:"i18n"`
	Widgets   WidgetsConfig   `mapstructure:"widgets" yaml:"widgets"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Tracing   TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
}

type AuthConfig struct {
	Enabled bool      `mapstructure:"enabled" yaml:"enabled"`
	JWT     JWTConfig `mapstructure:"jwt" yaml:"jwt"`
	// DefaultUser is the identity injected when authentication is disabled.
	DefaultUser DefaultUserConfig `mapstructure:"default_user" yaml:"default_user"`
}

type JWTConfig struct {
	Secret        string `mapstructure:"secret" yaml:"secret"`
	Issuer        string `mapstructure:"issuer" yaml:"issuer"`
	ExpiryMinutes int    `mapstructure:"expiry_minutes" yaml:"expiry_minutes"`
}

type DefaultUserConfig struct {
	UserID    string   `mapstructure:"userid" yaml:"userid"`
	Username  string   `mapstructure:"username" yaml:"username"`
	Type      int      `mapstructure:"type" yaml:"type"`
	DebugMode int      `mapstructure:"debug_mode" yaml:"debug_mode"`
	Rules     []string `mapstructure:"rules" yaml:"rules"`
}

// CacheConfig configures the Valkey store behind tokens, users, event
// correlations and remembered list pages. With Enabled false, or when the
// server cannot be reached, an in-process store is used.
type CacheConfig struct {
	Enabled  bool     `mapstructure:"enabled" yaml:"enabled"`
	Mode     string   `mapstructure:"mode" yaml:"mode"` // single | cluster
	Addr     string   `mapstructure:"addr" yaml:"addr"`
	Nodes    []string `mapstructure:"nodes" yaml:"nodes"`
	DB       int      `mapstructure:"db" yaml:"db"`
	Password string   `mapstructure:"password" yaml:"password"`
	TTL      int      `mapstructure:"ttl" yaml:"ttl"` // seconds
	// RetryInterval is how often, in seconds, an unreachable server is
	// retried before swapping it in for the in-process store.
	RetryInterval int `mapstructure:"retry_interval" yaml:"retry_interval"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language" yaml:"default_language"`
}

type WidgetsConfig struct {
	// TemplateDashboardIDs lists dashboards whose widgets are validated with
	// the template dashboard field set.
	TemplateDashboardIDs []string `mapstructure:"template_dashboard_ids" yaml:"template_dashboard_ids"`
}

// RateLimitConfig throttles mutating endpoints per client.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	RPS     float64 `mapstructure:"rps" yaml:"rps"`
	Burst   int     `mapstructure:"burst" yaml:"burst"`
}

// TracingConfig points span export at an OTLP/gRPC collector. Nothing is
// exported while Endpoint is empty.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	Insecure    bool    `mapstructure:"insecure" yaml:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

// CacheTTL returns the default cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// Location resolves Timezone. It falls back to UTC for an empty value.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// IsTemplateDashboard reports whether dashboardID is configured as a
// template dashboard.
func (c *Config) IsTemplateDashboard(dashboardID string) bool {
	if dashboardID == "" {
		return false
	}
	for _, id := range c.Widgets.TemplateDashboardIDs {
		if id == dashboardID {
			return true
		}
	}
	return false
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable mapped onto a config key:
// MIRADOR_CONSOLE_CACHE_ADDR sets cache.addr.
const EnvPrefix = "MIRADOR_CONSOLE"

// Load loads configuration from various sources with priority order:
// 1. Environment variables
// 2. Configuration file (config.yaml, or the file named by CONFIG_PATH)
// 3. Default values
func Load() (*Config, error) {
	cfg, _, err := LoadFile(os.Getenv("CONFIG_PATH"))
	return cfg, err
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations. The returned viper instance is the one to watch.
func LoadFile(path string) (*Config, *viper.Viper, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/mirador-console/")
		v.AddConfigPath("./configs/")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: env vars and defaults only.
	}

	overrideWithEnvVars(v)
	applyEnvironmentDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	return cfg, v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("timezone", "UTC")

	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.issuer", "mirador-console")
	v.SetDefault("auth.jwt.expiry_minutes", 1440)
	v.SetDefault("auth.default_user.userid", "1")
	v.SetDefault("auth.default_user.username", "Admin")
	v.SetDefault("auth.default_user.type", 3)
	v.SetDefault("auth.default_user.debug_mode", 0)
	v.SetDefault("auth.default_user.rules", []string{"*"})

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.mode", "single")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.nodes", []string{})
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.ttl", 300)
	v.SetDefault("cache.retry_interval", 30)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "Authorization", "Accept-Language", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID", "X-Rate-Limit-Limit"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 3600)

	v.SetDefault("i18n.default_language", "en")

	v.SetDefault("widgets.template_dashboard_ids", []string{})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

// overrideWithEnvVars handles the unprefixed variables set by container
// platforms.
func overrideWithEnvVars(v *viper.Viper) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			v.Set("port", p)
		}
	}

	if env := os.Getenv("ENVIRONMENT"); env != "" {
		v.Set("environment", env)
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		v.Set("log_level", logLevel)
	}

	if addr := os.Getenv("CACHE_ADDR"); addr != "" {
		v.Set("cache.addr", addr)
		v.Set("cache.enabled", true)
	}

	if nodes := os.Getenv("CACHE_NODES"); nodes != "" {
		list := strings.Split(nodes, ",")
		for i, node := range list {
			list[i] = strings.TrimSpace(node)
		}
		v.Set("cache.nodes", list)
		v.Set("cache.mode", "cluster")
		v.Set("cache.enabled", true)
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		v.Set("auth.jwt.secret", jwtSecret)
	}

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		v.Set("tracing.endpoint", endpoint)
	}
}

func validateConfig(config *Config) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Port)
	}

	validLogLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !contains(validLogLevels, config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	validEnvironments := []string{"development", "staging", "production", "test"}
	if !contains(validEnvironments, config.Environment) {
		return fmt.Errorf("invalid environment: %s", config.Environment)
	}

	if _, err := config.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", config.Timezone, err)
	}

	if config.Auth.Enabled && config.Auth.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required when authentication is enabled")
	}

	if config.Cache.TTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
	}
	if config.Cache.Enabled {
		switch config.Cache.Mode {
		case "single":
			if err := ValidateCacheNode(config.Cache.Addr); err != nil {
				return err
			}
		case "cluster":
			if len(config.Cache.Nodes) == 0 {
				return fmt.Errorf("at least one Valkey cluster cache node is required")
			}
			for _, node := range config.Cache.Nodes {
				if err := ValidateCacheNode(node); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("invalid cache mode: %s", config.Cache.Mode)
		}
	}

	if config.RateLimit.Enabled && (config.RateLimit.RPS <= 0 || config.RateLimit.Burst < 1) {
		return fmt.Errorf("rate limit needs a positive rps and burst")
	}

	if r := config.Tracing.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("tracing sample ratio must be within [0, 1]: %v", r)
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

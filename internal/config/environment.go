package config

import "github.com/spf13/viper"

// applyEnvironmentDefaults replaces the generic defaults with the ones of the
// selected environment. Values from the config file or the environment
// still win.
func applyEnvironmentDefaults(v *viper.Viper) {
	switch v.GetString("environment") {
	case "production":
		applyProductionDefaults(v)
	case "staging":
		applyStagingDefaults(v)
	case "test":
		applyTestDefaults(v)
	}
}

func applyProductionDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "warn")
	v.SetDefault("auth.enabled", true)
	v.SetDefault("cache.ttl", 600)
	v.SetDefault("cors.allowed_origins", []string{})
}

func applyStagingDefaults(v *viper.Viper) {
	v.SetDefault("auth.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

func applyTestDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "error")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", 10)
	v.SetDefault("rate_limit.enabled", false)
}

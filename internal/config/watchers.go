package config

import (
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// ErrNoConfigFile is returned by Start when the configuration was built from
// defaults and environment variables only.
var ErrNoConfigFile = errors.New("no configuration file to watch")

// ConfigWatcher reloads the configuration when its file changes and hands
// every valid revision to the registered callbacks. Invalid revisions are
// logged and the previous configuration stays current.
type ConfigWatcher struct {
	v        *viper.Viper
	logger   logger.Logger
	mu       sync.RWMutex
	config   *Config
	watchers []func(*Config)
}

func NewConfigWatcher(v *viper.Viper, initial *Config, log logger.Logger) *ConfigWatcher {
	return &ConfigWatcher{v: v, config: initial, logger: log}
}

// Start begins watching the config file.
func (w *ConfigWatcher) Start() error {
	path := w.v.ConfigFileUsed()
	if path == "" {
		return ErrNoConfigFile
	}
	w.v.OnConfigChange(w.handle)
	w.v.WatchConfig()
	w.logger.Info("Configuration watcher started", "configPath", path)
	return nil
}

// RegisterWatcher adds a callback for configuration changes.
func (w *ConfigWatcher) RegisterWatcher(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watchers = append(w.watchers, callback)
}

// GetConfig returns the current configuration.
func (w *ConfigWatcher) GetConfig() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

func (w *ConfigWatcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.logger.Info("Configuration file changed, reloading", "file", event.Name)

	if err := w.v.ReadInConfig(); err != nil {
		w.logger.Error("Failed to read configuration", "error", err)
		return
	}
	cfg, err := decode(w.v)
	if err != nil {
		w.logger.Error("Failed to reload configuration", "error", err)
		return
	}

	w.mu.Lock()
	w.config = cfg
	watchers := make([]func(*Config), len(w.watchers))
	copy(watchers, w.watchers)
	w.mu.Unlock()

	for _, fn := range watchers {
		w.notify(fn, cfg)
	}
	w.logger.Info("Configuration reloaded successfully")
}

func (w *ConfigWatcher) notify(fn func(*Config), cfg *Config) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Configuration watcher panic", "panic", r)
		}
	}()
	fn(cfg)
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the configuration implementation.
// It is built once at process start and passed to every component.
type Config struct {
	AppName  string
	RunMode  string
	Host     string
	Port     int
	Server   *Server
	Logger   *Logger
	Data     *Data
	Auth     *Auth
	Email    *Email
	Matching *Matching
	Event    *Event
	Observes *Observes
	Breaker  *Breaker

	path string
	v    *viper.Viper
	mu   sync.Mutex
}

// LoadConfig loads the configuration from the file.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.staffing")
		v.AddConfigPath("/etc/staffing")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := fromViper(v)
	cfg.path = configPath
	return cfg, nil
}

// fromViper maps viper keys onto a Config.
func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:  getStringOrDefault(v, "app_name", "staffing"),
		RunMode:  getStringOrDefault(v, "run_mode", "release"),
		Host:     getStringOrDefault(v, "server.host", "0.0.0.0"),
		Port:     getIntOrDefault(v, "server.port", 8080),
		Server:   getServerConfig(v),
		Logger:   getLoggerConfig(v),
		Data:     getDataConfig(v),
		Auth:     getAuth(v),
		Email:    getEmailConfig(v),
		Matching: getMatchingConfig(v),
		Event:    getEventConfig(v),
		Observes: getObservesConfig(v),
		Breaker:  getBreakerConfig(v),
		v:        v,
	}
}

// IsProd reports whether gin should run in release mode.
func (c *Config) IsProd() bool {
	return c.RunMode == "release"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Watch watches the configuration file and hands a freshly loaded copy to
// callback on every change. The receiver itself is never mutated.
func (c *Config) Watch(callback func(*Config)) {
	if c.v == nil {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		c.mu.Lock()
		defer c.mu.Unlock()

		next, err := LoadConfig(c.path)
		if err != nil {
			fmt.Printf("Error reloading config %s: %v\n", e.Name, err)
			return
		}
		callback(next)
	})
	c.v.WatchConfig()
}

// Default returns a configuration holding only default values.
func Default() *Config {
	return fromViper(viper.New())
}

// Copyright 2026 The ucli Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ucli-foundation/ucli/lib/server"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "UCLI_CONFIG"

// Config is the configuration of a process embedding a ucli server.
type Config struct {
	// Project describes the project the server belongs to. It is
	// advertised to clients.
	Project ProjectConfig `yaml:"project"`

	// Server configures the listener and connection limits.
	Server ServerConfig `yaml:"server"`

	// Advertise configures service discovery.
	Advertise AdvertiseConfig `yaml:"advertise"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Log configures the process logger.
	Log LogConfig `yaml:"log"`
}

// ProjectConfig describes the advertised project.
type ProjectConfig struct {
	// Path is the project directory. Clients match --path against it.
	Path string `yaml:"path"`

	// Name defaults to the last element of Path.
	Name string `yaml:"name"`

	// UnityVersion is the editor version string.
	UnityVersion string `yaml:"unity_version"`
}

// ServerConfig configures the command server.
type ServerConfig struct {
	// ListenAddress is the TCP address to bind.
	// Default: 127.0.0.1:0 (ephemeral loopback port)
	ListenAddress string `yaml:"listen_address"`

	// InstanceName is the advertised session name.
	// Default: a generated adjective-noun name
	InstanceName string `yaml:"instance_name"`

	// OutboundCapacity bounds each connection's outbound queue.
	// Default: 8
	OutboundCapacity int `yaml:"outbound_capacity"`

	// CommandCapacity bounds the queue of commands awaiting dispatch.
	// Default: 10
	CommandCapacity int `yaml:"command_capacity"`

	// MaxFrameSize is the largest frame payload accepted from a client,
	// in bytes.
	// Default: 16777216
	MaxFrameSize int `yaml:"max_frame_size"`

	// KeepAlive is the TCP keep-alive period, as a Go duration string.
	// Default: 15s
	KeepAlive string `yaml:"keep_alive"`
}

// AdvertiseConfig configures multicast DNS advertisement.
type AdvertiseConfig struct {
	// Enabled publishes the server so clients can discover it.
	// Default: true
	Enabled bool `yaml:"enabled"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// ListenAddress serves /metrics when non-empty.
	ListenAddress string `yaml:"listen_address"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:    server.DefaultListenAddress,
			OutboundCapacity: server.DefaultOutboundCapacity,
			CommandCapacity:  server.DefaultCommandCapacity,
			MaxFrameSize:     server.DefaultMaxFrameSize,
			KeepAlive:        server.DefaultKeepAlive.String(),
		},
		Advertise: AdvertiseConfig{Enabled: true},
		Log:       LogConfig{Level: "info"},
	}
}

// Load loads configuration from the UCLI_CONFIG environment variable.
//
// There are no fallbacks or defaults - if UCLI_CONFIG is not set, this
// fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your ucli.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, applied on
// top of Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	if cfg.Project.Name == "" && cfg.Project.Path != "" {
		cfg.Project.Name = filepath.Base(cfg.Project.Path)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Project.Path = expandVars(c.Project.Path, vars)
	vars["UCLI_PROJECT"] = c.Project.Path

	c.Server.ListenAddress = expandVars(c.Server.ListenAddress, vars)
	c.Server.InstanceName = expandVars(c.Server.InstanceName, vars)
	c.Metrics.ListenAddress = expandVars(c.Metrics.ListenAddress, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Project.Path == "" {
		errs = append(errs, fmt.Errorf("project.path is required"))
	}

	if _, _, err := net.SplitHostPort(c.Server.ListenAddress); err != nil {
		errs = append(errs, fmt.Errorf("server.listen_address: %w", err))
	}
	if c.Server.OutboundCapacity < 1 {
		errs = append(errs, fmt.Errorf("server.outbound_capacity must be at least 1, got %d", c.Server.OutboundCapacity))
	}
	if c.Server.CommandCapacity < 1 {
		errs = append(errs, fmt.Errorf("server.command_capacity must be at least 1, got %d", c.Server.CommandCapacity))
	}
	if c.Server.MaxFrameSize < 1 {
		errs = append(errs, fmt.Errorf("server.max_frame_size must be positive, got %d", c.Server.MaxFrameSize))
	}
	if _, err := time.ParseDuration(c.Server.KeepAlive); err != nil {
		errs = append(errs, fmt.Errorf("server.keep_alive: %w", err))
	}

	if c.Metrics.ListenAddress != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.ListenAddress); err != nil {
			errs = append(errs, fmt.Errorf("metrics.listen_address: %w", err))
		}
	}

	if !slices.Contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ServerConfig derives the server.Config for a Host. Call Validate
// first; an unparseable keep-alive falls back to the server default.
func (c *Config) ServerConfig() server.Config {
	keepAlive, err := time.ParseDuration(c.Server.KeepAlive)
	if err != nil {
		keepAlive = 0
	}
	return server.Config{
		ProjectPath:      c.Project.Path,
		ProjectName:      c.Project.Name,
		UnityVersion:     c.Project.UnityVersion,
		InstanceName:     c.Server.InstanceName,
		ListenAddress:    c.Server.ListenAddress,
		KeepAlive:        keepAlive,
		OutboundCapacity: c.Server.OutboundCapacity,
		CommandCapacity:  c.Server.CommandCapacity,
		MaxFrameSize:     c.Server.MaxFrameSize,
	}
}

// LogLevel returns the configured slog level. Unknown levels map to
// info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

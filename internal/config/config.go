// Package config provides the bridge's settings with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (BYPASS_HANDLER_AUTHENTICATION, ...)
//  2. Config file (restmcp.yaml in the working directory)
//  3. Default values
//
// Settings are loaded into an immutable snapshot held by a Store. Readers
// take the current snapshot with Current and never observe a partially
// updated value; Reload builds a fresh snapshot and swaps it atomically.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spf13/viper"
)

// ErrInvalidLogLevel indicates an unknown log level name.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Settings is one immutable configuration snapshot.
type Settings struct {
	// BypassHandlerAuthentication skips the handler-declared
	// authenticators in the invocation pipeline. The ambient identity
	// established at the protocol boundary is preserved instead.
	BypassHandlerAuthentication bool `mapstructure:"bypass_handler_authentication"`

	// BypassHandlerPermissions skips the handler-declared coarse-grained
	// permission checks. Object-level checks performed inside action
	// bodies still run.
	BypassHandlerPermissions bool `mapstructure:"bypass_handler_permissions"`

	// Return200ForErrors forces HTTP 200 on every response regardless of
	// logical error status, moving error signaling entirely into the
	// JSON-RPC body. Compatibility mode for clients that treat non-200
	// as transport failure.
	Return200ForErrors bool `mapstructure:"return_200_for_errors"`

	// ListenAddr is the HTTP listen address of the serve command.
	ListenAddr string `mapstructure:"listen_addr"`

	// ServerName and ServerVersion are advertised in the initialize
	// response.
	ServerName    string `mapstructure:"server_name"`
	ServerVersion string `mapstructure:"server_version"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level"`

	// LogJSON switches log output from text to JSON.
	LogJSON bool `mapstructure:"log_json"`
}

// Validate checks the snapshot for configuration errors (fail-fast).
func (s *Settings) Validate() error {
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q (want debug, info, warn, or error)", ErrInvalidLogLevel, s.LogLevel)
	}
	return nil
}

// SlogLevel maps the configured level name onto slog.
func (s *Settings) SlogLevel() slog.Level {
	switch s.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Store holds the current settings snapshot and swaps it wholesale on
// reload. Safe for concurrent readers.
type Store struct {
	current atomic.Pointer[Settings]
}

// Load reads configuration from defaults, the optional config file, and the
// environment, validates it, and returns a Store holding the snapshot.
func Load() (*Store, error) {
	settings, err := read()
	if err != nil {
		return nil, err
	}
	store := &Store{}
	store.current.Store(settings)
	return store, nil
}

// Current returns the live snapshot. The returned value must be treated as
// read-only.
func (s *Store) Current() *Settings {
	return s.current.Load()
}

// Reload rereads all sources and atomically replaces the snapshot. On error
// the previous snapshot stays in effect.
func (s *Store) Reload() error {
	settings, err := read()
	if err != nil {
		return err
	}
	s.current.Store(settings)
	return nil
}

// Replace installs the given snapshot directly. Intended for tests that
// need a specific configuration without touching the environment.
func (s *Store) Replace(settings *Settings) {
	s.current.Store(settings)
}

// NewStore builds a store around a fixed snapshot, filling in defaults for
// zero fields. Intended for tests.
func NewStore(settings Settings) *Store {
	if settings.LogLevel == "" {
		settings.LogLevel = "info"
	}
	if settings.ListenAddr == "" {
		settings.ListenAddr = DefaultListenAddr
	}
	if settings.ServerName == "" {
		settings.ServerName = DefaultServerName
	}
	if settings.ServerVersion == "" {
		settings.ServerVersion = DefaultServerVersion
	}
	store := &Store{}
	store.current.Store(&settings)
	return store
}

// Defaults.
const (
	DefaultListenAddr    = "127.0.0.1:8800"
	DefaultServerName    = "restmcp"
	DefaultServerVersion = "0.1.0"
)

// read builds one snapshot from a fresh viper instance. Using a fresh
// instance per read keeps Reload free of leftover state.
func read() (*Settings, error) {
	v := viper.New()
	v.SetConfigName("restmcp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bypass_handler_authentication", false)
	v.SetDefault("bypass_handler_permissions", false)
	v.SetDefault("return_200_for_errors", false)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("server_name", DefaultServerName)
	v.SetDefault("server_version", DefaultServerVersion)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a failure here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("bypass_handler_authentication", "BYPASS_HANDLER_AUTHENTICATION")
	mustBind("bypass_handler_permissions", "BYPASS_HANDLER_PERMISSIONS")
	mustBind("return_200_for_errors", "RETURN_200_FOR_ERRORS")
	mustBind("listen_addr", "RESTMCP_ADDR")
	mustBind("log_level", "RESTMCP_LOG_LEVEL")
	mustBind("log_json", "RESTMCP_LOG_JSON")
}

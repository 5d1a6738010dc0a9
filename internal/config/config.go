// Package config provides configuration loading for hxproject.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/jakoblorz/go-hxproject/internal/logging"
)

// DefaultPortBase is the first port handed to a compiler server.
const DefaultPortBase = 6000

// Config is the resolved user configuration.
type Config struct {
	Haxe     HaxeConfig     `koanf:"haxe"`
	Server   ServerConfig   `koanf:"server"`
	Session  SessionConfig  `koanf:"session"`
	Settings SettingsConfig `koanf:"settings"`
	Build    BuildConfig    `koanf:"build"`
	Log      logging.Config `koanf:"log"`
}

// HaxeConfig locates the compiler toolchain.
type HaxeConfig struct {
	// Exec is the compiler executable, resolved against the project
	// directory unless it is the bare "haxe".
	Exec string `koanf:"exec"`

	// HaxelibExec runs packaged (nmml) builds.
	HaxelibExec string `koanf:"haxelib_exec"`

	// LibraryPath is exported as HAXE_LIBRARY_PATH when set.
	LibraryPath string `koanf:"library_path"`

	// UseServerMode enables the background compiler server.
	UseServerMode bool `koanf:"use_server_mode"`
}

// ServerConfig controls compiler server port allocation.
type ServerConfig struct {
	PortBase int `koanf:"port_base"`
}

// SessionConfig locates the editor session files.
type SessionConfig struct {
	Dir string `koanf:"dir"`
}

// SettingsConfig locates the per-view settings store.
type SettingsConfig struct {
	Path string `koanf:"path"`
}

// BuildConfig holds environment overrides applied to every compiler run.
type BuildConfig struct {
	Env map[string]string `koanf:"env"`
}

// Default returns the configuration used when no file or env overrides exist.
func Default() *Config {
	cfg := &Config{
		Haxe: HaxeConfig{
			Exec:          "haxe",
			HaxelibExec:   "haxelib",
			UseServerMode: true,
		},
		Server: ServerConfig{PortBase: DefaultPortBase},
		Log:    *logging.NewDefaultConfig(),
	}
	applyDefaults(cfg)
	return cfg
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Haxe.Exec == "" {
		return fmt.Errorf("haxe.exec must not be empty")
	}
	if c.Server.PortBase <= 0 || c.Server.PortBase > 65535 {
		return fmt.Errorf("server.port_base must be a valid port, got %d", c.Server.PortBase)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Haxe.Exec == "" {
		cfg.Haxe.Exec = "haxe"
	}
	if cfg.Haxe.HaxelibExec == "" {
		cfg.Haxe.HaxelibExec = "haxelib"
	}
	if cfg.Server.PortBase == 0 {
		cfg.Server.PortBase = DefaultPortBase
	}
	if cfg.Session.Dir == "" {
		cfg.Session.Dir = defaultSessionDir()
	}
	if cfg.Settings.Path == "" {
		cfg.Settings.Path = filepath.Join(configDir(), "view-settings.json")
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".hxproject")
	}
	return filepath.Join(home, ".config", "hxproject")
}

// defaultSessionDir is the Sublime Text "Settings" directory next to Packages.
func defaultSessionDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Settings"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Sublime Text 2", "Settings")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Sublime Text 2", "Settings")
	default:
		return filepath.Join(home, ".config", "sublime-text-2", "Settings")
	}
}

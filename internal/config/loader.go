package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/go-hxproject/internal/filesystem"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "HXPROJECT_"

const maxConfigFileSize = 1024 * 1024

// DefaultPath is ~/.config/hxproject/config.yaml.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Load reads configuration from YAML file, then overrides with environment
// variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (HXPROJECT_HAXE_EXEC, HXPROJECT_SERVER_PORT_BASE, ...)
//  2. YAML config file (~/.config/hxproject/config.yaml)
//  3. Hardcoded defaults
//
// A missing file is not an error.
func Load(fsys filesystem.FileSystem, configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		configPath = DefaultPath()
	}

	defaults := Default()
	if err := k.Load(rawbytes.Provider(defaultsYAML(defaults)), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if info, err := fsys.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
		}
		content, err := fsys.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if !isNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps HXPROJECT_SECTION_FIELD_NAME to section.field_name.
//
//	HXPROJECT_HAXE_EXEC          -> haxe.exec
//	HXPROJECT_HAXE_LIBRARY_PATH  -> haxe.library_path
//	HXPROJECT_SERVER_PORT_BASE   -> server.port_base
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// defaultsYAML seeds koanf so booleans that default to true survive a file
// that omits them.
func defaultsYAML(cfg *Config) []byte {
	return []byte(fmt.Sprintf(`haxe:
  exec: %q
  haxelib_exec: %q
  use_server_mode: %t
server:
  port_base: %d
log:
  level: %q
  format: %q
`, cfg.Haxe.Exec, cfg.Haxe.HaxelibExec, cfg.Haxe.UseServerMode,
		cfg.Server.PortBase, cfg.Log.Level, cfg.Log.Format))
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

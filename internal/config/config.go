package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListen          = ":4242"
	DefaultReadBufferBytes = 4096
	DefaultMaxPayloadBytes = 1024 * 1024
)

// Config is the server's file configuration. The admin surface stays off
// until AdminAddr is set.
type Config struct {
	Name            string   `toml:"name" yaml:"name"`
	Listen          string   `toml:"listen" yaml:"listen"`
	AdminAddr       string   `toml:"admin_addr" yaml:"admin_addr"`
	CorsOrigins     []string `toml:"cors_origins" yaml:"cors_origins"`
	ReadBufferBytes int      `toml:"read_buffer_bytes" yaml:"read_buffer_bytes"`
	MaxPayloadBytes uint32   `toml:"max_payload_bytes" yaml:"max_payload_bytes"`
	LogLevel        string   `toml:"log_level" yaml:"log_level"`
}

func Default() Config {
	return Config{
		Name:            "calcwire",
		Listen:          DefaultListen,
		ReadBufferBytes: DefaultReadBufferBytes,
		MaxPayloadBytes: DefaultMaxPayloadBytes,
		LogLevel:        "info",
	}
}

// Load reads a TOML or YAML config file, picked by extension, and fills in
// defaults for anything unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
		}
	}

	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = "calcwire"
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.ReadBufferBytes <= 0 {
		cfg.ReadBufferBytes = DefaultReadBufferBytes
	}
	if cfg.MaxPayloadBytes == 0 {
		cfg.MaxPayloadBytes = DefaultMaxPayloadBytes
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = "info"
	}
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Listen) == "" {
		return fmt.Errorf("config missing listen address")
	}
	if cfg.ReadBufferBytes < 512 {
		return fmt.Errorf("config read_buffer_bytes %d below minimum 512", cfg.ReadBufferBytes)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return fmt.Errorf("config invalid log_level %q", cfg.LogLevel)
	}
	return nil
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jmorgan81/calcwire/internal/config"
)

type fileConfig struct {
	Name            string   `toml:"name"`
	Listen          string   `toml:"listen"`
	AdminAddr       string   `toml:"admin_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	ReadBufferBytes int      `toml:"read_buffer_bytes"`
	MaxPayloadBytes uint32   `toml:"max_payload_bytes"`
	LogLevel        string   `toml:"log_level"`
}

// loadRuntimeConfig layers a TOML file over the defaults, touching only keys
// the file actually defines. YAML files go through the plain loader.
func loadRuntimeConfig(path string) (config.Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.Load(path)
	}

	cfg := config.Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("name") {
		name := strings.TrimSpace(raw.Name)
		if name != "" {
			cfg.Name = name
		}
	}
	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}
	if meta.IsDefined("read_buffer_bytes") {
		cfg.ReadBufferBytes = raw.ReadBufferBytes
	}
	if meta.IsDefined("max_payload_bytes") {
		cfg.MaxPayloadBytes = raw.MaxPayloadBytes
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

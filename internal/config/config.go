// Package config resolves drowsewatchd settings: defaults, then the YAML
// file, then DROWSEWATCH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const envPrefix = "DROWSEWATCH_"

// Config is the resolved runtime configuration.
type Config struct {
	Env string

	HTTPPort int
	TCPPort  int

	// DataDir enables file persistence for the embedded store. Empty keeps records in memory.
	DataDir string
	// RemoteAddr points at another drowsewatchd TCP endpoint and takes precedence over every local backend.
	RemoteAddr string
	RedisURL   string

	DisableTLS bool
	// MasterKey turns on value encryption at rest: 64 hex chars or 32 raw bytes.
	MasterKey string

	StrictNotFound bool
	CORSOrigin     string
}

// configFile mirrors configs/default.yaml.
type configFile struct {
	Env    string `yaml:"env"`
	Server struct {
		HTTPPort   int    `yaml:"http_port"`
		TCPPort    int    `yaml:"tcp_port"`
		DisableTLS *bool  `yaml:"disable_tls"`
		CORSOrigin string `yaml:"cors_origin"`
	} `yaml:"server"`
	Store struct {
		DataDir    string `yaml:"data_dir"`
		RemoteAddr string `yaml:"remote_addr"`
		RedisURL   string `yaml:"redis_url"`
		MasterKey  string `yaml:"master_key"`
	} `yaml:"store"`
	Records struct {
		StrictNotFound *bool `yaml:"strict_not_found"`
	} `yaml:"records"`
}

func Default() Config {
	return Config{
		Env:        "prod",
		HTTPPort:   8080,
		TCPPort:    7001,
		DataDir:    "./data",
		CORSOrigin: "*",
	}
}

// Load resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error; an unreadable or malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := applyFile(&cfg, raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.Env = envOrDefault("ENV", cfg.Env)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.TCPPort = envInt("TCP_PORT", cfg.TCPPort)
	cfg.DataDir = envOrDefault("DATA_DIR", cfg.DataDir)
	cfg.RemoteAddr = envOrDefault("REMOTE_ADDR", cfg.RemoteAddr)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.DisableTLS = envBool("DISABLE_TLS", cfg.DisableTLS)
	cfg.MasterKey = envOrDefault("MASTER_KEY", cfg.MasterKey)
	cfg.StrictNotFound = envBool("STRICT_NOT_FOUND", cfg.StrictNotFound)
	cfg.CORSOrigin = envOrDefault("CORS_ORIGIN", cfg.CORSOrigin)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Env != "" {
		cfg.Env = f.Env
	}
	if f.Server.HTTPPort > 0 {
		cfg.HTTPPort = f.Server.HTTPPort
	}
	if f.Server.TCPPort > 0 {
		cfg.TCPPort = f.Server.TCPPort
	}
	if f.Server.DisableTLS != nil {
		cfg.DisableTLS = *f.Server.DisableTLS
	}
	if f.Server.CORSOrigin != "" {
		cfg.CORSOrigin = f.Server.CORSOrigin
	}
	if f.Store.DataDir != "" {
		cfg.DataDir = f.Store.DataDir
	}
	if f.Store.RemoteAddr != "" {
		cfg.RemoteAddr = f.Store.RemoteAddr
	}
	if f.Store.RedisURL != "" {
		cfg.RedisURL = f.Store.RedisURL
	}
	if f.Store.MasterKey != "" {
		cfg.MasterKey = f.Store.MasterKey
	}
	if f.Records.StrictNotFound != nil {
		cfg.StrictNotFound = *f.Records.StrictNotFound
	}
	return nil
}

// Validate rejects settings the daemon cannot start with.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTPPort)
	}
	if c.TCPPort < 0 || c.TCPPort > 65535 {
		return fmt.Errorf("invalid tcp port %d", c.TCPPort)
	}
	if c.TCPPort != 0 && c.TCPPort == c.HTTPPort {
		return fmt.Errorf("http and tcp ports must differ")
	}
	return nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(envPrefix + name); value != "" {
		return value
	}
	return fallback
}

// envInt falls back on empty or invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(envPrefix + name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(name string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(envPrefix + name)))
	switch raw {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return fallback
	}
}

// Package config loads the graphql-lexd service configuration from a YAML
// file: listen addresses, backing-store DSNs, and lexer behavior flags.
//
// It mirrors internal/script/profile's YAML-struct loading convention from
// the wider corpus (os.ReadFile + yaml.Unmarshal, tagged struct, sensible
// zero-value defaults applied after unmarshal).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of a graphql-lexd config file.
type Config struct {
	HTTPAddr    string      `yaml:"http_addr"`
	Redis       RedisConfig `yaml:"redis"`
	Store       StoreConfig `yaml:"store"`
	StrictMode  bool        `yaml:"strict_mode"`
	CacheTTLSec int         `yaml:"cache_ttl_seconds"`
}

// RedisConfig addresses the result cache and invalidation pub/sub.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db"`
}

// StoreConfig addresses the durable SQLite session log.
type StoreConfig struct {
	DSN string `yaml:"dsn"`
}

const (
	defaultHTTPAddr    = ":8080"
	defaultRedisAddr   = "127.0.0.1:6379"
	defaultStoreDSN    = "graphql-lexd.sqlite"
	defaultCacheTTLSec = 300
)

// Load reads and parses a YAML config file, applying defaults to any field
// left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = defaultHTTPAddr
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = defaultRedisAddr
	}
	if c.Store.DSN == "" {
		c.Store.DSN = defaultStoreDSN
	}
	if c.CacheTTLSec == 0 {
		c.CacheTTLSec = defaultCacheTTLSec
	}
}

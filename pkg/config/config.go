// Package config loads server configuration from a TOML file, with
// defaults for every field so the server runs with no file at all.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server struct {
		Addr string `toml:"addr"`
	} `toml:"server"`
	PokeAPI struct {
		BaseURL           string  `toml:"base_url"`
		RequestsPerSecond float64 `toml:"requests_per_second"`
	} `toml:"pokeapi"`
	DB struct {
		// Path to a PokeAPI sqlite dump. When set, the server reads
		// snapshots from it instead of the HTTP API.
		Path string `toml:"path"`
	} `toml:"database"`
}

// envPath overrides the config file location.
const envPath = "TEAMDEX_CONFIG"

func defaults() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.PokeAPI.BaseURL = "https://pokeapi.co/api/v2"
	cfg.PokeAPI.RequestsPerSecond = 5

	return cfg
}

// Read loads the config from $TEAMDEX_CONFIG, falling back to
// ./config.toml. A missing file yields the defaults.
func Read() (*Config, error) {
	path := os.Getenv(envPath)
	if path == "" {
		path = "config.toml"
	}

	return ReadFile(path)
}

// ReadFile loads the config from an explicit path.
func ReadFile(path string) (*Config, error) {
	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error while reading config: %w", err)
	}

	return cfg, nil
}

// pkg/config/load.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	PathEnv     = "STEEZE_CLIENT_CONFIG"
	DefaultPath = "client.toml"
)

// Load reads a TOML file over Default(). A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML onto cfg (keeping fields the document omits) and validates.
func Parse(b []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// LoadFromEnv resolves the path from STEEZE_CLIENT_CONFIG, falling back to def.
func LoadFromEnv(def string) (Config, error) {
	if def == "" {
		def = DefaultPath
	}
	return Load(envOr(PathEnv, def))
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

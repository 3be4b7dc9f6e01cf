package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the top-level client config file.
type Config struct {
	Client Client `toml:"client"`
	Log    Log    `toml:"log"`
	Admin  Admin  `toml:"admin"`
}

type Client struct {
	TimeoutMS         int    `toml:"timeout_ms"`
	MaxIdleConns      int    `toml:"max_idle_conns"`
	IdleConnTimeoutMS int    `toml:"idle_conn_timeout_ms"`
	ProbeURL          string `toml:"probe_url"`
}

type Log struct {
	Dir        string `toml:"dir"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

type Admin struct {
	Listen       string `toml:"listen"`
	TLSCert      string `toml:"tls_cert"`
	TLSKey       string `toml:"tls_key"`
	JWTSecretEnv string `toml:"jwt_secret_env"`
	JWTIssuer    string `toml:"jwt_issuer"`
	JWTAudience  string `toml:"jwt_audience"`
	JWTLeewayS   int    `toml:"jwt_leeway_s"`
	AdminRole    string `toml:"admin_role"`
	DevBypass    bool   `toml:"dev_bypass"`

	MetricsSkipPaths []string `toml:"metrics_skip_paths"`
	LogBodyPaths     []string `toml:"log_body_paths"`
}

func Default() Config {
	return Config{
		Client: Client{
			TimeoutMS:         15000,
			MaxIdleConns:      20,
			IdleConnTimeoutMS: 90000,
		},
		Log: Log{
			Dir:        "log",
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Admin: Admin{
			Listen:       ":4000",
			JWTSecretEnv: "ADMIN_JWT_SECRET",
			AdminRole:    "admin",
		},
	}
}

// JWTLeeway is the clock skew allowed on exp/nbf; 0 means the auth default.
func (a Admin) JWTLeeway() time.Duration { return time.Duration(a.JWTLeewayS) * time.Second }

func (c Client) Timeout() time.Duration { return time.Duration(c.TimeoutMS) * time.Millisecond }
func (c Client) IdleConnTimeout() time.Duration {
	return time.Duration(c.IdleConnTimeoutMS) * time.Millisecond
}

var validLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "error": {},
}

// Validate returns the first problem found.
func (c *Config) Validate() error {
	if c.Client.TimeoutMS < 0 {
		return fmt.Errorf("client.timeout_ms must be >= 0, got %d", c.Client.TimeoutMS)
	}
	if c.Client.MaxIdleConns < 0 {
		return fmt.Errorf("client.max_idle_conns must be >= 0, got %d", c.Client.MaxIdleConns)
	}
	if c.Client.IdleConnTimeoutMS < 0 {
		return fmt.Errorf("client.idle_conn_timeout_ms must be >= 0, got %d", c.Client.IdleConnTimeoutMS)
	}
	if u := strings.TrimSpace(c.Client.ProbeURL); u != "" &&
		!strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return fmt.Errorf("client.probe_url must be http(s), got %q", u)
	}
	if strings.TrimSpace(c.Log.Dir) == "" {
		return fmt.Errorf("log.dir is required")
	}
	if _, ok := validLevels[strings.ToLower(c.Log.Level)]; !ok {
		return fmt.Errorf("log.level %q invalid (debug|info|warn|error)", c.Log.Level)
	}
	if strings.TrimSpace(c.Admin.Listen) == "" {
		return fmt.Errorf("admin.listen is required")
	}
	if c.Admin.JWTLeewayS < 0 {
		return fmt.Errorf("admin.jwt_leeway_s must be >= 0, got %d", c.Admin.JWTLeewayS)
	}
	if (c.Admin.TLSCert == "") != (c.Admin.TLSKey == "") {
		return fmt.Errorf("admin.tls_cert and admin.tls_key must be set together")
	}
	return nil
}

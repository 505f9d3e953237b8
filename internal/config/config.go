package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full server configuration. Values resolve in priority
// environment > config file > defaults.
type Config struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	Environment    string   `yaml:"environment"` // "development" or "production"
	AllowedOrigins []string `yaml:"allowed_origins"`
	DataDir        string   `yaml:"data_dir"`
	LogLevel       string   `yaml:"log_level"`
	LogFile        string   `yaml:"log_file"`

	Backend   BackendConfig   `yaml:"backend"`
	Auth      AuthConfig      `yaml:"auth"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// BackendConfig describes the external submission collaborator.
type BackendConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// UnmarshalYAML parses the timeout as a duration string ("15s") and keeps
// pre-populated defaults for absent fields.
func (b *BackendConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		BaseURL     string `yaml:"base_url"`
		Timeout     string `yaml:"timeout"`
		MaxAttempts int    `yaml:"max_attempts"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.BaseURL != "" {
		b.BaseURL = raw.BaseURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("parse backend timeout: %w", err)
		}
		b.Timeout = d
	}
	if raw.MaxAttempts > 0 {
		b.MaxAttempts = raw.MaxAttempts
	}
	return nil
}

// DashboardConfig points the dashboard pages at a remote content endpoint.
// An empty URL serves the built-in content set.
type DashboardConfig struct {
	ContentURL     string        `yaml:"content_url"`
	ContentTimeout time.Duration `yaml:"content_timeout"`
}

func (d *DashboardConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ContentURL     string `yaml:"content_url"`
		ContentTimeout string `yaml:"content_timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.ContentURL != "" {
		d.ContentURL = raw.ContentURL
	}
	if raw.ContentTimeout != "" {
		t, err := time.ParseDuration(raw.ContentTimeout)
		if err != nil {
			return fmt.Errorf("parse dashboard content timeout: %w", err)
		}
		d.ContentTimeout = t
	}
	return nil
}

// AuthConfig describes the identity provider boundary.
type AuthConfig struct {
	// Mode selects the verifier: "static" uses the Tokens table, "insecure"
	// accepts any non-empty bearer token (local development only).
	Mode string `yaml:"mode"`
	// Tokens maps bearer token -> "userID,email,displayName".
	Tokens map[string]string `yaml:"tokens"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:        "0.0.0.0",
		Port:        8080,
		Environment: "development",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		DataDir:  "~/.rekindle",
		LogLevel: "info",
		Backend: BackendConfig{
			Timeout:     15 * time.Second,
			MaxAttempts: 2,
		},
		Auth: AuthConfig{
			Mode: "insecure",
		},
		Dashboard: DashboardConfig{
			ContentTimeout: 10 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load resolves the configuration from defaults, an optional YAML file, and
// environment variables. An empty path means "no file"; the REKINDLE_CONFIG
// variable supplies the path when set.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("REKINDLE_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.LogFile = expandHome(cfg.LogFile)

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, target *string) {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			*target = value
		}
	}

	setString("REKINDLE_HOST", &cfg.Host)
	if raw := os.Getenv("PORT"); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil {
			cfg.Port = port
		}
	}
	setString("REKINDLE_ENV", &cfg.Environment)
	setString("REKINDLE_DATA_DIR", &cfg.DataDir)
	setString("REKINDLE_LOG_LEVEL", &cfg.LogLevel)
	setString("REKINDLE_LOG_FILE", &cfg.LogFile)
	setString("REKINDLE_BACKEND_URL", &cfg.Backend.BaseURL)
	setString("REKINDLE_AUTH_MODE", &cfg.Auth.Mode)
	setString("REKINDLE_CONTENT_URL", &cfg.Dashboard.ContentURL)

	if raw := os.Getenv("REKINDLE_ALLOWED_ORIGINS"); raw != "" {
		var origins []string
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			cfg.AllowedOrigins = origins
		}
	}
	if raw := os.Getenv("REKINDLE_BACKEND_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.Backend.Timeout = d
		}
	}
	if raw := os.Getenv("REKINDLE_METRICS_ENABLED"); raw != "" {
		if enabled, err := strconv.ParseBool(raw); err == nil {
			cfg.Metrics.Enabled = enabled
		}
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ABOUTME: Configuration loading and parsing for hmdl-admin
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete hmdl-admin configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Vault         VaultConfig         `yaml:"vault"`
	Session       SessionConfig       `yaml:"session"`
	Readiness     ReadinessConfig     `yaml:"readiness"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig holds the HMDL server endpoint configuration
type ServerConfig struct {
	URL string `yaml:"url"`

	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout"`
}

// VaultConfig holds the local credential vault configuration
type VaultConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig holds session token persistence configuration
type SessionConfig struct {
	TokenPath string `yaml:"token_path"`
}

// ReadinessConfig holds the two bring-up polling budgets: one for the server
// answering at all, one for certificate provisioning, which can take minutes.
type ReadinessConfig struct {
	HealthInterval      time.Duration `yaml:"-"`
	CertificateInterval time.Duration `yaml:"-"`
	HealthAttempts      int           `yaml:"health_attempts"`
	CertificateAttempts int           `yaml:"certificate_attempts"`

	// Raw string values for YAML unmarshaling
	HealthIntervalRaw      string `yaml:"health_interval"`
	CertificateIntervalRaw string `yaml:"certificate_interval"`
}

// NotificationsConfig holds toast display configuration
type NotificationsConfig struct {
	TTL    time.Duration `yaml:"-"`
	TTLRaw string        `yaml:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults
const (
	defaultTimeout             = 30 * time.Second
	defaultHealthInterval      = time.Second
	defaultHealthAttempts      = 30
	defaultCertificateInterval = 500 * time.Millisecond
	defaultCertificateAttempts = 3000
	defaultNotificationTTL     = 3 * time.Second
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Parse duration fields
	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default builds a configuration from defaults alone, for running without a
// config file. Only the server URL is required.
func Default(serverURL string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.URL = serverURL
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url is required")
	}
	if c.Readiness.HealthAttempts < 0 {
		return fmt.Errorf("readiness.health_attempts must not be negative")
	}
	if c.Readiness.CertificateAttempts < 0 {
		return fmt.Errorf("readiness.certificate_attempts must not be negative")
	}
	return nil
}

// applyDefaults fills in values the file leaves unset. The certificate budget
// is far larger than the health budget: ACME issuance routinely takes minutes.
func (c *Config) applyDefaults() {
	if c.Server.Timeout == 0 {
		c.Server.Timeout = defaultTimeout
	}
	if c.Vault.Path == "" {
		c.Vault.Path = defaultStatePath("vault.db")
	}
	if c.Session.TokenPath == "" {
		c.Session.TokenPath = defaultStatePath("session")
	}
	if c.Readiness.HealthInterval == 0 {
		c.Readiness.HealthInterval = defaultHealthInterval
	}
	if c.Readiness.HealthAttempts == 0 {
		c.Readiness.HealthAttempts = defaultHealthAttempts
	}
	if c.Readiness.CertificateInterval == 0 {
		c.Readiness.CertificateInterval = defaultCertificateInterval
	}
	if c.Readiness.CertificateAttempts == 0 {
		c.Readiness.CertificateAttempts = defaultCertificateAttempts
	}
	if c.Notifications.TTL == 0 {
		c.Notifications.TTL = defaultNotificationTTL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// defaultStatePath places console state under the user's home directory.
func defaultStatePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".hmdl-admin", name)
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Server.TimeoutRaw != "" {
		cfg.Server.Timeout, err = time.ParseDuration(cfg.Server.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing server timeout %q: %w", cfg.Server.TimeoutRaw, err)
		}
	}

	if cfg.Readiness.HealthIntervalRaw != "" {
		cfg.Readiness.HealthInterval, err = time.ParseDuration(cfg.Readiness.HealthIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing health_interval %q: %w", cfg.Readiness.HealthIntervalRaw, err)
		}
	}

	if cfg.Readiness.CertificateIntervalRaw != "" {
		cfg.Readiness.CertificateInterval, err = time.ParseDuration(cfg.Readiness.CertificateIntervalRaw)
		if err != nil {
			return fmt.Errorf("parsing certificate_interval %q: %w", cfg.Readiness.CertificateIntervalRaw, err)
		}
	}

	if cfg.Notifications.TTLRaw != "" {
		cfg.Notifications.TTL, err = time.ParseDuration(cfg.Notifications.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing notifications ttl %q: %w", cfg.Notifications.TTLRaw, err)
		}
	}

	return nil
}

// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, duration parsing, and defaults

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	configPath := writeTestConfig(t, `
server:
  url: "https://hmdl.example.com"
  timeout: "10s"

vault:
  path: "./vault.db"

session:
  token_path: "./session"

readiness:
  health_interval: "1s"
  health_attempts: 30
  certificate_interval: "500ms"
  certificate_attempts: 3000

notifications:
  ttl: "3s"

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify server config
	if cfg.Server.URL != "https://hmdl.example.com" {
		t.Errorf("Server.URL = %q, want %q", cfg.Server.URL, "https://hmdl.example.com")
	}
	if cfg.Server.Timeout != 10*time.Second {
		t.Errorf("Server.Timeout = %v, want %v", cfg.Server.Timeout, 10*time.Second)
	}

	// Verify local state paths
	if cfg.Vault.Path != "./vault.db" {
		t.Errorf("Vault.Path = %q, want %q", cfg.Vault.Path, "./vault.db")
	}
	if cfg.Session.TokenPath != "./session" {
		t.Errorf("Session.TokenPath = %q, want %q", cfg.Session.TokenPath, "./session")
	}

	// Verify readiness config with duration parsing
	if cfg.Readiness.HealthInterval != time.Second {
		t.Errorf("Readiness.HealthInterval = %v, want %v", cfg.Readiness.HealthInterval, time.Second)
	}
	if cfg.Readiness.HealthAttempts != 30 {
		t.Errorf("Readiness.HealthAttempts = %d, want 30", cfg.Readiness.HealthAttempts)
	}
	if cfg.Readiness.CertificateInterval != 500*time.Millisecond {
		t.Errorf("Readiness.CertificateInterval = %v, want %v", cfg.Readiness.CertificateInterval, 500*time.Millisecond)
	}
	if cfg.Readiness.CertificateAttempts != 3000 {
		t.Errorf("Readiness.CertificateAttempts = %d, want 3000", cfg.Readiness.CertificateAttempts)
	}

	// Verify notifications config
	if cfg.Notifications.TTL != 3*time.Second {
		t.Errorf("Notifications.TTL = %v, want %v", cfg.Notifications.TTL, 3*time.Second)
	}

	// Verify logging config
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoad_Defaults(t *testing.T) {
	configPath := writeTestConfig(t, `
server:
  url: "https://hmdl.example.com"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Timeout != 30*time.Second {
		t.Errorf("Server.Timeout = %v, want default %v", cfg.Server.Timeout, 30*time.Second)
	}
	if cfg.Readiness.HealthInterval != time.Second {
		t.Errorf("Readiness.HealthInterval = %v, want default %v", cfg.Readiness.HealthInterval, time.Second)
	}
	if cfg.Readiness.HealthAttempts != 30 {
		t.Errorf("Readiness.HealthAttempts = %d, want default 30", cfg.Readiness.HealthAttempts)
	}
	if cfg.Readiness.CertificateInterval != 500*time.Millisecond {
		t.Errorf("Readiness.CertificateInterval = %v, want default %v", cfg.Readiness.CertificateInterval, 500*time.Millisecond)
	}
	if cfg.Readiness.CertificateAttempts != 3000 {
		t.Errorf("Readiness.CertificateAttempts = %d, want default 3000", cfg.Readiness.CertificateAttempts)
	}
	if cfg.Notifications.TTL != 3*time.Second {
		t.Errorf("Notifications.TTL = %v, want default %v", cfg.Notifications.TTL, 3*time.Second)
	}
	if cfg.Vault.Path == "" {
		t.Error("Vault.Path default not applied")
	}
	if cfg.Session.TokenPath == "" {
		t.Error("Session.TokenPath default not applied")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want default %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format = %q, want default %q", cfg.Logging.Format, "text")
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_HMDL_URL", "https://hmdl-from-env.example.com")

	configPath := writeTestConfig(t, `
server:
  url: "${TEST_HMDL_URL}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.URL != "https://hmdl-from-env.example.com" {
		t.Errorf("Server.URL = %q, want env-expanded value", cfg.Server.URL)
	}
}

func TestLoad_EnvVarExpansion_UnsetVar(t *testing.T) {
	// Ensure the env var is NOT set
	os.Unsetenv("UNSET_VAR_FOR_TEST")

	configPath := writeTestConfig(t, `
server:
  url: "https://hmdl.example.com"

vault:
  path: "${UNSET_VAR_FOR_TEST}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Unset env vars expand to empty, which then picks up the default path
	if cfg.Vault.Path == "${UNSET_VAR_FOR_TEST}" {
		t.Errorf("Vault.Path = %q, env var not expanded", cfg.Vault.Path)
	}
}

func TestLoad_DurationParsing(t *testing.T) {
	configPath := writeTestConfig(t, `
server:
  url: "https://hmdl.example.com"
  timeout: "1m30s"

readiness:
  health_interval: "2s"
  certificate_interval: "250ms"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expectedTimeout := 1*time.Minute + 30*time.Second
	if cfg.Server.Timeout != expectedTimeout {
		t.Errorf("Server.Timeout = %v, want %v", cfg.Server.Timeout, expectedTimeout)
	}
	if cfg.Readiness.HealthInterval != 2*time.Second {
		t.Errorf("Readiness.HealthInterval = %v, want %v", cfg.Readiness.HealthInterval, 2*time.Second)
	}
	if cfg.Readiness.CertificateInterval != 250*time.Millisecond {
		t.Errorf("Readiness.CertificateInterval = %v, want %v", cfg.Readiness.CertificateInterval, 250*time.Millisecond)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeTestConfig(t, `
server:
  url: "https://hmdl.example.com"
  timeout "missing colon"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	configPath := writeTestConfig(t, `
server:
  url: "https://hmdl.example.com"
  timeout: "invalid-duration"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid duration, got nil")
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name          string
		configContent string
		wantErrSubstr string
	}{
		{
			name: "missing server url",
			configContent: `
server:
  url: ""
`,
			wantErrSubstr: "server.url is required",
		},
		{
			name: "negative health attempts",
			configContent: `
server:
  url: "https://hmdl.example.com"
readiness:
  health_attempts: -1
`,
			wantErrSubstr: "health_attempts must not be negative",
		},
		{
			name: "negative certificate attempts",
			configContent: `
server:
  url: "https://hmdl.example.com"
readiness:
  certificate_attempts: -5
`,
			wantErrSubstr: "certificate_attempts must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := writeTestConfig(t, tt.configContent)

			_, err := Load(configPath)
			if err == nil {
				t.Errorf("Load() expected error containing %q, got nil", tt.wantErrSubstr)
				return
			}

			if !strings.Contains(err.Error(), tt.wantErrSubstr) {
				t.Errorf("Load() error = %q, want error containing %q", err.Error(), tt.wantErrSubstr)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FOO", "bar")
	t.Setenv("BAZ", "qux")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single env var",
			input:    "${FOO}",
			expected: "bar",
		},
		{
			name:     "env var with surrounding text",
			input:    "prefix-${FOO}-suffix",
			expected: "prefix-bar-suffix",
		},
		{
			name:     "multiple env vars",
			input:    "${FOO}/${BAZ}",
			expected: "bar/qux",
		},
		{
			name:     "no env vars",
			input:    "no-vars-here",
			expected: "no-vars-here",
		},
		{
			name:     "unset env var",
			input:    "${UNSET_VAR}",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expected {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

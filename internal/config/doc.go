// Package config handles configuration loading for hmdl-admin.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from HMDL_CONFIG environment variable
//  2. ./config.yaml (current directory)
//  3. ~/.hmdl-admin/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	server:
//	  url: "${HMDL_SERVER_URL}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	readiness:
//	  health_interval: "1s"
//	  certificate_interval: "500ms"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  url: "https://hmdl.example.com"  # Management API base URL
//	  timeout: "30s"                   # Per-request timeout
//
// Local state:
//
//	vault:
//	  path: "~/.hmdl-admin/vault.db"   # Passkey vault (SQLite)
//	session:
//	  token_path: "~/.hmdl-admin/session"
//
// Readiness polling budgets:
//
//	readiness:
//	  health_interval: "1s"            # Server liveness probe cadence
//	  health_attempts: 30
//	  certificate_interval: "500ms"    # Certificate provisioning probe cadence
//	  certificate_attempts: 3000       # ACME issuance can take minutes
//
// Notifications:
//
//	notifications:
//	  ttl: "3s"                        # Toast display duration
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Server URL presence
//   - Duration format validity
//   - Non-negative polling budgets
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/hmdl/admin.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

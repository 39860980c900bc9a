// ABOUTME: Health, setup-status, and first-run setup endpoints
// ABOUTME: Exposes readiness probes for the two bring-up wait loops

package api

import (
	"context"
	"fmt"

	"github.com/hmdl/hmdl-console/internal/readiness"
)

// Setup statuses reported by the server.
const (
	SetupStatusNotSetup   = "Not Setup"
	SetupStatusInProgress = "In Progress"
	SetupStatusComplete   = "Setup"
)

// SetupStatus is the server's answer to "is this installation configured yet".
// Domain is only present once setup has started.
type SetupStatus struct {
	Status string `json:"status"`
	Domain string `json:"domain,omitempty"`
}

// SetupRequest carries the first-run configuration: the domain the server
// will answer on, the DNS API token used for the ACME challenge, and the
// contact address for the certificate authority.
type SetupRequest struct {
	ApplicationDomain  string `json:"application_domain"`
	CloudflareAPIToken string `json:"cloudflare_api_token"`
	ACMEEmail          string `json:"acme_email"`
}

// Health checks that the server is up. The endpoint answers with the literal
// string "Ok"; anything else is an error.
func (c *Client) Health(ctx context.Context) error {
	var body string
	if err := c.get(ctx, &body, "api", "health"); err != nil {
		return err
	}
	if body != "Ok" {
		return fmt.Errorf("unexpected health response %q", body)
	}
	return nil
}

// SetupStatus reports where the installation is in its first-run flow.
func (c *Client) SetupStatus(ctx context.Context) (*SetupStatus, error) {
	var status SetupStatus
	if err := c.get(ctx, &status, "api", "is-setup"); err != nil {
		return nil, err
	}
	return &status, nil
}

// Setup submits the first-run configuration and kicks off certificate
// provisioning on the server.
func (c *Client) Setup(ctx context.Context, req *SetupRequest) error {
	return c.post(ctx, req, nil, "api", "setup")
}

// HealthProbe adapts Health into a readiness probe: pending until the server
// answers "Ok".
func HealthProbe(c *Client) readiness.Probe {
	return func(ctx context.Context) (readiness.Status, error) {
		if err := c.Health(ctx); err != nil {
			return readiness.StatusPending, err
		}
		return readiness.StatusReady, nil
	}
}

// CertificateProbe adapts SetupStatus into a readiness probe: pending until
// the server reports setup complete, which it only does once its TLS
// certificate has been issued.
func CertificateProbe(c *Client) readiness.Probe {
	return func(ctx context.Context) (readiness.Status, error) {
		status, err := c.SetupStatus(ctx)
		if err != nil {
			return readiness.StatusPending, err
		}
		if status.Status != SetupStatusComplete {
			return readiness.StatusPending, nil
		}
		return readiness.StatusReady, nil
	}
}

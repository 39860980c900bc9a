// ABOUTME: Domain listing and management endpoints
// ABOUTME: Covers rename, group assignment, unassignment, and deletion

package api

import "context"

// Domain is one DNS name the server has observed or been told about.
type Domain struct {
	Name       string `json:"name"`
	Group      string `json:"group,omitempty"`
	LastSeen   string `json:"last_seen,omitempty"`
	LastClient string `json:"last_client,omitempty"`
}

type domainUpdateRequest struct {
	Domain    Domain `json:"domain"`
	GroupName string `json:"group_name"`
}

// Domains lists every domain the server knows about.
func (c *Client) Domains(ctx context.Context) ([]Domain, error) {
	var domains []Domain
	if err := c.get(ctx, &domains, "api", "domains"); err != nil {
		return nil, err
	}
	return domains, nil
}

// UpdateDomain renames a domain and/or assigns it to a domain group. name is
// the current name; the new state travels in the body.
func (c *Client) UpdateDomain(ctx context.Context, name string, domain Domain, groupName string) error {
	return c.put(ctx, domainUpdateRequest{Domain: domain, GroupName: groupName}, "api", "domains", name)
}

// DeleteDomain removes a domain entirely.
func (c *Client) DeleteDomain(ctx context.Context, name string) error {
	return c.delete(ctx, "api", "domains", name)
}

// RemoveDomainFromGroup clears a domain's group assignment without touching
// the domain itself.
func (c *Client) RemoveDomainFromGroup(ctx context.Context, name string) error {
	return c.delete(ctx, "api", "domains", name, "group")
}

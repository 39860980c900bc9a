// ABOUTME: Network client listing and management endpoints
// ABOUTME: Covers rename, group assignment, unassignment, and deletion

package api

import "context"

// NetClient is one device on the network the DNS server answers for.
type NetClient struct {
	Name  string `json:"name"`
	IP    string `json:"ip,omitempty"`
	MAC   string `json:"mac,omitempty"`
	Group string `json:"group,omitempty"`
}

type clientUpdateRequest struct {
	Client    NetClient `json:"client"`
	GroupName string    `json:"group_name"`
}

// Clients lists every network client the server knows about.
func (c *Client) Clients(ctx context.Context) ([]NetClient, error) {
	var clients []NetClient
	if err := c.get(ctx, &clients, "api", "clients"); err != nil {
		return nil, err
	}
	return clients, nil
}

// UpdateClient renames a network client and/or assigns it to a client group.
// name is the current name; the new state travels in the body.
func (c *Client) UpdateClient(ctx context.Context, name string, client NetClient, groupName string) error {
	return c.put(ctx, clientUpdateRequest{Client: client, GroupName: groupName}, "api", "clients", name)
}

// DeleteClient removes a network client entirely.
func (c *Client) DeleteClient(ctx context.Context, name string) error {
	return c.delete(ctx, "api", "clients", name)
}

// RemoveClientFromGroup clears a network client's group assignment without
// touching the client itself.
func (c *Client) RemoveClientFromGroup(ctx context.Context, name string) error {
	return c.delete(ctx, "api", "clients", name, "group")
}

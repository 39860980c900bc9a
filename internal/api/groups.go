// ABOUTME: Domain-group and client-group endpoints
// ABOUTME: Group CRUD plus applying domain groups to client groups

package api

import "context"

// DomainGroupDetail is the expanded view of one domain group.
type DomainGroupDetail struct {
	Domains []string `json:"domains"`
}

// ClientGroupDetail is the expanded view of one client group: its member
// clients and the domain groups applied to it.
type ClientGroupDetail struct {
	Clients      []NetClient `json:"clients"`
	DomainGroups []string    `json:"domain_groups"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type groupsAppliedRequest struct {
	ClientGroup string `json:"client_group"`
	DomainGroup string `json:"domain_group"`
}

// DomainGroups lists the names of every domain group.
func (c *Client) DomainGroups(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, &names, "api", "domain-groups"); err != nil {
		return nil, err
	}
	return names, nil
}

// DomainGroup fetches one domain group's member domains.
func (c *Client) DomainGroup(ctx context.Context, name string) (*DomainGroupDetail, error) {
	var detail DomainGroupDetail
	if err := c.get(ctx, &detail, "api", "domain-groups", name); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateDomainGroup creates an empty domain group.
func (c *Client) CreateDomainGroup(ctx context.Context, name string) error {
	return c.post(ctx, nil, nil, "api", "domain-groups", name)
}

// RenameDomainGroup renames a domain group.
func (c *Client) RenameDomainGroup(ctx context.Context, name, newName string) error {
	return c.put(ctx, renameRequest{Name: newName}, "api", "domain-groups", name)
}

// DeleteDomainGroup removes a domain group. Member domains survive,
// unassigned.
func (c *Client) DeleteDomainGroup(ctx context.Context, name string) error {
	return c.delete(ctx, "api", "domain-groups", name)
}

// ClientGroups lists the names of every client group.
func (c *Client) ClientGroups(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, &names, "api", "client-groups"); err != nil {
		return nil, err
	}
	return names, nil
}

// ClientGroup fetches one client group's members and applied domain groups.
func (c *Client) ClientGroup(ctx context.Context, name string) (*ClientGroupDetail, error) {
	var detail ClientGroupDetail
	if err := c.get(ctx, &detail, "api", "client-groups", name); err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateClientGroup creates an empty client group.
func (c *Client) CreateClientGroup(ctx context.Context, name string) error {
	return c.post(ctx, nil, nil, "api", "client-groups", name)
}

// RenameClientGroup renames a client group.
func (c *Client) RenameClientGroup(ctx context.Context, name, newName string) error {
	return c.put(ctx, renameRequest{Name: newName}, "api", "client-groups", name)
}

// DeleteClientGroup removes a client group. Member clients survive,
// unassigned.
func (c *Client) DeleteClientGroup(ctx context.Context, name string) error {
	return c.delete(ctx, "api", "client-groups", name)
}

// ApplyDomainGroup applies a domain group's rules to a client group.
func (c *Client) ApplyDomainGroup(ctx context.Context, clientGroup, domainGroup string) error {
	return c.post(ctx, groupsAppliedRequest{ClientGroup: clientGroup, DomainGroup: domainGroup}, nil, "api", "groups-applied")
}

// RemoveAppliedDomainGroup undoes ApplyDomainGroup for the same pair.
func (c *Client) RemoveAppliedDomainGroup(ctx context.Context, clientGroup, domainGroup string) error {
	return c.put(ctx, groupsAppliedRequest{ClientGroup: clientGroup, DomainGroup: domainGroup}, "api", "groups-applied")
}

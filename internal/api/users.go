// ABOUTME: User administration endpoints
// ABOUTME: Listing users, changing roles, deletion, and the role catalog

package api

import (
	"context"
	"encoding/json"

	"github.com/hmdl/hmdl-console/internal/session"
)

// User is one registered operator account.
type User struct {
	DisplayName string          `json:"display_name"`
	ID          string          `json:"id"`
	Keys        json.RawMessage `json:"keys,omitempty"`
	Role        session.Role    `json:"role"`
}

// Users lists every registered user. Admin only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, &users, "api", "users"); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser rewrites a user record, keyed by its current display name. The
// only field the server lets an admin change is the role.
func (c *Client) UpdateUser(ctx context.Context, displayName string, user User) error {
	return c.put(ctx, user, "api", "users", displayName)
}

// DeleteUser removes a user and their registered credentials. Admin only.
func (c *Client) DeleteUser(ctx context.Context, displayName string) error {
	return c.delete(ctx, "api", "users", displayName)
}

// Roles lists the roles the server can assign.
func (c *Client) Roles(ctx context.Context) ([]session.Role, error) {
	var names []string
	if err := c.get(ctx, &names, "api", "roles"); err != nil {
		return nil, err
	}

	roles := make([]session.Role, 0, len(names))
	for _, name := range names {
		role, err := session.ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// ABOUTME: Session role tracking for the console
// ABOUTME: Single mutable role slot with derived predicates, reset each process

package session

import (
	"fmt"
	"sync"
)

// Role represents the authorization level of the current session
type Role string

const (
	RoleAnonymous  Role = "Anonymous"
	RoleRegistered Role = "Registered"
	RoleAdmin      Role = "Admin"
)

// ValidRoles lists all roles the server can assign
var ValidRoles = []Role{
	RoleAnonymous,
	RoleRegistered,
	RoleAdmin,
}

// ParseRole converts a server-provided role string into a Role
func ParseRole(s string) (Role, error) {
	for _, r := range ValidRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RoleStore holds the role of the current session. The slot starts as
// Anonymous and is overwritten only by a completed credential ceremony.
// It is never persisted; a new process starts Anonymous again.
type RoleStore struct {
	mu   sync.RWMutex
	role Role
}

// NewRoleStore creates a role store with the default Anonymous role.
func NewRoleStore() *RoleStore {
	return &RoleStore{role: RoleAnonymous}
}

// Role returns the current session role.
func (s *RoleStore) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Set overwrites the session role.
func (s *RoleStore) Set(role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.role = role
}

// IsAdmin reports whether the current role is Admin.
func (s *RoleStore) IsAdmin() bool {
	return s.Role() == RoleAdmin
}

// IsRegistered reports whether the current role is Registered.
func (s *RoleStore) IsRegistered() bool {
	return s.Role() == RoleRegistered
}

// IsAnonymous reports whether the current role is Anonymous.
func (s *RoleStore) IsAnonymous() bool {
	return s.Role() == RoleAnonymous
}

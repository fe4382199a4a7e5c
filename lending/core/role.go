package core

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// AllRoles in a stable order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleTeacher, RoleStudent}
}

// ParseRole is case-insensitive and ignores surrounding whitespace.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

package models

import (
	"fmt"
	"strings"
)

// Role is the discriminant between the two kinds of account. It is fixed at
// registration.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// ParseRole accepts the role names case-insensitively. An empty string
// defaults to customer, which is what the login and register forms preselect.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleCustomer:
		return RoleCustomer, nil
	case RoleSeller:
		return RoleSeller, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleSeller
}

func (r Role) String() string {
	return string(r)
}

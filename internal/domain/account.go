package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role enumerates the closed set of account roles.
type Role string

const (
	RoleVisitor         Role = "visitor"
	RoleCreator         Role = "creator"
	RoleCommunityMember Role = "community-member"
)

// roleAliases maps legacy client values onto canonical roles.
var roleAliases = map[string]Role{
	"tourist":   RoleVisitor,
	"community": RoleCommunityMember,
}

// ParseRole normalizes a client supplied role. Empty input yields RoleVisitor.
func ParseRole(raw string) (Role, error) {
	val := strings.ToLower(strings.TrimSpace(raw))
	if val == "" {
		return RoleVisitor, nil
	}
	switch Role(val) {
	case RoleVisitor, RoleCreator, RoleCommunityMember:
		return Role(val), nil
	}
	if role, ok := roleAliases[val]; ok {
		return role, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Account is a registered identity owned by the credential store.
type Account struct {
	ID           string
	Email        string
	Phone        *string
	PasswordHash string
	Role         Role
	Tribe        *string
	Language     *string
	CreatedAt    time.Time
}

// NormalizeEmail returns the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

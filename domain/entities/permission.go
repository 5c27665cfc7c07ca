package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// PermissionLevel is the caller's role tier as evaluated by the orchestrator.
// Levels are ordered; PermissionUser is the lowest tier.
type PermissionLevel int

const (
	PermissionUser PermissionLevel = iota
	PermissionSubscriber
	PermissionModerator
	PermissionAdmin
)

var permissionNames = map[PermissionLevel]string{
	PermissionUser:       "user",
	PermissionSubscriber: "subscriber",
	PermissionModerator:  "moderator",
	PermissionAdmin:      "admin",
}

// ParsePermissionLevel accepts a level name or its numeric tier and rejects
// anything outside the known set.
func ParsePermissionLevel(value string) (PermissionLevel, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for level, name := range permissionNames {
		if name == normalized {
			return level, nil
		}
	}
	if n, err := strconv.Atoi(normalized); err == nil {
		level := PermissionLevel(n)
		if level.Valid() {
			return level, nil
		}
	}
	return PermissionUser, fmt.Errorf("invalid permission level %q", value)
}

// Valid returns true if the level is one of the known tiers
func (p PermissionLevel) Valid() bool {
	_, ok := permissionNames[p]
	return ok
}

// AboveLowest returns true for any tier above PermissionUser
func (p PermissionLevel) AboveLowest() bool {
	return p.Valid() && p > PermissionUser
}

// AtLeast returns true if p is the same tier as min or higher
func (p PermissionLevel) AtLeast(min PermissionLevel) bool {
	return p.Valid() && p >= min
}

func (p PermissionLevel) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", int(p))
}

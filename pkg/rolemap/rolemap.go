// Package rolemap translates the internal role vocabulary into each
// external platform's role or group representation. The mapping is a fixed
// table; per-platform overrides supplied on a provisioning request take
// precedence over it.
package rolemap

import (
	"strconv"
	"strings"

	"github.com/tendant/simple-provision/pkg/account"
	"github.com/tendant/simple-provision/pkg/platform"
)

// Fixed mapping table:
//
//	internal    lms         ecommerce  dms groups
//	admin       admin       admin      {3}
//	moderator   instructor  seller     {2}
//	editor      instructor  seller     {2}
//	user        user        buyer      {1}
var (
	lmsRoles = map[account.Role]string{
		account.RoleAdmin:     "admin",
		account.RoleModerator: "instructor",
		account.RoleEditor:    "instructor",
		account.RoleUser:      "user",
	}
	ecommerceRoles = map[account.Role]string{
		account.RoleAdmin:     "admin",
		account.RoleModerator: "seller",
		account.RoleEditor:    "seller",
		account.RoleUser:      "buyer",
	}
	dmsGroups = map[account.Role][]int{
		account.RoleAdmin:     {3},
		account.RoleModerator: {2},
		account.RoleEditor:    {2},
		account.RoleUser:      {1},
	}
)

// Map returns the table mapping of an internal role for a platform.
func Map(role account.Role, p platform.Platform) platform.Role {
	switch p {
	case platform.DMS:
		return platform.Role{Groups: dmsGroups[role]}
	case platform.Ecommerce:
		return platform.Role{Name: ecommerceRoles[role]}
	default:
		return platform.Role{Name: lmsRoles[role]}
	}
}

// Resolve applies a caller-supplied override over the table mapping. For
// the name platforms the override is used verbatim. For DMS it is parsed as
// comma-separated group ids; an override that yields no valid group falls
// back to the table.
func Resolve(role account.Role, p platform.Platform, override string) platform.Role {
	override = strings.TrimSpace(override)
	if override == "" {
		return Map(role, p)
	}

	if p != platform.DMS {
		return platform.Role{Name: override}
	}

	var groups []int
	for _, part := range strings.Split(override, ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			groups = append(groups, n)
		}
	}
	if len(groups) == 0 {
		return Map(role, p)
	}
	return platform.Role{Groups: groups}
}

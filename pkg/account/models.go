package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-provision/pkg/platform"
)

// Role is the internal role vocabulary. It is a closed set; anything else
// is rejected at the boundary.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleEditor    Role = "editor"
	RoleUser      Role = "user"
)

// ParseRole validates a role value from caller input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleModerator, RoleEditor, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %s", s)
}

// Account represents the durable local identity record.
type Account struct {
	ID                  uuid.UUID                  `json:"id"`
	Username            string                     `json:"username"`
	Email               string                     `json:"email"`
	PasswordHash        string                     `json:"-"`
	Role                Role                       `json:"role"`
	DisplayName         string                     `json:"display_name,omitempty"`
	Organization        string                     `json:"organization,omitempty"`
	RegisteredPlatforms map[platform.Platform]bool `json:"registered_platforms"`
	CreatedAt           time.Time                  `json:"created_at"`
	LastModifiedAt      time.Time                  `json:"last_modified_at"`
}

// CreateAccountParams contains parameters for creating a new account.
// RegisteredPlatforms starts all false; the saga updates it after the
// provisioning fan-out settles.
type CreateAccountParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	DisplayName  string
	Organization string
}

// emptyPlatformStatus returns a status map with every platform false.
func emptyPlatformStatus() map[platform.Platform]bool {
	status := make(map[platform.Platform]bool, len(platform.All()))
	for _, p := range platform.All() {
		status[p] = false
	}
	return status
}

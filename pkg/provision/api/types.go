package api

import (
	"github.com/google/uuid"

	"github.com/tendant/simple-provision/pkg/account"
	"github.com/tendant/simple-provision/pkg/platform"
)

// RegisterRequest is the registration request body.
type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"displayName,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`

	// TargetPlatforms defaults to all platforms when absent. An explicitly
	// empty list registers locally only.
	TargetPlatforms *[]string `json:"targetPlatforms,omitempty"`

	PlatformRoleOverrides map[string]string `json:"platformRoleOverrides,omitempty"`
}

// UserPayload is the account subset returned to callers.
type UserPayload struct {
	ID          uuid.UUID    `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	Role        account.Role `json:"role"`
	DisplayName string       `json:"displayName,omitempty"`
}

// RegistrationData carries the successful remote details for one platform.
type RegistrationData struct {
	RemoteID string `json:"remoteId,omitempty"`
	Status   int    `json:"status,omitempty"`
}

// RegistrationEntry reports one platform's provisioning outcome.
type RegistrationEntry struct {
	Success bool                  `json:"success"`
	Data    *RegistrationData     `json:"data,omitempty"`
	Error   *platform.RemoteError `json:"error,omitempty"`
}

// RegisterResponse is the success (or partial success) response body.
type RegisterResponse struct {
	User           UserPayload                  `json:"user"`
	Registrations  map[string]RegistrationEntry `json:"registrations"`
	Warnings       []string                     `json:"warnings,omitempty"`
	PartialSuccess bool                         `json:"partialSuccess,omitempty"`
}

// ErrorResponse is the body for validation and rollback failures.
type ErrorResponse struct {
	Error         string                       `json:"error"`
	Details       []string                     `json:"details,omitempty"`
	Registrations map[string]RegistrationEntry `json:"registrations,omitempty"`
}

func registrationEntries(outcomes map[platform.Platform]platform.ProvisioningOutcome) map[string]RegistrationEntry {
	entries := make(map[string]RegistrationEntry, len(outcomes))
	for p, out := range outcomes {
		entry := RegistrationEntry{Success: out.Success}
		if out.Success {
			entry.Data = &RegistrationData{RemoteID: out.RemoteID, Status: out.StatusCode}
		} else {
			entry.Error = out.Err
		}
		entries[string(p)] = entry
	}
	return entries
}

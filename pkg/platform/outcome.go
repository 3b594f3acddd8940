package platform

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the platform-facing representation of an internal role. LMS and
// ecommerce consume Name; DMS consumes Groups.
type Role struct {
	Name   string
	Groups []int
}

// ErrorKind classifies a remote failure for structured aggregation.
type ErrorKind string

const (
	// ErrorTimeout means the adapter's per-call deadline elapsed before the
	// platform answered.
	ErrorTimeout ErrorKind = "timeout"
	// ErrorRejected means the platform answered with a non-success status,
	// e.g. a duplicate remote user or failed remote validation.
	ErrorRejected ErrorKind = "rejected"
	// ErrorUnreachable means the request never produced an HTTP response.
	ErrorUnreachable ErrorKind = "unreachable"
)

// RemoteError is a classified, normalized remote failure. It is data, not a
// Go error: adapters fold every failure into the outcome instead of
// returning errors past their boundary.
type RemoteError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *RemoteError) String() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ProvisioningOutcome is the per-adapter, per-attempt result collected by
// the coordinator. Exactly one of RemoteID and Err is meaningful.
type ProvisioningOutcome struct {
	Platform   Platform
	Success    bool
	RemoteID   string
	StatusCode int
	Err        *RemoteError
}

// successOutcome builds a successful outcome for a platform.
func successOutcome(p Platform, status int, remoteID string) ProvisioningOutcome {
	return ProvisioningOutcome{
		Platform:   p,
		Success:    true,
		RemoteID:   remoteID,
		StatusCode: status,
	}
}

// failureOutcome builds a failed outcome for a platform.
func failureOutcome(p Platform, status int, kind ErrorKind, message string) ProvisioningOutcome {
	return ProvisioningOutcome{
		Platform:   p,
		StatusCode: status,
		Err:        &RemoteError{Kind: kind, Message: message},
	}
}

// parseRemoteError extracts a normalized message from a non-success response
// body. Platforms disagree on their error envelope, so it tries the common
// structured fields first and falls back to the raw text.
func parseRemoteError(status int, body []byte) *RemoteError {
	msg := strings.TrimSpace(string(body))

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Message != "":
			msg = envelope.Message
		case envelope.Error != "":
			msg = envelope.Error
		case envelope.Detail != "":
			msg = envelope.Detail
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &RemoteError{Kind: ErrorRejected, Message: msg}
}

package provision

import (
	"fmt"

	"github.com/tendant/simple-provision/pkg/account"
	"github.com/tendant/simple-provision/pkg/platform"
)

// Request is the caller-supplied unit of work for one registration saga.
type Request struct {
	Username     string
	Email        string
	Password     string
	DisplayName  string
	Organization string

	// Role is the requested internal role. Empty means the default role.
	// The admin role cannot be obtained this way except through the
	// bootstrap rule.
	Role string

	// TargetPlatforms lists the platforms to provision into. It is only
	// honored when TargetsSpecified is true; otherwise the service default
	// applies. An explicitly empty set means local-only registration.
	TargetPlatforms  []platform.Platform
	TargetsSpecified bool

	// PlatformRoleOverrides take precedence over the role mapping table,
	// verbatim, for the named platform.
	PlatformRoleOverrides map[platform.Platform]string
}

// Result is the structured outcome of a committed or partially committed
// saga. Outcomes holds one entry per requested platform only.
type Result struct {
	Account  account.Account
	Outcomes map[platform.Platform]platform.ProvisioningOutcome
	Warnings []string
	Partial  bool
}

// RollbackError reports a saga that failed on every requested platform.
// The local record has already been deleted when this is returned.
type RollbackError struct {
	Details  []string
	Outcomes map[platform.Platform]platform.ProvisioningOutcome
}

func (e *RollbackError) Error() string {
	return "Registration failed in all selected systems"
}

// sagaState names the coordinator's phases, for log traceability.
type sagaState string

const (
	stateValidating         sagaState = "validating"
	stateLocalCreated       sagaState = "local_created"
	stateProvisioning       sagaState = "provisioning"
	stateDeciding           sagaState = "deciding"
	stateCommitted          sagaState = "committed"
	statePartiallyCommitted sagaState = "partially_committed"
	stateRolledBack         sagaState = "rolled_back"
)

func warningFor(out platform.ProvisioningOutcome) string {
	if out.Err == nil {
		return fmt.Sprintf("%s: provisioning failed", out.Platform)
	}
	return fmt.Sprintf("%s: %s", out.Platform, out.Err.Message)
}

package platform

import (
	"context"
	"net/http"
	"time"
)

// LMSProvisioner registers accounts in the learning management system with
// a single POST against its user endpoint.
type LMSProvisioner struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// LMSOption configures an LMSProvisioner.
type LMSOption func(*LMSProvisioner)

// WithLMSHTTPClient overrides the HTTP client used for LMS calls.
func WithLMSHTTPClient(client *http.Client) LMSOption {
	return func(p *LMSProvisioner) {
		p.client = client
	}
}

// NewLMSProvisioner creates an adapter for the LMS platform.
func NewLMSProvisioner(baseURL string, timeout time.Duration, opts ...LMSOption) *LMSProvisioner {
	p := &LMSProvisioner{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Platform implements Provisioner.Platform
func (p *LMSProvisioner) Platform() Platform {
	return LMS
}

// Provision implements Provisioner.Provision
func (p *LMSProvisioner) Provision(ctx context.Context, identity Identity, role Role) ProvisioningOutcome {
	return callWithTimeout(LMS, p.timeout, func() ProvisioningOutcome {
		return p.createUser(ctx, identity, role)
	})
}

type lmsCreateUserRequest struct {
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (p *LMSProvisioner) createUser(ctx context.Context, identity Identity, role Role) ProvisioningOutcome {
	status, body, err := postJSON(ctx, p.client, p.baseURL+"/api/users", nil, lmsCreateUserRequest{
		UserName:  identity.Identifier,
		UserEmail: identity.Email,
		Password:  identity.Password,
		Role:      role.Name,
	})
	if err != nil {
		return failureOutcome(LMS, 0, ErrorUnreachable, err.Error())
	}
	if !isSuccess(status) {
		out := failureOutcome(LMS, status, ErrorRejected, "")
		out.Err = parseRemoteError(status, body)
		return out
	}
	return successOutcome(LMS, status, parseRemoteID(body))
}

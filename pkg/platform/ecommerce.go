package platform

import (
	"context"
	"net/http"
	"time"
)

// EcommerceProvisioner registers accounts in the marketplace system with a
// single POST against its customer endpoint.
type EcommerceProvisioner struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// EcommerceOption configures an EcommerceProvisioner.
type EcommerceOption func(*EcommerceProvisioner)

// WithEcommerceHTTPClient overrides the HTTP client used for marketplace calls.
func WithEcommerceHTTPClient(client *http.Client) EcommerceOption {
	return func(p *EcommerceProvisioner) {
		p.client = client
	}
}

// NewEcommerceProvisioner creates an adapter for the marketplace platform.
func NewEcommerceProvisioner(baseURL string, timeout time.Duration, opts ...EcommerceOption) *EcommerceProvisioner {
	p := &EcommerceProvisioner{
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
func (p *EcommerceProvisioner) Platform() Platform {
	return Ecommerce
}

// Provision implements Provisioner.Provision
func (p *EcommerceProvisioner) Provision(ctx context.Context, identity Identity, role Role) ProvisioningOutcome {
	return callWithTimeout(Ecommerce, p.timeout, func() ProvisioningOutcome {
		return p.createCustomer(ctx, identity, role)
	})
}

type ecommerceCreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (p *EcommerceProvisioner) createCustomer(ctx context.Context, identity Identity, role Role) ProvisioningOutcome {
	status, body, err := postJSON(ctx, p.client, p.baseURL+"/api/customers", nil, ecommerceCreateRequest{
		Name:     identity.Identifier,
		Email:    identity.Email,
		Password: identity.Password,
		Role:     role.Name,
	})
	if err != nil {
		return failureOutcome(Ecommerce, 0, ErrorUnreachable, err.Error())
	}
	if !isSuccess(status) {
		out := failureOutcome(Ecommerce, status, ErrorRejected, "")
		out.Err = parseRemoteError(status, body)
		return out
	}
	return successOutcome(Ecommerce, status, parseRemoteID(body))
}

package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ServiceCredential is the fixed credential the DMS adapter exchanges for a
// short-lived bearer token before it can create users.
type ServiceCredential struct {
	Username string
	Password string
}

// DMSProvisioner registers accounts in the document management system. The
// platform requires a two-step protocol: a token exchange with a service
// credential, then the user creation authenticated with that token. A
// failure in the exchange is the adapter's failure; step two is not
// attempted.
type DMSProvisioner struct {
	baseURL    string
	credential ServiceCredential
	timeout    time.Duration
	client     *http.Client
}

// DMSOption configures a DMSProvisioner.
type DMSOption func(*DMSProvisioner)

// WithDMSHTTPClient overrides the HTTP client used for DMS calls.
func WithDMSHTTPClient(client *http.Client) DMSOption {
	return func(p *DMSProvisioner) {
		p.client = client
	}
}

// NewDMSProvisioner creates an adapter for the document management platform.
func NewDMSProvisioner(baseURL string, credential ServiceCredential, timeout time.Duration, opts ...DMSOption) *DMSProvisioner {
	p := &DMSProvisioner{
		baseURL:    baseURL,
		credential: credential,
		timeout:    timeout,
		client:     &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Platform implements Provisioner.Platform
func (p *DMSProvisioner) Platform() Platform {
	return DMS
}

// Provision implements Provisioner.Provision
func (p *DMSProvisioner) Provision(ctx context.Context, identity Identity, role Role) ProvisioningOutcome {
	return callWithTimeout(DMS, p.timeout, func() ProvisioningOutcome {
		return p.createUser(ctx, identity, role)
	})
}

type dmsTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type dmsCreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsActive  bool   `json:"is_active"`
	Groups    []int  `json:"groups"`
}

func (p *DMSProvisioner) createUser(ctx context.Context, identity Identity, role Role) ProvisioningOutcome {
	token, outcome, ok := p.exchangeToken(ctx)
	if !ok {
		return outcome
	}

	first, last := splitDisplayName(identity.DisplayName, identity.Identifier)
	status, body, err := postJSON(ctx, p.client, p.baseURL+"/api/users/",
		map[string]string{"Authorization": "Token " + token},
		dmsCreateUserRequest{
			Username:  identity.Identifier,
			Email:     identity.Email,
			Password:  identity.Password,
			FirstName: first,
			LastName:  last,
			IsActive:  true,
			Groups:    groupsOrDefault(role.Groups),
		})
	if err != nil {
		return failureOutcome(DMS, 0, ErrorUnreachable, err.Error())
	}
	if !isSuccess(status) {
		out := failureOutcome(DMS, status, ErrorRejected, "")
		out.Err = parseRemoteError(status, body)
		return out
	}
	return successOutcome(DMS, status, parseRemoteID(body))
}

// exchangeToken performs the preliminary token exchange. ok is false when
// the exchange failed, in which case outcome carries the classified failure.
func (p *DMSProvisioner) exchangeToken(ctx context.Context) (token string, outcome ProvisioningOutcome, ok bool) {
	status, body, err := postJSON(ctx, p.client, p.baseURL+"/api/token/", nil, dmsTokenRequest{
		Username: p.credential.Username,
		Password: p.credential.Password,
	})
	if err != nil {
		return "", failureOutcome(DMS, 0, ErrorUnreachable, err.Error()), false
	}
	if !isSuccess(status) {
		out := failureOutcome(DMS, status, ErrorRejected, "")
		out.Err = parseRemoteError(status, body)
		out.Err.Message = fmt.Sprintf("token exchange failed: %s", out.Err.Message)
		return "", out, false
	}

	var envelope struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Token == "" {
		return "", failureOutcome(DMS, status, ErrorRejected, "token exchange returned no token"), false
	}
	return envelope.Token, ProvisioningOutcome{}, true
}

// splitDisplayName splits a display name into first/last on the final space,
// falling back to the identifier when no display name was supplied.
func splitDisplayName(displayName, fallback string) (string, string) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return fallback, ""
	}
	if i := strings.LastIndex(name, " "); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

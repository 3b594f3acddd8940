package provision

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tendant/simple-provision/pkg/account"
	"github.com/tendant/simple-provision/pkg/identity"
	"github.com/tendant/simple-provision/pkg/notification"
	"github.com/tendant/simple-provision/pkg/password"
	"github.com/tendant/simple-provision/pkg/platform"
	"github.com/tendant/simple-provision/pkg/rolemap"
)

// Service coordinates the registration saga.
type Service struct {
	accounts         *account.AccountService
	hasher           password.Hasher
	provisioners     map[platform.Platform]platform.Provisioner
	notifier         notification.Notifier
	defaultPlatforms []platform.Platform
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithAccountService sets the account store service.
func WithAccountService(as *account.AccountService) Option {
	return func(s *Service) {
		s.accounts = as
	}
}

// WithHasher sets the password hasher.
func WithHasher(h password.Hasher) Option {
	return func(s *Service) {
		s.hasher = h
	}
}

// WithProvisioner registers a platform adapter.
func WithProvisioner(p platform.Provisioner) Option {
	return func(s *Service) {
		s.provisioners[p.Platform()] = p
	}
}

// WithNotifier sets the best-effort welcome notifier.
func WithNotifier(n notification.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithDefaultPlatforms sets the platforms targeted when a request does not
// name any.
func WithDefaultPlatforms(platforms []platform.Platform) Option {
	return func(s *Service) {
		s.defaultPlatforms = platforms
	}
}

// NewService creates a new saga coordinator with functional options.
func NewService(opts ...Option) *Service {
	s := &Service{
		hasher:           &password.BcryptHasher{},
		provisioners:     make(map[platform.Platform]platform.Provisioner),
		defaultPlatforms: platform.All(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register runs one registration saga to a definitive outcome. Validation
// and duplicate errors come back before any side effect; a RollbackError
// means every requested platform failed and the local record was deleted;
// otherwise the returned Result carries the truthful per-platform status.
func (s *Service) Register(ctx context.Context, req Request) (*Result, error) {
	slog.Debug("Saga state", "state", stateValidating, "username", req.Username)

	normalized, err := identity.Normalize(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	effectiveRole, err := s.resolveRole(ctx, req.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(normalized.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Durable checkpoint. The duplicate check is atomic with the insert;
	// no remote call has been issued yet.
	acct, err := s.accounts.CreateAccount(ctx, account.CreateAccountParams{
		Username:     normalized.Username,
		Email:        normalized.Email,
		PasswordHash: hash,
		Role:         effectiveRole,
		DisplayName:  req.DisplayName,
		Organization: req.Organization,
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("Saga state", "state", stateLocalCreated, "accountId", acct.ID)

	// Past the durable checkpoint the saga must run to a decision. Caller
	// cancellation no longer reaches the adapter calls, the compensating
	// delete, or the status update.
	ctx = context.WithoutCancel(ctx)

	targets := s.resolveTargets(req)
	outcomes := s.fanOut(ctx, normalized, req, effectiveRole, targets)

	slog.Debug("Saga state", "state", stateDeciding, "accountId", acct.ID)
	succeeded := 0
	for _, out := range outcomes {
		if out.Success {
			succeeded++
		}
	}

	// Total remote failure: compensate by deleting the checkpoint. A
	// local-only registration (no targets) is a commit, not a rollback.
	if succeeded == 0 && len(targets) > 0 {
		slog.Warn("All requested platforms failed, rolling back local account",
			"accountId", acct.ID, "platforms", targets)
		if delErr := s.accounts.DeleteAccount(ctx, acct.ID); delErr != nil {
			slog.Error("Compensating delete failed", "accountId", acct.ID, "err", delErr)
		}
		slog.Debug("Saga state", "state", stateRolledBack, "accountId", acct.ID)

		details := make([]string, 0, len(targets))
		for _, t := range targets {
			details = append(details, warningFor(outcomes[t]))
		}
		return nil, &RollbackError{Details: details, Outcomes: outcomes}
	}

	// Commit or partial commit: persist the truthful status map. Platforms
	// that were not requested stay false and were never contacted.
	status := make(map[platform.Platform]bool, len(targets))
	var warnings []string
	for _, t := range targets {
		out := outcomes[t]
		status[t] = out.Success
		if !out.Success {
			warnings = append(warnings, warningFor(out))
		}
	}

	updated, err := s.accounts.UpdateRegisteredPlatforms(ctx, acct.ID, status)
	if err != nil {
		// The remote accounts exist; losing the status update must not
		// discard an otherwise successful registration.
		slog.Error("Failed to persist platform status", "accountId", acct.ID, "err", err)
		updated = acct
	}

	partial := len(warnings) > 0
	if partial {
		slog.Debug("Saga state", "state", statePartiallyCommitted, "accountId", acct.ID, "warnings", warnings)
	} else {
		slog.Debug("Saga state", "state", stateCommitted, "accountId", acct.ID)
	}

	s.notify(updated)

	return &Result{
		Account:  updated,
		Outcomes: outcomes,
		Warnings: warnings,
		Partial:  partial,
	}, nil
}

// resolveRole applies the role-assignment policy before any mapping: the
// bootstrap rule grants admin to the first account when no admin exists
// yet, and takes priority over the downgrade rule; otherwise an externally
// requested admin is silently downgraded to user.
func (s *Service) resolveRole(ctx context.Context, requested string) (account.Role, error) {
	role := account.RoleUser
	if requested != "" {
		parsed, err := account.ParseRole(requested)
		if err != nil {
			return "", &identity.ValidationError{
				Code:    "INVALID_ROLE",
				Message: err.Error(),
			}
		}
		role = parsed
	}

	hasAdmin, err := s.accounts.HasAdmin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if !hasAdmin {
		if role != account.RoleAdmin {
			slog.Info("No admin account exists, granting admin to first account")
		}
		return account.RoleAdmin, nil
	}
	if role == account.RoleAdmin {
		slog.Info("Downgrading externally requested admin role", "requested", requested)
		return account.RoleUser, nil
	}
	return role, nil
}

// resolveTargets picks the requested or default platform list and collapses
// it to a set. A platform named twice must not be provisioned twice.
func (s *Service) resolveTargets(req Request) []platform.Platform {
	targets := s.defaultPlatforms
	if req.TargetsSpecified {
		targets = req.TargetPlatforms
	}

	seen := make(map[platform.Platform]bool, len(targets))
	deduped := make([]platform.Platform, 0, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		deduped = append(deduped, t)
	}
	return deduped
}

// fanOut launches every requested adapter concurrently and waits for all of
// them to settle. Adapters are independent; no ordering between them
// affects the decision, and a laggard's eventual result still matters for
// persisted status accuracy, so the join waits for everyone.
func (s *Service) fanOut(ctx context.Context, normalized identity.Normalized, req Request, role account.Role, targets []platform.Platform) map[platform.Platform]platform.ProvisioningOutcome {
	outcomes := make(map[platform.Platform]platform.ProvisioningOutcome, len(targets))
	if len(targets) == 0 {
		return outcomes
	}
	slog.Debug("Saga state", "state", stateProvisioning, "platforms", targets)

	ident := platform.Identity{
		Identifier:  identity.SanitizeIdentifier(normalized.Username, normalized.Email),
		Email:       normalized.Email,
		Password:    normalized.Password,
		DisplayName: req.DisplayName,
	}

	ch := make(chan platform.ProvisioningOutcome, len(targets))
	var wg sync.WaitGroup
	for _, target := range targets {
		prov, ok := s.provisioners[target]
		if !ok {
			ch <- platform.ProvisioningOutcome{
				Platform: target,
				Err: &platform.RemoteError{
					Kind:    platform.ErrorUnreachable,
					Message: "no provisioner configured",
				},
			}
			continue
		}

		platformRole := rolemap.Resolve(role, target, req.PlatformRoleOverrides[target])
		wg.Add(1)
		go func(p platform.Provisioner, r platform.Role) {
			defer wg.Done()
			ch <- p.Provision(ctx, ident, r)
		}(prov, platformRole)
	}
	wg.Wait()
	close(ch)

	for out := range ch {
		outcomes[out.Platform] = out
	}
	return outcomes
}

// notify fires the welcome notification without joining it back into the
// saga: the decision is already made and a delivery failure only gets
// logged.
func (s *Service) notify(acct account.Account) {
	if s.notifier == nil {
		return
	}
	n, err := notification.WelcomeNotification(acct.Email, acct.Username, acct.DisplayName)
	if err != nil {
		slog.Warn("Failed to build welcome notification", "accountId", acct.ID, "err", err)
		return
	}
	go func() {
		if err := s.notifier.Send(n); err != nil {
			slog.Warn("Failed to send welcome notification", "accountId", acct.ID, "err", err)
		}
	}()
}

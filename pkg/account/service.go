package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tendant/simple-provision/pkg/platform"
)

// AccountService provides account store operations to the saga coordinator.
type AccountService struct {
	repo AccountRepository
}

// NewAccountService creates a new account service.
func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{
		repo: repo,
	}
}

// CreateAccount creates the durable local record. ErrDuplicateIdentity
// passes through untouched so callers can distinguish it from
// infrastructure failures.
func (s *AccountService) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	if params.Username == "" {
		return Account{}, fmt.Errorf("username is required")
	}
	if params.Email == "" {
		return Account{}, fmt.Errorf("email is required")
	}

	acct, err := s.repo.Create(ctx, params)
	if err != nil {
		return Account{}, err
	}
	slog.Info("Created account", "accountId", acct.ID, "username", acct.Username, "role", acct.Role)
	return acct, nil
}

// GetAccount gets an account by id.
func (s *AccountService) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	return s.repo.Get(ctx, id)
}

// DeleteAccount removes an account. Used as the saga's compensating action.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	slog.Info("Deleted account", "accountId", id)
	return nil
}

// UpdateRegisteredPlatforms persists the settled provisioning status map.
func (s *AccountService) UpdateRegisteredPlatforms(ctx context.Context, id uuid.UUID, status map[platform.Platform]bool) (Account, error) {
	return s.repo.UpdateRegisteredPlatforms(ctx, id, status)
}

// HasAdmin reports whether any admin account exists. Consulted once at the
// start of role resolution for the bootstrap rule.
func (s *AccountService) HasAdmin(ctx context.Context) (bool, error) {
	return s.repo.HasAdmin(ctx)
}

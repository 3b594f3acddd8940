package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-provision/pkg/platform"
)

// InMemoryAccountRepository implements AccountRepository using in-memory
// storage. Used for tests and the quick-start entrypoint.
type InMemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]Account
}

// NewInMemoryAccountRepository creates a new in-memory account repository.
func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts: make(map[uuid.UUID]Account),
	}
}

// Create creates a new account. The duplicate check and the insert share
// the lock, so the pair is atomic.
func (r *InMemoryAccountRepository) Create(ctx context.Context, params CreateAccountParams) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if strings.EqualFold(existing.Username, params.Username) ||
			strings.EqualFold(existing.Email, params.Email) {
			return Account{}, ErrDuplicateIdentity
		}
	}

	now := time.Now()
	acct := Account{
		ID:                  uuid.New(),
		Username:            params.Username,
		Email:               params.Email,
		PasswordHash:        params.PasswordHash,
		Role:                params.Role,
		DisplayName:         params.DisplayName,
		Organization:        params.Organization,
		RegisteredPlatforms: emptyPlatformStatus(),
		CreatedAt:           now,
		LastModifiedAt:      now,
	}
	r.accounts[acct.ID] = acct
	return acct, nil
}

// Get gets an account by id.
func (r *InMemoryAccountRepository) Get(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acct, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return acct, nil
}

// Delete removes an account. Hard delete: the saga relies on the username
// and email becoming free again after a rollback.
func (r *InMemoryAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
	return nil
}

// UpdateRegisteredPlatforms persists the per-platform provisioning status.
func (r *InMemoryAccountRepository) UpdateRegisteredPlatforms(ctx context.Context, id uuid.UUID, status map[platform.Platform]bool) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acct, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}

	updated := emptyPlatformStatus()
	for p, registered := range status {
		updated[p] = registered
	}
	acct.RegisteredPlatforms = updated
	acct.LastModifiedAt = time.Now()
	r.accounts[id] = acct
	return acct, nil
}

// HasAdmin reports whether any account currently holds the admin role.
func (r *InMemoryAccountRepository) HasAdmin(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, acct := range r.accounts {
		if acct.Role == RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

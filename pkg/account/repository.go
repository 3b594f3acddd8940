package account

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tendant/simple-provision/pkg/platform"
)

// Common errors
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateIdentity = errors.New("username or email already registered")
)

// AccountRepository defines the persistence operations the saga needs.
// Create must check username/email uniqueness atomically with the insert.
// Delete is a hard delete: it is the saga's compensating action and must
// free the username and email for a fresh attempt.
type AccountRepository interface {
	Create(ctx context.Context, params CreateAccountParams) (Account, error)
	Get(ctx context.Context, id uuid.UUID) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateRegisteredPlatforms(ctx context.Context, id uuid.UUID, status map[platform.Platform]bool) (Account, error)
	HasAdmin(ctx context.Context) (bool, error)
}

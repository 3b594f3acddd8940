package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-provision/pkg/platform"
)

// PostgresAccountRepository implements AccountRepository using pgx. The
// unique constraints on username and email make the duplicate check atomic
// with the insert.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgreSQL-based account repository.
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		pool: pool,
	}
}

const accountColumns = `id, username, email, password_hash, role, display_name, organization,
	registered_lms, registered_ecommerce, registered_dms, created_at, last_modified_at`

// Create creates a new account, relying on the unique indexes for the
// duplicate-identity guarantee.
func (r *PostgresAccountRepository) Create(ctx context.Context, params CreateAccountParams) (Account, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, role, display_name, organization)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+accountColumns,
		uuid.New(), params.Username, params.Email, params.PasswordHash,
		string(params.Role), params.DisplayName, params.Organization)

	acct, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrDuplicateIdentity
		}
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}
	return acct, nil
}

// Get gets an account by id.
func (r *PostgresAccountRepository) Get(ctx context.Context, id uuid.UUID) (Account, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	acct, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to get account: %w", err)
	}
	return acct, nil
}

// Delete removes an account row entirely so the username and email are
// released for a fresh registration.
func (r *PostgresAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// UpdateRegisteredPlatforms persists the per-platform provisioning status.
func (r *PostgresAccountRepository) UpdateRegisteredPlatforms(ctx context.Context, id uuid.UUID, status map[platform.Platform]bool) (Account, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE accounts
		SET registered_lms = $2, registered_ecommerce = $3, registered_dms = $4,
			last_modified_at = now()
		WHERE id = $1
		RETURNING `+accountColumns,
		id, status[platform.LMS], status[platform.Ecommerce], status[platform.DMS])

	acct, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to update registered platforms: %w", err)
	}
	return acct, nil
}

// HasAdmin reports whether any account currently holds the admin role.
func (r *PostgresAccountRepository) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE role = $1)`, string(RoleAdmin)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for admin account: %w", err)
	}
	return exists, nil
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		acct                Account
		role                string
		lms, ecommerce, dms bool
	)
	err := row.Scan(&acct.ID, &acct.Username, &acct.Email, &acct.PasswordHash, &role,
		&acct.DisplayName, &acct.Organization, &lms, &ecommerce, &dms,
		&acct.CreatedAt, &acct.LastModifiedAt)
	if err != nil {
		return Account{}, err
	}
	acct.Role = Role(role)
	acct.RegisteredPlatforms = map[platform.Platform]bool{
		platform.LMS:       lms,
		platform.Ecommerce: ecommerce,
		platform.DMS:       dms,
	}
	return acct, nil
}

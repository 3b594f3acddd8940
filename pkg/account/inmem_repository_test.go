package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-provision/pkg/platform"
)

func testParams(username, email string) CreateAccountParams {
	return CreateAccountParams{
		Username:     username,
		Email:        email,
		PasswordHash: "hashed",
		Role:         RoleUser,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, testParams("ana", "ana@x.com"))
	require.NoError(t, err)
	assert.NotEqual(t, created.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, RoleUser, created.Role)
	for _, p := range platform.All() {
		assert.False(t, created.RegisteredPlatforms[p])
	}

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Username, got.Username)
}

func TestCreateDuplicate(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, testParams("ana", "ana@x.com"))
	require.NoError(t, err)

	// Same username, different email
	_, err = repo.Create(ctx, testParams("ana", "other@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	// Same email, different username
	_, err = repo.Create(ctx, testParams("other", "ana@x.com"))
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	// Identity matching is case-insensitive
	_, err = repo.Create(ctx, testParams("ANA", "x@y.com"))
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestDeleteFreesIdentity(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, testParams("ana", "ana@x.com"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// A rollback must release the username and email for a fresh attempt.
	_, err = repo.Create(ctx, testParams("ana", "ana@x.com"))
	assert.NoError(t, err)
}

func TestUpdateRegisteredPlatforms(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, testParams("ana", "ana@x.com"))
	require.NoError(t, err)

	updated, err := repo.UpdateRegisteredPlatforms(ctx, created.ID, map[platform.Platform]bool{
		platform.LMS: true,
	})
	require.NoError(t, err)
	assert.True(t, updated.RegisteredPlatforms[platform.LMS])
	assert.False(t, updated.RegisteredPlatforms[platform.Ecommerce])
	assert.False(t, updated.RegisteredPlatforms[platform.DMS])

	_, err = repo.UpdateRegisteredPlatforms(ctx, created.ID, map[platform.Platform]bool{
		platform.DMS: true,
	})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.RegisteredPlatforms[platform.LMS])
	assert.True(t, got.RegisteredPlatforms[platform.DMS])
}

func TestHasAdmin(t *testing.T) {
	repo := NewInMemoryAccountRepository()
	ctx := context.Background()

	hasAdmin, err := repo.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)

	_, err = repo.Create(ctx, testParams("ana", "ana@x.com"))
	require.NoError(t, err)

	hasAdmin, err = repo.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)

	adminParams := testParams("root", "root@x.com")
	adminParams.Role = RoleAdmin
	admin, err := repo.Create(ctx, adminParams)
	require.NoError(t, err)

	hasAdmin, err = repo.HasAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, hasAdmin)

	require.NoError(t, repo.Delete(ctx, admin.ID))
	hasAdmin, err = repo.HasAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "moderator", "editor", "user"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
}

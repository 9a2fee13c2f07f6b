package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menshub/config"
	"menshub/internal/domain/entity"
	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/service"
	"menshub/internal/infra/auth"
	"menshub/internal/infra/persistence/localstore"
)

func newTestProvider(t *testing.T) service.IdentityProvider {
	t.Helper()

	cfg := &config.Config{}
	cfg.LocalStore = &config.LocalStoreConfig{Path: t.TempDir()}

	store, err := localstore.NewStore(cfg)
	require.NoError(t, err)

	return NewProvider(localstore.NewCredentialRepository(store), auth.NewBcryptHasher())
}

func TestProvider_RegisterAndLogin(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	account, err := provider.Register(ctx, &service.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, account.UID)
	assert.Equal(t, entity.RoleMember, account.Role)

	loggedIn, err := provider.Login(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, account.UID, loggedIn.UID)
}

func TestProvider_RegisterDuplicateEmailIsCaseInsensitive(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	_, err := provider.Register(ctx, &service.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = provider.Register(ctx, &service.RegisterInput{
		Name: "Imposter", Email: "ALICE@Example.COM", Password: "hunter22",
	})
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
}

func TestProvider_RegisterValidation(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	_, err := provider.Register(ctx, &service.RegisterInput{
		Name: "Bad", Email: "not-an-email", Password: "hunter22",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidEmail)

	_, err = provider.Register(ctx, &service.RegisterInput{
		Name: "Bad", Email: "ok@example.com", Password: "12345",
	})
	assert.ErrorIs(t, err, domainerrors.ErrWeakPassword)
}

func TestProvider_LoginFailures(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	_, err := provider.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domainerrors.ErrAccountNotFound)

	_, err = provider.Register(ctx, &service.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	_, err = provider.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, domainerrors.ErrIncorrectPassword)
}

func TestProvider_CurrentUser(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	account, err := provider.Register(ctx, &service.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	resolved, err := provider.CurrentUser(ctx, account.UID)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, "alice@example.com", resolved.Email)

	unknown, err := provider.CurrentUser(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestProvider_ListUsersStripsHashes(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	_, err := provider.Register(ctx, &service.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)

	accounts, err := provider.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	// Account carries no credential material at all.
	assert.Equal(t, "alice@example.com", accounts[0].Email)
}

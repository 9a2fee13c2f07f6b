package impl

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menshub/config"
	"menshub/internal/domain/entity"
	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/service"
	"menshub/internal/usecase"
)

func alice() *entity.Account {
	return &entity.Account{
		UID:   "uid-alice",
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  entity.RoleMember,
	}
}

func newTestAuth(t *testing.T, cfg *config.Config, remote service.GoogleIdentityProvider, local service.IdentityProvider) (usecase.AuthUsecase, usecase.SessionUsecase, *fakePublisher) {
	t.Helper()

	session, _ := newTestSession(t, cfg)
	publisher := &fakePublisher{}
	if local == nil {
		local = &fakeLocal{}
	}

	return NewAuthService(cfg, remote, local, session, publisher, testLogger()), session, publisher
}

func TestAuthService_LoginEstablishesSessionSynchronously(t *testing.T) {
	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return alice(), nil
		},
	}
	authSvc, session, publisher := newTestAuth(t, testConfig(t), remote, nil)

	account, err := authSvc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-alice", account.UID)

	// No race window: the session is valid the moment Login returns.
	assert.True(t, authSvc.IsAuthenticated())

	current := session.Current()
	require.NotNil(t, current)
	assert.Equal(t, "uid-alice", current.SubjectID)
	assert.Equal(t, []string{service.AuthEventLogin}, publisher.types())

	session.StopIdleTimer()
}

func TestAuthService_LoginFallsBackWhenRemoteUnavailable(t *testing.T) {
	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return nil, domainerrors.ErrProviderUnavailable
		},
	}
	local := &fakeLocal{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return alice(), nil
		},
	}
	authSvc, session, _ := newTestAuth(t, testConfig(t), remote, local)

	account, err := authSvc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-alice", account.UID)
	assert.Equal(t, 1, local.loginCalls)
	assert.True(t, authSvc.IsAuthenticated())

	session.StopIdleTimer()
}

func TestAuthService_MappedErrorsDoNotFallBack(t *testing.T) {
	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return nil, domainerrors.ErrIncorrectPassword
		},
	}
	local := &fakeLocal{}
	authSvc, _, publisher := newTestAuth(t, testConfig(t), remote, local)

	_, err := authSvc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "wrong",
	})
	assert.ErrorIs(t, err, domainerrors.ErrIncorrectPassword)
	assert.Zero(t, local.loginCalls)
	assert.False(t, authSvc.IsAuthenticated())
	assert.Empty(t, publisher.types())
}

func TestAuthService_RegisterFallsBackAndPublishes(t *testing.T) {
	remote := &fakeRemote{
		registerFn: func(_ context.Context, _ *service.RegisterInput) (*entity.Account, error) {
			return nil, errors.New("connection refused")
		},
	}
	local := &fakeLocal{
		registerFn: func(_ context.Context, input *service.RegisterInput) (*entity.Account, error) {
			return &entity.Account{UID: "local-1", Name: input.Name, Email: input.Email, Role: entity.RoleMember}, nil
		},
	}
	authSvc, session, publisher := newTestAuth(t, testConfig(t), remote, local)

	account, err := authSvc.Register(context.Background(), usecase.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, account.Role)
	assert.Equal(t, 1, local.registerCalls)
	assert.Equal(t, []string{service.AuthEventRegister}, publisher.types())

	session.StopIdleTimer()
}

func TestAuthService_CurrentUserRetriesRemote(t *testing.T) {
	attempts := 0
	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return alice(), nil
		},
		currentUserFn: func(_ context.Context, subjectID string) (*entity.Account, error) {
			attempts++
			if attempts < 3 {
				return nil, errors.New("sdk warming up")
			}

			return alice(), nil
		},
	}
	authSvc, session, _ := newTestAuth(t, testConfig(t), remote, nil)

	_, err := authSvc.Login(context.Background(), usecase.LoginInput{Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)

	account, err := authSvc.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "uid-alice", account.UID)
	assert.Equal(t, 3, attempts)

	session.StopIdleTimer()
}

func TestAuthService_CurrentUserFallsBackToLocal(t *testing.T) {
	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return alice(), nil
		},
		currentUserFn: func(_ context.Context, _ string) (*entity.Account, error) {
			// Remote never recognizes the subject.
			return nil, nil
		},
	}
	local := &fakeLocal{
		currentUserFn: func(_ context.Context, subjectID string) (*entity.Account, error) {
			return &entity.Account{UID: subjectID, Name: "Alice (local)", Role: entity.RoleMember}, nil
		},
	}
	authSvc, session, _ := newTestAuth(t, testConfig(t), remote, local)

	_, err := authSvc.Login(context.Background(), usecase.LoginInput{Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)

	account, err := authSvc.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "Alice (local)", account.Name)

	session.StopIdleTimer()
}

func TestAuthService_CurrentUserAnonymousWithoutSession(t *testing.T) {
	authSvc, _, _ := newTestAuth(t, testConfig(t), &fakeRemote{}, nil)

	account, err := authSvc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAuthService_LogoutClearsStateAndPublishes(t *testing.T) {
	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return alice(), nil
		},
		logoutFn: func(_ context.Context, _ string) error {
			return errors.New("remote sign-out unreachable")
		},
	}
	authSvc, _, publisher := newTestAuth(t, testConfig(t), remote, nil)

	_, err := authSvc.Login(context.Background(), usecase.LoginInput{Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)
	require.True(t, authSvc.IsAuthenticated())

	// Logout succeeds locally even when remote sign-out fails.
	require.NoError(t, authSvc.Logout(context.Background()))
	assert.False(t, authSvc.IsAuthenticated())
	assert.Equal(t, 1, remote.logoutCalls)
	assert.Equal(t, []string{service.AuthEventLogin, service.AuthEventLogout}, publisher.types())

	account, err := authSvc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAuthService_LogoutDuringLoginLeavesLoggedOut(t *testing.T) {
	providerEntered := make(chan struct{})
	release := make(chan struct{})

	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			close(providerEntered)
			<-release

			return alice(), nil
		},
	}
	authSvc, _, _ := newTestAuth(t, testConfig(t), remote, nil)

	done := make(chan error, 1)
	go func() {
		_, err := authSvc.Login(context.Background(), usecase.LoginInput{
			Email: "alice@example.com", Password: "x",
		})
		done <- err
	}()

	<-providerEntered
	// Logout lands while the provider call is still in flight.
	require.NoError(t, authSvc.Logout(context.Background()))
	close(release)

	require.NoError(t, <-done)

	// The logout epoch invalidated the in-flight login's session write.
	assert.False(t, authSvc.IsAuthenticated())
}

func TestAuthService_GoogleLoginUnavailableWithoutRemote(t *testing.T) {
	cfg := testConfig(t)
	cfg.Identity.RemoteEnabled = false

	authSvc, _, _ := newTestAuth(t, cfg, &fakeRemote{}, nil)

	_, err := authSvc.LoginWithGoogle(context.Background(), "some-token")
	assert.ErrorIs(t, err, domainerrors.ErrGoogleLoginUnavailable)

	_, err = authSvc.BeginGoogleRedirect("state")
	assert.ErrorIs(t, err, domainerrors.ErrGoogleLoginUnavailable)
}

func TestAuthService_CompleteGoogleRedirectNeverFails(t *testing.T) {
	remote := &fakeRemote{
		redirectFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return nil, errors.New("stale redirect")
		},
	}
	authSvc, _, _ := newTestAuth(t, testConfig(t), remote, nil)

	// A broken pending redirect is logged and treated as none pending.
	account, err := authSvc.CompleteGoogleRedirect(context.Background(), "state", "code")
	require.NoError(t, err)
	assert.Nil(t, account)

	// No code at all means no redirect pending.
	account, err = authSvc.CompleteGoogleRedirect(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestAuthService_CompleteGoogleRedirectLogsIn(t *testing.T) {
	remote := &fakeRemote{
		redirectFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return alice(), nil
		},
	}
	authSvc, session, publisher := newTestAuth(t, testConfig(t), remote, nil)

	account, err := authSvc.CompleteGoogleRedirect(context.Background(), "state", "code")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.True(t, authSvc.IsAuthenticated())
	assert.Equal(t, []string{service.AuthEventLogin}, publisher.types())

	session.StopIdleTimer()
}

func TestAuthService_ListUsersSafeFallsBack(t *testing.T) {
	remote := &fakeRemote{
		listUsersFn: func(_ context.Context) ([]*entity.Account, error) {
			return nil, domainerrors.ErrNetworkFailure
		},
	}
	local := &fakeLocal{
		listUsersFn: func(_ context.Context) ([]*entity.Account, error) {
			return []*entity.Account{alice()}, nil
		},
	}
	authSvc, _, _ := newTestAuth(t, testConfig(t), remote, local)

	accounts, err := authSvc.ListUsersSafe(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAuthService_EndToEndScenario(t *testing.T) {
	remote := &fakeRemote{
		registerFn: func(_ context.Context, input *service.RegisterInput) (*entity.Account, error) {
			return &entity.Account{UID: "uid-alice", Name: input.Name, Email: input.Email, Role: input.Role}, nil
		},
		currentUserFn: func(_ context.Context, _ string) (*entity.Account, error) {
			return alice(), nil
		},
	}
	authSvc, _, _ := newTestAuth(t, testConfig(t), remote, nil)
	ctx := context.Background()

	account, err := authSvc.Register(ctx, usecase.RegisterInput{
		Name: "Alice", Email: "alice@x.com", Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, account.Role)
	assert.True(t, authSvc.IsAuthenticated())

	require.NoError(t, authSvc.Logout(ctx))
	assert.False(t, authSvc.IsAuthenticated())

	current, err := authSvc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestAuthService_IdleTimeoutForcesLogout(t *testing.T) {
	cfg := testConfig(t)
	cfg.Session.IdleTimeout = 20 * time.Millisecond

	remote := &fakeRemote{
		loginFn: func(_ context.Context, _, _ string) (*entity.Account, error) {
			return alice(), nil
		},
	}
	authSvc, _, _ := newTestAuth(t, cfg, remote, nil)

	_, err := authSvc.Login(context.Background(), usecase.LoginInput{Email: "alice@example.com", Password: "x"})
	require.NoError(t, err)
	require.True(t, authSvc.IsAuthenticated())

	// The watchdog fires after the idle window and logs the actor out.
	assert.Eventually(t, func() bool {
		return !authSvc.IsAuthenticated()
	}, time.Second, 10*time.Millisecond)
}

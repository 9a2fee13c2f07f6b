package impl

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"menshub/config"
	deliverycontext "menshub/internal/delivery/context"
	"menshub/internal/domain/entity"
	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/service"
	"menshub/internal/retry"
	"menshub/internal/usecase"
)

// Remote current-user resolution retries briefly to absorb provider
// warm-up latency right after a login.
const (
	currentUserAttempts = 3
	currentUserDelay    = 100 * time.Millisecond
)

// authService composes the remote identity provider and the local
// credential store behind a single surface. Control flow is always
// try-remote-then-fallback; the two providers never know about each other.
type authService struct {
	remote    service.GoogleIdentityProvider // nil when remote identity is disabled
	local     service.IdentityProvider
	session   usecase.SessionUsecase
	publisher service.EventPublisher
	logger    *slog.Logger

	// logoutEpoch invalidates session writes from logins that were
	// in flight when a logout happened: logout bumps the counter, and a
	// login only persists its session if the counter still matches the
	// value captured before the provider call.
	logoutEpoch atomic.Uint64
}

// NewAuthService is the constructor for the auth facade.
func NewAuthService(
	cfg *config.Config,
	remote service.GoogleIdentityProvider,
	local service.IdentityProvider,
	session usecase.SessionUsecase,
	publisher service.EventPublisher,
	logger *slog.Logger,
) usecase.AuthUsecase {
	if cfg.Identity == nil || !cfg.Identity.RemoteEnabled {
		remote = nil
	}

	return &authService{
		remote:    remote,
		local:     local,
		session:   session,
		publisher: publisher,
		logger:    logger,
	}
}

// Register creates an account remotely, falling back to the local store
// when the remote provider is unavailable.
func (a *authService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Account, error) {
	epoch := a.logoutEpoch.Load()

	registerInput := &service.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     entity.RoleMember,
	}

	account, err := a.tryWithFallback(ctx, "register",
		func(remote service.GoogleIdentityProvider) (*entity.Account, error) {
			return remote.Register(ctx, registerInput)
		},
		func() (*entity.Account, error) {
			return a.local.Register(ctx, registerInput)
		},
	)
	if err != nil {
		return nil, err
	}

	a.establishSession(account, epoch)
	a.publish(ctx, service.AuthEventRegister, account)

	return account, nil
}

// Login authenticates an email/password pair, remote first.
func (a *authService) Login(ctx context.Context, input usecase.LoginInput) (*entity.Account, error) {
	epoch := a.logoutEpoch.Load()

	account, err := a.tryWithFallback(ctx, "login",
		func(remote service.GoogleIdentityProvider) (*entity.Account, error) {
			return remote.Login(ctx, input.Email, input.Password)
		},
		func() (*entity.Account, error) {
			return a.local.Login(ctx, input.Email, input.Password)
		},
	)
	if err != nil {
		return nil, err
	}

	a.establishSession(account, epoch)
	a.publish(ctx, service.AuthEventLogin, account)

	return account, nil
}

// LoginWithGoogle authenticates a Google ID token. There is no local
// equivalent, so a disabled remote provider is a hard failure.
func (a *authService) LoginWithGoogle(ctx context.Context, idToken string) (*entity.Account, error) {
	if a.remote == nil {
		return nil, domainerrors.ErrGoogleLoginUnavailable
	}

	epoch := a.logoutEpoch.Load()

	account, err := a.remote.LoginWithGoogle(ctx, idToken)
	if err != nil {
		return nil, err
	}

	a.establishSession(account, epoch)
	a.publish(ctx, service.AuthEventLogin, account)

	return account, nil
}

// BeginGoogleRedirect returns the redirect-flow authorization URL.
func (a *authService) BeginGoogleRedirect(state string) (string, error) {
	if a.remote == nil {
		return "", domainerrors.ErrGoogleLoginUnavailable
	}

	return a.remote.AuthorizationURL(state), nil
}

// CompleteGoogleRedirect resolves a pending redirect flow. Failures are
// logged and reported as "no redirect pending" so startup never blocks on
// a stale redirect.
func (a *authService) CompleteGoogleRedirect(ctx context.Context, state, code string) (*entity.Account, error) {
	if a.remote == nil || code == "" {
		return nil, nil
	}

	epoch := a.logoutEpoch.Load()

	account, err := a.remote.HandleRedirectResult(ctx, state, code)
	if err != nil {
		a.logger.Warn("redirect result resolution failed, treating as no redirect pending",
			slog.Any("error", err))

		return nil, nil
	}
	if account == nil {
		return nil, nil
	}

	a.establishSession(account, epoch)
	a.publish(ctx, service.AuthEventLogin, account)

	return account, nil
}

// Logout clears local session state first, then attempts remote sign-out,
// and broadcasts auth-changed unconditionally.
func (a *authService) Logout(ctx context.Context) error {
	a.logoutEpoch.Add(1)

	// Resolve the subject before the record disappears.
	var subjectID string
	if session := a.session.Current(); session != nil {
		subjectID = session.SubjectID
	}

	if err := a.session.Clear(); err != nil {
		a.logger.Warn("local session cleanup failed", slog.Any("error", err))
	}

	if a.remote != nil && subjectID != "" {
		if err := a.remote.Logout(ctx, subjectID); err != nil {
			// Local state is already gone; remote sign-out failure does
			// not resurrect the session.
			a.logger.Warn("remote sign-out failed", slog.Any("error", err))
		}
	}

	a.publish(ctx, service.AuthEventLogout, &entity.Account{UID: subjectID})

	return nil
}

// CurrentUser resolves the authenticated actor's view model.
func (a *authService) CurrentUser(ctx context.Context) (*entity.Account, error) {
	session := a.session.Current()
	if session == nil {
		return nil, nil
	}

	if a.remote != nil {
		account, err := retry.Do(ctx, currentUserAttempts, currentUserDelay,
			func(ctx context.Context) (*entity.Account, error) {
				return a.remote.CurrentUser(ctx, session.SubjectID)
			})
		if err == nil && account != nil {
			return account, nil
		}
		if err != nil {
			a.logger.Warn("remote current-user lookup failed, falling back",
				slog.Any("error", err))
		}
	}

	account, err := a.local.CurrentUser(ctx, session.SubjectID)
	if err != nil {
		a.logger.Warn("local current-user lookup failed", slog.Any("error", err))

		return nil, nil
	}

	return account, nil
}

// IsAuthenticated reports whether a valid session exists.
func (a *authService) IsAuthenticated() bool {
	return a.session.Validate()
}

// NoteActivity stamps last activity and re-arms the idle watchdog. The
// re-arm carries the same stale-activity short-circuit as login, so a
// request arriving long after the idle window still forces the logout.
func (a *authService) NoteActivity() {
	if !a.session.Validate() {
		return
	}

	a.session.ResetIdleTimer(a.onIdleExpire)
}

// ListUsersSafe returns all known accounts with credentials stripped.
func (a *authService) ListUsersSafe(ctx context.Context) ([]*entity.Account, error) {
	if a.remote != nil {
		accounts, err := a.remote.ListUsers(ctx)
		if err == nil {
			return accounts, nil
		}
		if !domainerrors.IsUnavailability(err) {
			return nil, err
		}
		a.logger.Warn("remote user listing failed, falling back", slog.Any("error", err))
	}

	return a.local.ListUsers(ctx)
}

// ResetPassword dispatches a password-reset email via the remote provider.
func (a *authService) ResetPassword(ctx context.Context, email string) error {
	if a.remote == nil {
		return domainerrors.ErrProviderUnavailable
	}

	return a.remote.ResetPassword(ctx, email)
}

// tryWithFallback attempts the remote operation and falls back to the
// local store only for unavailability-class failures; mapped auth errors
// (wrong password, duplicate email, ...) propagate untouched.
func (a *authService) tryWithFallback(
	_ context.Context,
	operation string,
	remoteFn func(service.GoogleIdentityProvider) (*entity.Account, error),
	localFn func() (*entity.Account, error),
) (*entity.Account, error) {
	if a.remote != nil {
		account, err := remoteFn(a.remote)
		if err == nil {
			return account, nil
		}
		if !domainerrors.IsUnavailability(err) {
			return nil, err
		}
		a.logger.Warn("remote identity provider unavailable, using local fallback",
			slog.String("operation", operation),
			slog.Any("error", err))
	}

	return localFn()
}

// establishSession persists the session for a completed login unless a
// logout happened while the provider call was in flight. The write is
// synchronous: when this returns, the very next validity check sees it.
func (a *authService) establishSession(account *entity.Account, epoch uint64) {
	if a.logoutEpoch.Load() != epoch {
		a.logger.Info("logout raced an in-flight login, leaving session cleared",
			slog.String("uid", account.UID))

		return
	}

	if err := a.session.Establish(account.UID); err != nil {
		a.logger.Error("session write failed", slog.Any("error", err))

		return
	}

	a.session.ResetIdleTimer(a.onIdleExpire)
}

// onIdleExpire is the watchdog callback: force logout with no dialog.
func (a *authService) onIdleExpire() {
	a.logger.Info("idle timeout reached, logging out")

	if err := a.Logout(context.Background()); err != nil {
		a.logger.Warn("idle logout failed", slog.Any("error", err))
	}
}

func (a *authService) publish(ctx context.Context, eventType string, account *entity.Account) {
	event := &service.AuthEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Type:      eventType,
		SubjectID: account.UID,
		Email:     account.Email,
		At:        time.Now(),
	}

	if err := a.publisher.PublishAuthEvent(ctx, event); err != nil {
		a.logger.Warn("auth event publish failed",
			slog.String("type", eventType),
			slog.Any("error", err))
	}
}

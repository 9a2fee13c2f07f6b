package impl

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"menshub/config"
	"menshub/internal/domain/entity"
	"menshub/internal/domain/service"
	"menshub/internal/infra/auth"
	"menshub/internal/infra/persistence/localstore"
	"menshub/internal/usecase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Identity = &config.IdentityConfig{RemoteEnabled: true}
	cfg.Session = &config.SessionConfig{
		Secret:      "test-secret",
		TTLHours:    12,
		IdleTimeout: 30 * time.Minute,
	}
	cfg.LocalStore = &config.LocalStoreConfig{Path: t.TempDir()}

	return cfg
}

// newTestSession builds a session manager over a real slot store and codec.
func newTestSession(t *testing.T, cfg *config.Config) (usecase.SessionUsecase, *localstore.Store) {
	t.Helper()

	store, err := localstore.NewStore(cfg)
	require.NoError(t, err)

	codec, err := auth.NewJWTSessionCodec(cfg)
	require.NoError(t, err)

	return NewSessionService(cfg, localstore.NewSessionRepository(store), codec, testLogger()), store
}

// fakeRemote is a programmable GoogleIdentityProvider.
type fakeRemote struct {
	mu sync.Mutex

	registerFn     func(ctx context.Context, input *service.RegisterInput) (*entity.Account, error)
	loginFn        func(ctx context.Context, email, password string) (*entity.Account, error)
	currentUserFn  func(ctx context.Context, subjectID string) (*entity.Account, error)
	logoutFn       func(ctx context.Context, subjectID string) error
	listUsersFn    func(ctx context.Context) ([]*entity.Account, error)
	googleLoginFn  func(ctx context.Context, idToken string) (*entity.Account, error)
	redirectFn     func(ctx context.Context, state, code string) (*entity.Account, error)
	resetFn        func(ctx context.Context, email string) error
	currentCalls   int
	logoutCalls    int
	loginCallCount int
}

func (f *fakeRemote) Register(ctx context.Context, input *service.RegisterInput) (*entity.Account, error) {
	return f.registerFn(ctx, input)
}

func (f *fakeRemote) Login(ctx context.Context, email, password string) (*entity.Account, error) {
	f.mu.Lock()
	f.loginCallCount++
	f.mu.Unlock()

	return f.loginFn(ctx, email, password)
}

func (f *fakeRemote) CurrentUser(ctx context.Context, subjectID string) (*entity.Account, error) {
	f.mu.Lock()
	f.currentCalls++
	f.mu.Unlock()

	return f.currentUserFn(ctx, subjectID)
}

func (f *fakeRemote) Logout(ctx context.Context, subjectID string) error {
	f.mu.Lock()
	f.logoutCalls++
	f.mu.Unlock()

	if f.logoutFn != nil {
		return f.logoutFn(ctx, subjectID)
	}

	return nil
}

func (f *fakeRemote) ListUsers(ctx context.Context) ([]*entity.Account, error) {
	if f.listUsersFn != nil {
		return f.listUsersFn(ctx)
	}

	return nil, nil
}

func (f *fakeRemote) LoginWithGoogle(ctx context.Context, idToken string) (*entity.Account, error) {
	return f.googleLoginFn(ctx, idToken)
}

func (f *fakeRemote) AuthorizationURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (f *fakeRemote) HandleRedirectResult(ctx context.Context, state, code string) (*entity.Account, error) {
	if f.redirectFn != nil {
		return f.redirectFn(ctx, state, code)
	}

	return nil, nil
}

func (f *fakeRemote) ResetPassword(ctx context.Context, email string) error {
	if f.resetFn != nil {
		return f.resetFn(ctx, email)
	}

	return nil
}

// fakeLocal is a programmable IdentityProvider standing in for the
// credential store.
type fakeLocal struct {
	registerFn    func(ctx context.Context, input *service.RegisterInput) (*entity.Account, error)
	loginFn       func(ctx context.Context, email, password string) (*entity.Account, error)
	currentUserFn func(ctx context.Context, subjectID string) (*entity.Account, error)
	listUsersFn   func(ctx context.Context) ([]*entity.Account, error)

	registerCalls int
	loginCalls    int
}

func (f *fakeLocal) Register(ctx context.Context, input *service.RegisterInput) (*entity.Account, error) {
	f.registerCalls++
	if f.registerFn != nil {
		return f.registerFn(ctx, input)
	}

	return nil, nil
}

func (f *fakeLocal) Login(ctx context.Context, email, password string) (*entity.Account, error) {
	f.loginCalls++
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}

	return nil, nil
}

func (f *fakeLocal) CurrentUser(ctx context.Context, subjectID string) (*entity.Account, error) {
	if f.currentUserFn != nil {
		return f.currentUserFn(ctx, subjectID)
	}

	return nil, nil
}

func (f *fakeLocal) Logout(_ context.Context, _ string) error {
	return nil
}

func (f *fakeLocal) ListUsers(ctx context.Context) ([]*entity.Account, error) {
	if f.listUsersFn != nil {
		return f.listUsersFn(ctx)
	}

	return nil, nil
}

// fakePublisher records published auth events.
type fakePublisher struct {
	mu     sync.Mutex
	events []*service.AuthEvent
}

func (f *fakePublisher) PublishAuthEvent(_ context.Context, event *service.AuthEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)

	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := make([]string, len(f.events))
	for i, event := range f.events {
		result[i] = event.Type
	}

	return result
}

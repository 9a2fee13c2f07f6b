package impl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menshub/internal/domain/entity"
	"menshub/internal/infra/auth"
	"menshub/internal/infra/persistence/localstore"
)

func TestSessionService_EstablishThenValidate(t *testing.T) {
	session, _ := newTestSession(t, testConfig(t))

	require.NoError(t, session.Establish("user-1"))

	// The write is synchronous: the very next check must see it.
	assert.True(t, session.Validate())

	current := session.Current()
	require.NotNil(t, current)
	assert.Equal(t, "user-1", current.SubjectID)
	assert.True(t, current.ExpiresAt.After(time.Now().Add(11*time.Hour)))
}

func TestSessionService_NoSessionIsAnonymous(t *testing.T) {
	session, _ := newTestSession(t, testConfig(t))

	assert.False(t, session.Validate())
	assert.Nil(t, session.Current())
}

func TestSessionService_ExpiredSessionInvalidAndDeleted(t *testing.T) {
	cfg := testConfig(t)
	session, _ := newTestSession(t, cfg)

	store, err := localstore.NewStore(cfg)
	require.NoError(t, err)
	repo := localstore.NewSessionRepository(store)

	codec, err := auth.NewJWTSessionCodec(cfg)
	require.NoError(t, err)

	// Plant an authentic but expired record.
	encoded, err := codec.Encode(&entity.Session{
		SubjectID: "user-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)
	require.NoError(t, repo.SaveSession(encoded))

	assert.False(t, session.Validate())

	// The record was deleted, not just reported invalid.
	_, found, err := repo.LoadSession()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, session.Current())
}

func TestSessionService_CorruptSessionSelfHeals(t *testing.T) {
	cfg := testConfig(t)
	session, store := newTestSession(t, cfg)

	require.NoError(t, store.SetRaw("session", "garbage-not-a-token"))

	assert.Nil(t, session.Current())

	// Self-healed: the slot is gone and the next check is a clean miss.
	_, found, err := localstore.NewSessionRepository(store).LoadSession()
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionService_StaleActivityFiresSynchronously(t *testing.T) {
	cfg := testConfig(t)
	session, _ := newTestSession(t, cfg)

	require.NoError(t, session.Establish("user-1"))

	// Age the recorded activity past the idle window plus buffer.
	svc := session.(*sessionService)
	stale := time.Now().Add(-(cfg.Session.IdleTimeout + 10*time.Second))
	require.NoError(t, svc.repo.SaveLastActivity(stale))

	fired := false
	session.ResetIdleTimer(func() { fired = true })

	// The callback ran before ResetIdleTimer returned; no timer was armed.
	assert.True(t, fired)
	svc.mu.Lock()
	assert.Nil(t, svc.timer)
	svc.mu.Unlock()
}

func TestSessionService_FreshActivityArmsTimer(t *testing.T) {
	session, _ := newTestSession(t, testConfig(t))

	require.NoError(t, session.Establish("user-1"))

	fired := false
	session.ResetIdleTimer(func() { fired = true })

	assert.False(t, fired)

	svc := session.(*sessionService)
	svc.mu.Lock()
	assert.NotNil(t, svc.timer)
	svc.mu.Unlock()

	session.StopIdleTimer()
}

func TestSessionService_ResetCancelsPriorTimer(t *testing.T) {
	session, _ := newTestSession(t, testConfig(t))
	require.NoError(t, session.Establish("user-1"))

	svc := session.(*sessionService)

	session.ResetIdleTimer(func() {})
	svc.mu.Lock()
	first := svc.timer
	svc.mu.Unlock()

	session.ResetIdleTimer(func() {})
	svc.mu.Lock()
	second := svc.timer
	svc.mu.Unlock()

	// Single-shot semantics: re-arming replaced the timer.
	assert.NotSame(t, first, second)

	session.StopIdleTimer()
}

func TestSessionService_StopIdleTimerIdempotent(t *testing.T) {
	session, _ := newTestSession(t, testConfig(t))

	session.StopIdleTimer()
	session.StopIdleTimer()

	require.NoError(t, session.Establish("user-1"))
	session.ResetIdleTimer(func() {})
	session.StopIdleTimer()
	session.StopIdleTimer()
}

func TestSessionService_ClearRemovesEverything(t *testing.T) {
	cfg := testConfig(t)
	session, store := newTestSession(t, cfg)

	require.NoError(t, session.Establish("user-1"))
	require.NoError(t, session.Clear())

	assert.False(t, session.Validate())

	repo := localstore.NewSessionRepository(store)
	_, foundSession, err := repo.LoadSession()
	require.NoError(t, err)
	assert.False(t, foundSession)

	_, foundActivity, err := repo.LoadLastActivity()
	require.NoError(t, err)
	assert.False(t, foundActivity)
}

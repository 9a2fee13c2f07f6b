package localstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menshub/config"
	"menshub/internal/domain/entity"
	"menshub/internal/domain/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	cfg := &config.Config{}
	cfg.LocalStore = &config.LocalStoreConfig{Path: t.TempDir()}

	store, err := NewStore(cfg)
	require.NoError(t, err)

	return store
}

func TestStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, store.Set("greeting", payload{Name: "hello", Count: 3}))

	var got payload
	found, err := store.Get("greeting", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "hello", Count: 3}, got)
}

func TestStore_MissingSlot(t *testing.T) {
	store := newTestStore(t)

	var got string
	found, err := store.Get("absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetRaw("token", "abc"))
	require.NoError(t, store.Delete("token"))
	require.NoError(t, store.Delete("token"))

	_, found, err := store.GetRaw("token")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CorruptSlotReportsDecodeError(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(store.dir, "broken.json"), []byte("{not json"), 0o600))

	var got map[string]any
	found, err := store.Get("broken", &got)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestStore_RejectsPathTraversalKeys(t *testing.T) {
	store := newTestStore(t)

	require.Error(t, store.Set("../escape", "x"))

	_, err := store.slotPath("a/b")
	assert.Error(t, err)
}

func TestCredentialRepository_CreateAndFind(t *testing.T) {
	repo := NewCredentialRepository(newTestStore(t))
	ctx := context.Background()

	record := &entity.LocalUserRecord{
		ID:           "id-1",
		Name:         "Alice",
		Email:        "Alice@Example.com",
		Role:         entity.RoleMember,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(ctx, record))

	// Email lookups are case-insensitive and the stored email is lowercased.
	found, err := repo.FindByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "id-1", found.ID)
	assert.Equal(t, "alice@example.com", found.Email)

	byID, err := repo.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)
}

func TestCredentialRepository_NotFound(t *testing.T) {
	repo := NewCredentialRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}

func TestCredentialRepository_ListSurvivesRestart(t *testing.T) {
	cfg := &config.Config{}
	cfg.LocalStore = &config.LocalStoreConfig{Path: t.TempDir()}

	store, err := NewStore(cfg)
	require.NoError(t, err)
	repo := NewCredentialRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.LocalUserRecord{ID: "a", Email: "a@example.com"}))
	require.NoError(t, repo.Create(ctx, &entity.LocalUserRecord{ID: "b", Email: "b@example.com"}))

	// A fresh store over the same directory sees the same records.
	reopened, err := NewStore(cfg)
	require.NoError(t, err)

	records, err := NewCredentialRepository(reopened).List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

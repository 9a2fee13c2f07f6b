package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menshub/config"
	"menshub/internal/domain/entity"
)

func codecConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.Session = &config.SessionConfig{Secret: secret}

	return cfg
}

func TestJWTSessionCodec_RoundTrip(t *testing.T) {
	codec, err := NewJWTSessionCodec(codecConfig("test-secret"))
	require.NoError(t, err)

	expiry := time.Now().Add(12 * time.Hour).Truncate(time.Second)
	token, err := codec.Encode(&entity.Session{SubjectID: "user-123", ExpiresAt: expiry})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", decoded.SubjectID)
	assert.True(t, expiry.Equal(decoded.ExpiresAt))
}

func TestJWTSessionCodec_DecodeExpiredStillSucceeds(t *testing.T) {
	// The codec only verifies authenticity; expiry is a session-manager
	// concern so an expired record must decode cleanly.
	codec, err := NewJWTSessionCodec(codecConfig("test-secret"))
	require.NoError(t, err)

	expiry := time.Now().Add(-time.Hour).Truncate(time.Second)
	token, err := codec.Encode(&entity.Session{SubjectID: "user-123", ExpiresAt: expiry})
	require.NoError(t, err)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	assert.True(t, decoded.Expired(time.Now()))
}

func TestJWTSessionCodec_RejectsTampering(t *testing.T) {
	codec, err := NewJWTSessionCodec(codecConfig("test-secret"))
	require.NoError(t, err)

	token, err := codec.Encode(&entity.Session{SubjectID: "user-123", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = codec.Decode(token + "x")
	assert.Error(t, err)

	_, err = codec.Decode("not-a-token")
	assert.Error(t, err)
}

func TestJWTSessionCodec_RejectsForeignSecret(t *testing.T) {
	signer, err := NewJWTSessionCodec(codecConfig("secret-a"))
	require.NoError(t, err)
	verifier, err := NewJWTSessionCodec(codecConfig("secret-b"))
	require.NoError(t, err)

	token, err := signer.Encode(&entity.Session{SubjectID: "user-123", ExpiresAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	_, err = verifier.Decode(token)
	assert.Error(t, err)
}

func TestNewJWTSessionCodec_RequiresSecret(t *testing.T) {
	_, err := NewJWTSessionCodec(&config.Config{Session: &config.SessionConfig{}})
	assert.Error(t, err)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("wrong password", hash))
}

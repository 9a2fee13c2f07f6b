package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menshub/internal/domain/service"
)

func TestLocalHTTPPublisher_PublishAuthEvent(t *testing.T) {
	var received PubSubPushMessage
	var gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &received))
		gotRequestID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	event := &service.AuthEvent{
		RequestID: "req-1",
		Type:      service.AuthEventLogin,
		SubjectID: "user-1",
		Email:     "user@example.com",
		At:        time.Now(),
	}
	require.NoError(t, publisher.PublishAuthEvent(context.Background(), event))

	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, service.AuthEventLogin, received.Message.Attributes["type"])
	assert.Equal(t, "user-1", received.Message.Attributes["subject_id"])

	decoded, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var decodedEvent service.AuthEvent
	require.NoError(t, json.Unmarshal(decoded, &decodedEvent))
	assert.Equal(t, "user@example.com", decodedEvent.Email)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	err := publisher.PublishAuthEvent(context.Background(), &service.AuthEvent{Type: service.AuthEventLogout})
	assert.Error(t, err)
}

package realtime

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dentalclinic/internal/auth"
	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, hub *Hub, userID uuid.UUID) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID != uuid.Nil {
			r = r.WithContext(auth.WithPrincipal(r.Context(), auth.Principal{UserID: userID, Role: models.RolePatient}))
		}
		hub.ServeWS(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PublishToConnectedUser(t *testing.T) {
	registry := NewConnectionRegistry()
	hub := NewHub(registry, zap.NewNop(), HubOptions{})
	user := uuid.New()
	conn := dial(t, newTestServer(t, hub, user))

	require.Eventually(t, func() bool {
		_, ok := registry.Lookup(user)
		return ok
	}, time.Second, 10*time.Millisecond)

	err := hub.PublishNotification(context.Background(), user, &NotificationEvent{
		NotificationID: uuid.New(),
		Title:          "Lịch hẹn mới",
		Message:        "Bạn có lịch hẹn lúc 09:00",
	})
	require.NoError(t, err)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got NotificationEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, EventNotification, got.Type)
	assert.Equal(t, "Lịch hẹn mới", got.Title)
}

func TestHub_OfflineUserIsNotAnError(t *testing.T) {
	hub := NewHub(NewConnectionRegistry(), zap.NewNop(), HubOptions{})

	err := hub.PublishNotification(context.Background(), uuid.New(), &NotificationEvent{Title: "x"})
	assert.NoError(t, err)
	assert.False(t, hub.Deliver(uuid.New(), []byte("x")))
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	registry := NewConnectionRegistry()
	hub := NewHub(registry, zap.NewNop(), HubOptions{})
	user := uuid.New()
	conn := dial(t, newTestServer(t, hub, user))

	require.Eventually(t, func() bool { return registry.Count() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return registry.Count() == 0 && hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SecondConnectionWins(t *testing.T) {
	registry := NewConnectionRegistry()
	hub := NewHub(registry, zap.NewNop(), HubOptions{})
	user := uuid.New()
	srv := newTestServer(t, hub, user)

	first := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	firstID, _ := registry.Lookup(user)

	dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)
	secondID, _ := registry.Lookup(user)
	assert.NotEqual(t, firstID, secondID)

	// kết nối cũ ngắt không làm mất kết nối mới
	first.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	current, ok := registry.Lookup(user)
	assert.True(t, ok)
	assert.Equal(t, secondID, current)
}

func TestHub_RejectsAnonymous(t *testing.T) {
	hub := NewHub(NewConnectionRegistry(), zap.NewNop(), HubOptions{})
	srv := newTestServer(t, hub, uuid.Nil)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCentrifugo_PublishesToUserChannel(t *testing.T) {
	user := uuid.New()
	var gotKey, gotPath string
	var body struct {
		Channel string            `json:"channel"`
		Data    NotificationEvent `json:"data"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		_, _ = w.Write([]byte(`{"result":{}}`))
	}))
	defer srv.Close()

	client := NewCentrifugoClient(srv.URL+"/", "key", zap.NewNop())
	err := client.PublishNotification(context.Background(), user, &NotificationEvent{Title: "x"})
	require.NoError(t, err)

	assert.Equal(t, "key", gotKey)
	assert.Equal(t, "/api/publish", gotPath)
	assert.Equal(t, UserChannel(user), body.Channel)
	assert.Equal(t, EventNotification, body.Data.Type)
	assert.Equal(t, "x", body.Data.Title)
}

func TestCentrifugo_APIErrorInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":102,"message":"unknown channel"}}`))
	}))
	defer srv.Close()

	client := NewCentrifugoClient(srv.URL, "key", zap.NewNop())
	err := client.PublishNotification(context.Background(), uuid.New(), &NotificationEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown channel")
}

func TestCentrifugo_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewCentrifugoClient(srv.URL, "wrong", zap.NewNop())
	err := client.PublishNotification(context.Background(), uuid.New(), &NotificationEvent{})
	assert.Error(t, err)
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) PublishNotification(ctx context.Context, userID uuid.UUID, event *NotificationEvent) error {
	f.calls++
	return assert.AnError
}

func TestMultiPublisher_CallsAllAndJoinsErrors(t *testing.T) {
	a, b := &failingPublisher{}, &failingPublisher{}
	multi := NewMultiPublisher(a, NewNoopPublisher(), b)

	err := multi.PublishNotification(context.Background(), uuid.New(), &NotificationEvent{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

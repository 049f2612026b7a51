package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtutil "github.com/Dias221467/Habit_Manager/pkg/jwt"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHubDeliversToUser(t *testing.T) {
	hub := NewEventHub(testSecret, "", []string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(hub.EventsWebSocketHandler))
	defer srv.Close()

	token, err := jwtutil.GenerateToken("user-1", "", "", testSecret, time.Hour)
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Connections("user-1") == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish("user-2", Event{Type: EventCycleCompleted, Payload: "other"})
	hub.Publish("user-1", Event{Type: EventAchievementUnlocked, Payload: map[string]string{"id": "habit-former"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventAchievementUnlocked, got.Type)
	assert.Equal(t, "habit-former", got.Payload["id"])

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Connections("user-1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestEventHubRejectsBadToken(t *testing.T) {
	hub := NewEventHub(testSecret, "", nil)

	rec := httptest.NewRecorder()
	hub.EventsWebSocketHandler(rec, httptest.NewRequest(http.MethodGet, "/ws?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	hub.EventsWebSocketHandler(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNilEventHubPublish(t *testing.T) {
	var hub *EventHub
	assert.NotPanics(t, func() { hub.Publish("user-1", Event{Type: EventCycleCompleted}) })
}

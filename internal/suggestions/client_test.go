package suggestions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Walk 7000 steps a day", req.EndGoal)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggestArray(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[{"goal":"Start with 1000 steps","targetDays":3},{"goal":"Increase to 3000 steps","targetDays":5}]`)
	c := NewClient(srv.URL, "secret", time.Second)

	s, err := c.Suggest(context.Background(), "Walk 7000 steps a day")
	require.NoError(t, err)
	require.Len(t, s.Milestones, 2)
	assert.Equal(t, "Start with 1000 steps", s.Milestones[0].Goal)
	assert.Equal(t, 5, s.Milestones[1].TargetDays)
	assert.Empty(t, s.Achievements)
}

func TestSuggestObjectWithAchievements(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{
		"milestones": [{"goal": "Read 5 pages", "targetDays": 7}],
		"achievements": [{"name": "Bookworm", "description": "Read a week", "iconName": "book", "triggerCondition": "complete milestone 1"}]
	}`)
	c := NewClient(srv.URL, "secret", time.Second)

	s, err := c.Suggest(context.Background(), "Walk 7000 steps a day")
	require.NoError(t, err)
	require.Len(t, s.Achievements, 1)
	assert.Equal(t, "Bookworm", s.Achievements[0].Name)
	assert.Equal(t, "book", s.Achievements[0].IconName)
}

func TestSuggestMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `Here are some milestones`},
		{name: "empty array", body: `[]`},
		{name: "goal is not a string", body: `[{"goal": 5, "targetDays": 3}]`},
		{name: "blank goal", body: `[{"goal": "  ", "targetDays": 3}]`},
		{name: "target days is a string", body: `[{"goal": "a", "targetDays": "3"}]`},
		{name: "target days is fractional", body: `[{"goal": "a", "targetDays": 2.5}]`},
		{name: "target days is zero", body: `[{"goal": "a", "targetDays": 0}]`},
		{name: "achievement without name", body: `{"milestones": [{"goal": "a", "targetDays": 1}], "achievements": [{"triggerCondition": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, tt.body)
			c := NewClient(srv.URL, "secret", time.Second)

			_, err := c.Suggest(context.Background(), "Walk 7000 steps a day")
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestSuggestUnavailable(t *testing.T) {
	srv := newServer(t, http.StatusServiceUnavailable, `{"error": "model is loading"}`)
	c := NewClient(srv.URL, "secret", time.Second)

	_, err := c.Suggest(context.Background(), "Walk 7000 steps a day")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewClient("", "", time.Second).Suggest(context.Background(), "goal")
	assert.ErrorIs(t, err, ErrUnavailable)
}

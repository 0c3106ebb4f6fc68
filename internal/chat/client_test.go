package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-assistant-backend/config"
	"fleet-assistant-backend/internal/model"
)

func TestClient_Reply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body struct {
			Message string       `json:"message"`
			History []model.Turn `json:"history"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "halo", body.Message)
		assert.Equal(t, []model.Turn{{Role: model.RoleUser, Content: "hai"}}, body.History)

		json.NewEncoder(w).Encode(map[string]string{"reply": "Halo juga!"})
	}))
	defer server.Close()

	client := NewClient(config.ChatConfig{BaseURL: server.URL + "/", Token: "tok", Timeout: time.Second})
	got, err := client.Reply(context.Background(), "halo", []model.Turn{{Role: model.RoleUser, Content: "hai"}})
	require.NoError(t, err)
	assert.Equal(t, "Halo juga!", got)
}

func TestClient_ReplyErrors(t *testing.T) {
	testCases := []struct {
		name    string
		handler http.HandlerFunc
		target  error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "empty reply",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"reply": "  "}`))
			},
			target: ErrEmptyReply,
		},
		{
			name: "garbage",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client := NewClient(config.ChatConfig{BaseURL: server.URL, Timeout: time.Second})
			_, err := client.Reply(context.Background(), "halo", nil)
			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}

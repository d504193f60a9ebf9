package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zhaxal/ringi-task/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken(t *testing.T) {
	var gotAssertion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAssertion = r.PostFormValue("assertion")

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "ya29.test-token",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	client := NewClient(config.PushConfig{
		TokenURL:          srv.URL,
		ServiceAccountKey: "service-account-key",
	})

	token, ttl, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ya29.test-token", token)
	assert.Equal(t, time.Hour, ttl)
	assert.Equal(t, "service-account-key", gotAssertion)
}

func TestAccessTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(config.PushConfig{TokenURL: srv.URL})

	_, _, err := client.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestAccessTokenEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(config.PushConfig{TokenURL: srv.URL})

	_, _, err := client.AccessToken(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty access token")
}

func TestSend(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Message struct {
			Token        string       `json:"token"`
			Notification Notification `json:"notification"`
		} `json:"message"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(config.PushConfig{SendURL: srv.URL})

	err := client.Send(context.Background(), "access-token", "device-token", Notification{
		Title: "New order",
		Body:  "Order #42 placed, total 20.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer access-token", gotAuth)
	assert.Equal(t, "device-token", gotBody.Message.Token)
	assert.Equal(t, "New order", gotBody.Message.Notification.Title)
}

func TestSendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unregistered device", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(config.PushConfig{SendURL: srv.URL})

	err := client.Send(context.Background(), "access-token", "stale-token", Notification{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

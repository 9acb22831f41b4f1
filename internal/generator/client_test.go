package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func TestGenerateForwardsReply(t *testing.T) {
	var received map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"plan":["Squat 5x5"]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second, quietLogger()).Generate(context.Background(), "leg day")
	require.NoError(t, err)
	require.True(t, resp.OK())
	require.Equal(t, "leg day", received["inputText"])
	require.JSONEq(t, `{"plan":["Squat 5x5"]}`, string(resp.Body))
}

func TestGenerateKeepsFailureStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("prompt too long"))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, time.Second, quietLogger()).Generate(context.Background(), "x")
	require.NoError(t, err)
	require.False(t, resp.OK())
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Equal(t, "prompt too long", string(resp.Body))
}

func TestGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, quietLogger()).Generate(context.Background(), "x")
	require.True(t, errors.Is(err, ErrUnavailable))
}

func TestCheck(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer healthy.Close()
	require.Equal(t, "online", NewClient(healthy.URL, time.Second, quietLogger()).Check(context.Background()).Status)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer failing.Close()
	status := NewClient(failing.URL, time.Second, quietLogger()).Check(context.Background())
	require.Equal(t, "error", status.Status)
	require.Equal(t, http.StatusInternalServerError, status.StatusCode)
	require.Contains(t, status.Details, "model not loaded")

	gone := httptest.NewServer(http.NotFoundHandler())
	url := gone.URL
	gone.Close()
	require.Equal(t, "offline", NewClient(url, time.Second, quietLogger()).Check(context.Background()).Status)
}

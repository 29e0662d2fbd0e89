package gemini

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/v1beta", "test-key", "test-model")
}

func TestClient_UploadFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload/v1beta/files", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "raw", r.Header.Get("X-Goog-Upload-Protocol"))
		assert.Equal(t, "video/mp4", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"file":{"name":"files/abc","uri":"uri://abc","mimeType":"video/mp4","state":"PROCESSING"}}`))
	})

	file, err := client.UploadFile(context.Background(), strings.NewReader("video-bytes"), "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "files/abc", file.Name)
	assert.Equal(t, StateProcessing, file.State)
}

func TestClient_UploadFile_MissingNameRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"file":{}}`))
	})

	_, err := client.UploadFile(context.Background(), strings.NewReader("x"), "video/mp4")
	assert.Error(t, err)
}

func TestClient_GetFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/files/abc", r.URL.Path)
		w.Write([]byte(`{"name":"files/abc","state":"ACTIVE"}`))
	})

	file, err := client.GetFile(context.Background(), "files/abc")
	require.NoError(t, err)
	assert.Equal(t, StateActive, file.State)
}

func TestClient_GenerateText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello "},{"text":"world"}]}}]}`))
	})

	text, err := client.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestClient_GenerateText_Blocked(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})

	_, err := client.GenerateText(context.Background(), "prompt")

	var blocked *BlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "SAFETY", blocked.Reason)
	assert.False(t, IsTransient(err))
}

func TestClient_GenerateText_EmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.GenerateText(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.False(t, IsTransient(err))
}

func TestClient_GenerateText_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"quota"}`))
	})

	_, err := client.GenerateText(context.Background(), "prompt")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 429, apiErr.StatusCode)
	assert.True(t, IsTransient(err))
}

func TestClient_Host(t *testing.T) {
	assert.Equal(t, "example.com", NewClient("https://example.com/v1beta/", "k", "m").Host())
	assert.Equal(t, "generativelanguage.googleapis.com", NewClient("", "k", "m").Host())
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&ConnectivityError{Err: assert.AnError}))
	assert.True(t, IsTransient(&net.DNSError{Err: "no such host"}))
	assert.True(t, IsTransient(&APIError{StatusCode: 503}))
	assert.False(t, IsTransient(&APIError{StatusCode: 400}))
	assert.False(t, IsTransient(&ProcessingFailedError{FileName: "files/abc"}))
	assert.False(t, IsTransient(assert.AnError))
}

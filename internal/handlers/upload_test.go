package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torisetsu-backend/internal/auth"
	"torisetsu-backend/internal/middleware"
)

type memFileStore struct {
	saved map[string][]byte
}

func (m *memFileStore) Save(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[path] = data
	return path, nil
}

func (m *memFileStore) Download(ctx context.Context, path string) ([]byte, error) {
	return m.saved[path], nil
}

func (m *memFileStore) Exists(ctx context.Context, path string) (bool, error) {
	_, ok := m.saved[path]
	return ok, nil
}

func (m *memFileStore) Delete(ctx context.Context, path string) error {
	delete(m.saved, path)
	return nil
}

func uploadRequest(t *testing.T, path, filename string, size int) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), size))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func newUploadRouter(store *memFileStore) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("test-secret", time.Minute)
	token, _ := tokens.Generate(uuid.New(), "user@example.com")

	handler := NewUploadHandler(store, 1024, 256)
	router := gin.New()
	group := router.Group("/", middleware.AuthMiddleware(tokens))
	group.POST("/upload/video", handler.UploadVideo)
	group.POST("/upload/audio", handler.UploadAudio)
	return router, token
}

func TestUploadVideo_StoresFile(t *testing.T) {
	store := &memFileStore{}
	router, token := newUploadRouter(store)

	req := uploadRequest(t, "/upload/video", "recording.mp4", 100)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"original_filename":"recording.mp4"`)
	assert.Len(t, store.saved, 1)
	for path := range store.saved {
		assert.Contains(t, path, "uploads/")
		assert.Contains(t, path, ".mp4")
	}
}

func TestUploadVideo_RejectsUnsupportedExtension(t *testing.T) {
	router, token := newUploadRouter(&memFileStore{})

	req := uploadRequest(t, "/upload/video", "notes.txt", 10)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadVideo_RejectsOversizedFile(t *testing.T) {
	router, token := newUploadRouter(&memFileStore{})

	req := uploadRequest(t, "/upload/video", "big.mp4", 2048)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUploadAudio_AcceptsAudioExtensions(t *testing.T) {
	store := &memFileStore{}
	router, token := newUploadRouter(store)

	req := uploadRequest(t, "/upload/audio", "narration.mp3", 64)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.saved, 1)
}

func TestUpload_RequiresAuth(t *testing.T) {
	router, _ := newUploadRouter(&memFileStore{})

	req := uploadRequest(t, "/upload/video", "recording.mp4", 10)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

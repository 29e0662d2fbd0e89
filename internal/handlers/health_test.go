package handlers

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticAI struct{}

func (staticAI) Host() string  { return "example.invalid" }
func (staticAI) Model() string { return "test-model" }

type staticResolver struct {
	err error
}

func (r staticResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []string{"192.0.2.1"}, nil
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthHandler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestNetworkHealth_Healthy(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health/network", NewNetworkHealthHandler(staticAI{}, staticResolver{}).Check)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/network", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
	assert.Contains(t, w.Body.String(), "test-model")
}

func TestNetworkHealth_DNSFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := staticResolver{err: &net.DNSError{Err: "no such host", Name: "example.invalid"}}
	router := gin.New()
	router.GET("/health/network", NewNetworkHealthHandler(staticAI{}, resolver).Check)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/network", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unhealthy"`)
	assert.Contains(t, w.Body.String(), "connection_error")
}

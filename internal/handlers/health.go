package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"torisetsu-backend/internal/models"
)

// HealthHandler godoc
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

type hostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

type aiInfo interface {
	Host() string
	Model() string
}

type NetworkHealthHandler struct {
	ai       aiInfo
	resolver hostResolver
}

func NewNetworkHealthHandler(ai aiInfo, resolver hostResolver) *NetworkHealthHandler {
	return &NetworkHealthHandler{ai: ai, resolver: resolver}
}

// Check godoc
// @Summary     Network connectivity check for the generation backend
// @Tags        health
// @Produce     json
// @Success     200 {object} models.NetworkHealthResponse
// @Router      /health/network [get]
func (h *NetworkHealthHandler) Check(c *gin.Context) {
	if _, err := h.resolver.LookupHost(c.Request.Context(), h.ai.Host()); err != nil {
		c.JSON(http.StatusOK, models.NetworkHealthResponse{
			Status:    "unhealthy",
			Message:   "Network connectivity issue: " + err.Error(),
			ErrorType: "connection_error",
		})
		return
	}

	c.JSON(http.StatusOK, models.NetworkHealthResponse{
		Status:      "healthy",
		Message:     "Network connectivity to the generation API is working",
		GeminiModel: h.ai.Model(),
	})
}

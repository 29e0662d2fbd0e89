// Package handlers contains the gin HTTP handlers for the API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"torisetsu-backend/internal/middleware"
	"torisetsu-backend/internal/models"
	"torisetsu-backend/internal/services"
)

// currentUserID reads the authenticated user's ID from the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}

	return userID, true
}

// pathUUID parses a UUID path parameter.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError maps domain errors onto HTTP responses.
func writeServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "resource not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "generation already in progress"})
	case errors.Is(err, services.ErrExpired):
		c.JSON(http.StatusGone, models.ErrorResponse{Error: "share link has expired"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: validationErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal error", Message: err.Error()})
	}
}

func toProjectResponse(p *models.Project) models.ProjectResponse {
	return models.ProjectResponse{
		ID:             p.ID.String(),
		CreatorID:      p.CreatorID.String(),
		Name:           p.Name,
		TorisetsuCount: p.TorisetsuCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toTorisetsuResponse(t *models.Torisetsu) models.TorisetsuResponse {
	return models.TorisetsuResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Name:        t.Name,
		ManualCount: t.ManualCount,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toManualResponse(m *models.Manual) models.ManualResponse {
	resp := models.ManualResponse{
		ID:           m.ID.String(),
		TorisetsuID:  m.TorisetsuID.String(),
		Title:        m.Title,
		Status:       m.Status,
		Version:      m.Version,
		ShareEnabled: m.ShareEnabled,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.VideoFilePath.Valid {
		resp.VideoFilePath = m.VideoFilePath.String
	}
	if m.AudioFilePath.Valid {
		resp.AudioFilePath = m.AudioFilePath.String
	}
	if m.ShareExpiresAt.Valid {
		t := m.ShareExpiresAt.Time
		resp.ShareExpiresAt = &t
	}
	if m.Content.Valid && m.Content.String != "" {
		if content, err := models.UnmarshalContent(m.Content.String); err == nil {
			resp.Content = content
		}
	}
	return resp
}

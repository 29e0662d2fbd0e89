package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/models"
	"torisetsu-backend/internal/services"
)

type TorisetsuHandler struct {
	db     *database.Client
	access *services.AccessService
}

func NewTorisetsuHandler(db *database.Client, access *services.AccessService) *TorisetsuHandler {
	return &TorisetsuHandler{db: db, access: access}
}

func (h *TorisetsuHandler) CreateTorisetsu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.TorisetsuCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid project_id"})
		return
	}

	if _, err := h.access.CanAccessProject(c.Request.Context(), userID, projectID); err != nil {
		writeServiceError(c, err)
		return
	}

	torisetsu, err := h.db.CreateTorisetsu(c.Request.Context(), projectID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create torisetsu", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toTorisetsuResponse(torisetsu))
}

// ListTorisetsu returns the project's torisetsu with their manual counts.
func (h *TorisetsuHandler) ListTorisetsu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	if _, err := h.access.CanAccessProject(c.Request.Context(), userID, projectID); err != nil {
		writeServiceError(c, err)
		return
	}

	list, err := h.db.ListTorisetsuByProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list torisetsu", Message: err.Error()})
		return
	}

	resp := make([]models.TorisetsuResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toTorisetsuResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TorisetsuHandler) GetTorisetsu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	torisetsuID, ok := pathUUID(c, "torisetsu_id")
	if !ok {
		return
	}

	torisetsu, err := h.access.CanAccessTorisetsu(c.Request.Context(), userID, torisetsuID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTorisetsuResponse(torisetsu))
}

func (h *TorisetsuHandler) UpdateTorisetsu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	torisetsuID, ok := pathUUID(c, "torisetsu_id")
	if !ok {
		return
	}

	var req models.TorisetsuUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if _, err := h.access.CanAccessTorisetsu(c.Request.Context(), userID, torisetsuID); err != nil {
		writeServiceError(c, err)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name must not be empty"})
			return
		}
		if err := h.db.UpdateTorisetsuName(c.Request.Context(), torisetsuID, *req.Name); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update torisetsu", Message: err.Error()})
			return
		}
	}

	torisetsu, err := h.db.GetTorisetsu(c.Request.Context(), torisetsuID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load torisetsu", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toTorisetsuResponse(torisetsu))
}

// DeleteTorisetsu removes the torisetsu and all manuals under it.
func (h *TorisetsuHandler) DeleteTorisetsu(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	torisetsuID, ok := pathUUID(c, "torisetsu_id")
	if !ok {
		return
	}

	if _, err := h.access.CanAccessTorisetsu(c.Request.Context(), userID, torisetsuID); err != nil {
		writeServiceError(c, err)
		return
	}

	if err := h.db.DeleteTorisetsuCascade(c.Request.Context(), torisetsuID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete torisetsu", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "torisetsu deleted successfully"})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/models"
	"torisetsu-backend/internal/services"
)

type ProjectsHandler struct {
	db     *database.Client
	access *services.AccessService
}

func NewProjectsHandler(db *database.Client, access *services.AccessService) *ProjectsHandler {
	return &ProjectsHandler{db: db, access: access}
}

func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ProjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	project, err := h.db.CreateProject(c.Request.Context(), userID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create project", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toProjectResponse(project))
}

func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	projects, err := h.db.ListProjectsByCreator(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list projects", Message: err.Error()})
		return
	}

	resp := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, toProjectResponse(&projects[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProjectsHandler) GetProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.access.CanAccessProject(c.Request.Context(), userID, projectID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}

	var req models.ProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if _, err := h.access.CanAccessProject(c.Request.Context(), userID, projectID); err != nil {
		writeServiceError(c, err)
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "name must not be empty"})
			return
		}
		if err := h.db.UpdateProjectName(c.Request.Context(), projectID, *req.Name); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update project", Message: err.Error()})
			return
		}
	}

	project, err := h.db.GetProject(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load project", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toProjectResponse(project))
}

// DeleteProject removes the project and everything under it.
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
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

	if err := h.db.DeleteProjectCascade(c.Request.Context(), projectID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete project", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "project deleted successfully"})
}

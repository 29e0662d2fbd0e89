package handlers

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/models"
	"torisetsu-backend/internal/services"
)

type ManualsHandler struct {
	db         *database.Client
	access     *services.AccessService
	generation *services.GenerationService
	enhance    *services.EnhanceService
	share      *services.ShareService
	baseURL    string
}

func NewManualsHandler(db *database.Client, access *services.AccessService, generation *services.GenerationService, enhance *services.EnhanceService, share *services.ShareService, baseURL string) *ManualsHandler {
	return &ManualsHandler{
		db:         db,
		access:     access,
		generation: generation,
		enhance:    enhance,
		share:      share,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

func (h *ManualsHandler) CreateManual(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ManualCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	torisetsuID, err := uuid.Parse(req.TorisetsuID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid torisetsu_id"})
		return
	}

	if _, err := h.access.CanAccessTorisetsu(c.Request.Context(), userID, torisetsuID); err != nil {
		writeServiceError(c, err)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidStatus(status) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status: " + status})
		return
	}

	version := req.Version
	if version == "" {
		version = "1.0"
	}

	manual := &models.Manual{
		TorisetsuID:   torisetsuID,
		Title:         req.Title,
		Status:        status,
		Version:       version,
		VideoFilePath: sql.NullString{String: req.VideoFilePath, Valid: req.VideoFilePath != ""},
		AudioFilePath: sql.NullString{String: req.AudioFilePath, Valid: req.AudioFilePath != ""},
	}
	if req.Content != nil {
		contentJSON, err := req.Content.Marshal()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid content", Message: err.Error()})
			return
		}
		manual.Content = sql.NullString{String: contentJSON, Valid: true}
	}

	if err := h.db.CreateManual(c.Request.Context(), manual); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create manual", Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, toManualResponse(manual))
}

func (h *ManualsHandler) ListManuals(c *gin.Context) {
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

	manuals, err := h.db.ListManualsByTorisetsu(c.Request.Context(), torisetsuID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list manuals", Message: err.Error()})
		return
	}

	resp := make([]models.ManualResponse, 0, len(manuals))
	for i := range manuals {
		resp = append(resp, toManualResponse(&manuals[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ManualsHandler) GetManual(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	manual, err := h.access.CanAccessManual(c.Request.Context(), userID, manualID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toManualResponse(manual))
}

func (h *ManualsHandler) UpdateManual(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	var req models.ManualUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	manual, err := h.access.CanAccessManual(c.Request.Context(), userID, manualID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "title must not be empty"})
			return
		}
		manual.Title = *req.Title
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid status: " + *req.Status})
			return
		}
		manual.Status = *req.Status
	}
	if req.Version != nil {
		manual.Version = *req.Version
	}
	if req.AudioFilePath != nil {
		manual.AudioFilePath = sql.NullString{String: *req.AudioFilePath, Valid: *req.AudioFilePath != ""}
	}
	if req.Content != nil {
		contentJSON, err := req.Content.Marshal()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid content", Message: err.Error()})
			return
		}
		manual.Content = sql.NullString{String: contentJSON, Valid: true}
	}

	if err := h.db.UpdateManual(c.Request.Context(), manual); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update manual", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, toManualResponse(manual))
}

func (h *ManualsHandler) DeleteManual(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	if _, err := h.access.CanAccessManual(c.Request.Context(), userID, manualID); err != nil {
		writeServiceError(c, err)
		return
	}

	if err := h.db.DeleteManual(c.Request.Context(), manualID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to delete manual", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "manual deleted successfully"})
}

// GenerateManual starts the asynchronous video-to-manual pipeline. The
// response confirms the claim; progress is reported via the status endpoint.
func (h *ManualsHandler) GenerateManual(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	language := c.DefaultQuery("language", "ja")

	if err := h.generation.Start(c.Request.Context(), userID, manualID, language); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.GenerateResponse{
		Message:  "Manual generation started",
		ManualID: manualID.String(),
		Status:   models.StatusProcessing,
	})
}

// GetManualStatus is the polling endpoint for generation progress.
func (h *ManualsHandler) GetManualStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	manual, err := h.access.CanAccessManual(c.Request.Context(), userID, manualID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := models.ManualStatusResponse{
		ManualID:   manual.ID.String(),
		Status:     manual.Status,
		Title:      manual.Title,
		HasContent: manual.Content.Valid && manual.Content.String != "",
	}
	if manual.VideoFilePath.Valid {
		resp.VideoFilePath = manual.VideoFilePath.String
	}
	c.JSON(http.StatusOK, resp)
}

// EnhanceManual reworks the manual's content through the model.
func (h *ManualsHandler) EnhanceManual(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	req := models.EnhanceRequest{EnhancementType: services.EnhanceImprove}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}
	if req.EnhancementType == "" {
		req.EnhancementType = services.EnhanceImprove
	}

	enhancement, err := h.enhance.Enhance(c.Request.Context(), userID, manualID, req.EnhancementType)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.EnhanceResponse{
		Message:         "Manual enhancement completed",
		ManualID:        manualID.String(),
		EnhancementType: enhancement.Type,
		EnhancedContent: enhancement.Content,
	})
}

// CreateShareLink issues a fresh share token, replacing any existing one.
// Omitting expires_in_days defaults to 7 days; an explicit null never expires.
func (h *ManualsHandler) CreateShareLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	defaultDays := 7
	req := models.ShareTokenRequest{ExpiresInDays: &defaultDays}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	token, expiresAt, err := h.share.Issue(c.Request.Context(), userID, manualID, req.ExpiresInDays)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ShareTokenResponse{
		ShareToken: token,
		ShareURL:   h.baseURL + "/share/" + token,
		ExpiresAt:  expiresAt,
	})
}

// DisableShareLink revokes the manual's share token.
func (h *ManualsHandler) DisableShareLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	manualID, ok := pathUUID(c, "manual_id")
	if !ok {
		return
	}

	if err := h.share.Revoke(c.Request.Context(), userID, manualID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "sharing disabled successfully"})
}

// GetSharedManual serves a manual to an anonymous share-token holder.
func (h *ManualsHandler) GetSharedManual(c *gin.Context) {
	manual, err := h.share.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := models.SharedManualResponse{
		ID:        manual.ID.String(),
		Title:     manual.Title,
		Status:    manual.Status,
		Version:   manual.Version,
		UpdatedAt: manual.UpdatedAt,
	}
	if manual.VideoFilePath.Valid {
		resp.VideoFilePath = manual.VideoFilePath.String
	}
	if manual.AudioFilePath.Valid {
		resp.AudioFilePath = manual.AudioFilePath.String
	}
	if manual.Content.Valid && manual.Content.String != "" {
		if content, err := models.UnmarshalContent(manual.Content.String); err == nil {
			resp.Content = content
		}
	}
	c.JSON(http.StatusOK, resp)
}

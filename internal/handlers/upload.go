package handlers

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"torisetsu-backend/internal/models"
	"torisetsu-backend/internal/storage"
)

var videoExtensions = map[string]string{
	".webm": "video/webm",
	".mp4":  "video/mp4",
	".avi":  "video/avi",
	".mov":  "video/quicktime",
}

var audioExtensions = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
	".aac":  "audio/aac",
}

type UploadHandler struct {
	files         storage.FileStore
	maxVideoBytes int64
	maxAudioBytes int64
}

func NewUploadHandler(files storage.FileStore, maxVideoBytes, maxAudioBytes int64) *UploadHandler {
	return &UploadHandler{
		files:         files,
		maxVideoBytes: maxVideoBytes,
		maxAudioBytes: maxAudioBytes,
	}
}

// UploadVideo godoc
// @Summary     Upload a source video
// @Description Stores a video file for later manual generation.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file formData file true "Video file (.webm, .mp4, .avi, .mov)"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /upload/video [post]
func (h *UploadHandler) UploadVideo(c *gin.Context) {
	h.upload(c, videoExtensions, h.maxVideoBytes, "video")
}

// UploadAudio godoc
// @Summary     Upload an audio narration file
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file formData file true "Audio file (.mp3, .wav, .m4a, .ogg, .webm, .aac)"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /upload/audio [post]
func (h *UploadHandler) UploadAudio(c *gin.Context) {
	h.upload(c, audioExtensions, h.maxAudioBytes, "audio")
}

func (h *UploadHandler) upload(c *gin.Context, allowed map[string]string, maxBytes int64, kind string) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "file is required", Message: err.Error()})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowed[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unsupported " + kind + " format: " + ext})
		return
	}

	if fileHeader.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: kind + " file too large"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to open upload", Message: err.Error()})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBytes+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to read upload", Message: err.Error()})
		return
	}
	if int64(len(data)) > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: kind + " file too large"})
		return
	}

	filename := uuid.New().String() + ext
	storagePath := "uploads/" + filename

	storedPath, err := h.files.Save(c.Request.Context(), storagePath, data, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store " + kind, Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		Filename:         filename,
		FilePath:         storedPath,
		OriginalFilename: fileHeader.Filename,
		FileSize:         int64(len(data)),
	})
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"torisetsu-backend/internal/gemini"
	"torisetsu-backend/internal/models"
	"torisetsu-backend/internal/parser"
	"torisetsu-backend/internal/retry"
	"torisetsu-backend/internal/storage"
)

// GenerationStore persists manual state transitions during a generation run.
type GenerationStore interface {
	TryStartProcessing(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteGeneration(ctx context.Context, id uuid.UUID, contentJSON string) error
	FailGeneration(ctx context.Context, id uuid.UUID, diagnosticJSON string) error
}

// AIClient is the generation backend: upload a video asset, wait for it,
// run the model over it.
type AIClient interface {
	Host() string
	Model() string
	UploadFile(ctx context.Context, data io.Reader, mimeType string) (*gemini.File, error)
	GetFile(ctx context.Context, name string) (*gemini.File, error)
	DeleteFile(ctx context.Context, name string) error
	GenerateFromFile(ctx context.Context, file *gemini.File, prompt string) (string, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// EventPublisher notifies clients about generation lifecycle transitions.
// Publish failures never fail the generation itself.
type EventPublisher interface {
	GenerationStarted(manualID uuid.UUID) error
	GenerationCompleted(manualID uuid.UUID) error
	GenerationFailed(manualID uuid.UUID, errorType string) error
}

// hostResolver is satisfied by *net.Resolver.
type hostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// pollTimeoutError means the uploaded asset never left the PROCESSING state.
// Terminal: the asset will not recover, a new upload is required.
type pollTimeoutError struct {
	elapsed time.Duration
}

func (e *pollTimeoutError) Error() string {
	return fmt.Sprintf("video processing timeout after %s", e.elapsed)
}

// GenerationService runs the asynchronous video-to-manual pipeline. Start
// performs the synchronous guards and claims the manual; the pipeline itself
// runs in a background goroutine and reports its outcome through the store
// and the event publisher.
type GenerationService struct {
	store    GenerationStore
	access   *AccessService
	files    storage.FileStore
	ai       AIClient
	events   EventPublisher
	resolver hostResolver
	logger   *slog.Logger

	uploadRetry   retry.Policy
	generateRetry retry.Policy
	outerRetry    retry.Policy
	pollInterval  time.Duration
	pollTimeout   time.Duration
	jobTimeout    time.Duration
}

func NewGenerationService(store GenerationStore, access *AccessService, files storage.FileStore, ai AIClient, events EventPublisher) *GenerationService {
	return &GenerationService{
		store:    store,
		access:   access,
		files:    files,
		ai:       ai,
		events:   events,
		resolver: net.DefaultResolver,
		logger:   slog.Default(),

		uploadRetry: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			Multiplier:  2,
			MaxDelay:    8 * time.Second,
			Retryable:   gemini.IsTransient,
		},
		generateRetry: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   4 * time.Second,
			Multiplier:  2,
			MaxDelay:    10 * time.Second,
			Retryable:   gemini.IsTransient,
		},
		outerRetry: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   4 * time.Second,
			Multiplier:  2,
			MaxDelay:    10 * time.Second,
			Retryable:   gemini.IsTransient,
		},
		pollInterval: 5 * time.Second,
		pollTimeout:  5 * time.Minute,
		jobTimeout:   15 * time.Minute,
	}
}

// Start validates the request, claims the manual for processing, and launches
// the pipeline in the background. It returns as soon as the claim succeeds.
func (s *GenerationService) Start(ctx context.Context, userID, manualID uuid.UUID, language string) error {
	manual, err := s.access.CanAccessManual(ctx, userID, manualID)
	if err != nil {
		return err
	}

	if !manual.VideoFilePath.Valid || manual.VideoFilePath.String == "" {
		return validationErrorf("manual has no video file to generate from")
	}

	exists, err := s.files.Exists(ctx, manual.VideoFilePath.String)
	if err != nil {
		return fmt.Errorf("failed to check video file: %w", err)
	}
	if !exists {
		return validationErrorf("video file not found in storage: %s", manual.VideoFilePath.String)
	}

	claimed, err := s.store.TryStartProcessing(ctx, manualID)
	if err != nil {
		return fmt.Errorf("failed to claim manual for processing: %w", err)
	}
	if !claimed {
		return ErrConflict
	}

	if err := s.events.GenerationStarted(manualID); err != nil {
		s.logger.Warn("failed to publish generation started event", "manual_id", manualID, "error", err)
	}

	if language == "" {
		language = "ja"
	}

	go s.run(manualID, manual.VideoFilePath.String, manual.Title, language)

	return nil
}

// run executes the whole pipeline for one manual. It always resolves the
// manual out of the processing state, to completed or failed.
func (s *GenerationService) run(manualID uuid.UUID, videoPath, title, language string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	start := time.Now()
	logger := s.logger.With("manual_id", manualID, "video_path", videoPath)
	logger.Info("manual generation started", "language", language)

	var content *models.ManualContent
	err := s.outerRetry.Do(ctx, func() error {
		var genErr error
		content, genErr = s.generateOnce(ctx, videoPath, title, language)
		return genErr
	})
	if err != nil {
		s.fail(manualID, err, logger, time.Since(start))
		return
	}

	contentJSON, err := content.Marshal()
	if err != nil {
		s.fail(manualID, err, logger, time.Since(start))
		return
	}

	if err := s.store.CompleteGeneration(ctx, manualID, contentJSON); err != nil {
		logger.Error("failed to store generated content", "error", err)
		s.fail(manualID, err, logger, time.Since(start))
		return
	}

	if err := s.events.GenerationCompleted(manualID); err != nil {
		logger.Warn("failed to publish generation completed event", "error", err)
	}

	logger.Info("manual generation completed", "steps", len(content.Steps), "duration", time.Since(start))
}

// generateOnce is a single end-to-end attempt: preflight, download, upload,
// poll, generate, parse.
func (s *GenerationService) generateOnce(ctx context.Context, videoPath, title, language string) (*models.ManualContent, error) {
	if err := s.checkConnectivity(ctx); err != nil {
		return nil, err
	}

	data, err := s.files.Download(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read video from storage: %w", err)
	}

	file, err := s.uploadAndWait(ctx, data, videoMimeType(videoPath))
	if err != nil {
		return nil, err
	}

	defer func() {
		if delErr := s.ai.DeleteFile(context.WithoutCancel(ctx), file.Name); delErr != nil {
			s.logger.Warn("failed to clean up uploaded video", "file", file.Name, "error", delErr)
		}
	}()

	prompt := manualPrompt(title, language)

	var text string
	err = s.generateRetry.Do(ctx, func() error {
		var genErr error
		text, genErr = s.ai.GenerateFromFile(ctx, file, prompt)
		return genErr
	})
	if err != nil {
		return nil, err
	}

	return parser.Parse(text, title), nil
}

// checkConnectivity resolves the API host before any upload is attempted, so
// DNS problems fail fast with a clear diagnostic.
func (s *GenerationService) checkConnectivity(ctx context.Context) error {
	if _, err := s.resolver.LookupHost(ctx, s.ai.Host()); err != nil {
		return &gemini.ConnectivityError{Err: fmt.Errorf("DNS resolution failed for %s: %w", s.ai.Host(), err)}
	}
	return nil
}

// uploadAndWait uploads the video and polls until the remote asset becomes
// ACTIVE. The whole upload-and-poll sequence is retried as a unit; a poll
// timeout is terminal.
func (s *GenerationService) uploadAndWait(ctx context.Context, data []byte, mimeType string) (*gemini.File, error) {
	var file *gemini.File
	err := s.uploadRetry.Do(ctx, func() error {
		uploaded, upErr := s.ai.UploadFile(ctx, bytes.NewReader(data), mimeType)
		if upErr != nil {
			return upErr
		}

		file = uploaded
		waited := time.Duration(0)
		for file.State == gemini.StateProcessing && waited < s.pollTimeout {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.pollInterval):
			}
			waited += s.pollInterval

			file, upErr = s.ai.GetFile(ctx, uploaded.Name)
			if upErr != nil {
				return upErr
			}
			s.logger.Debug("video processing status", "file", file.Name, "state", file.State, "waited", waited)
		}

		if file.State == gemini.StateFailed {
			return &gemini.ProcessingFailedError{FileName: file.Name}
		}
		if file.State == gemini.StateProcessing {
			return &pollTimeoutError{elapsed: waited}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (s *GenerationService) fail(manualID uuid.UUID, err error, logger *slog.Logger, elapsed time.Duration) {
	diagnostic := classify(err)
	logger.Error("manual generation failed",
		"error", err,
		"error_type", diagnostic.ErrorType,
		"is_network_error", diagnostic.IsNetworkError,
		"duration", elapsed,
	)

	diagnosticJSON, marshalErr := json.Marshal(diagnostic)
	if marshalErr != nil {
		diagnosticJSON = []byte(`{"error_type":"internal_error","error_message":"diagnostic marshal failed","is_network_error":false}`)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if storeErr := s.store.FailGeneration(ctx, manualID, string(diagnosticJSON)); storeErr != nil {
		logger.Error("failed to record generation failure", "error", storeErr)
	}

	if pubErr := s.events.GenerationFailed(manualID, diagnostic.ErrorType); pubErr != nil {
		logger.Warn("failed to publish generation failed event", "error", pubErr)
	}
}

// classify maps a pipeline error to the diagnostic stored on the manual.
func classify(err error) models.GenerationDiagnostic {
	diagnostic := models.GenerationDiagnostic{
		ErrorType:    "internal_error",
		ErrorMessage: err.Error(),
	}

	var connErr *gemini.ConnectivityError
	var dnsErr *net.DNSError
	var blockedErr *gemini.BlockedError
	var assetErr *gemini.ProcessingFailedError
	var timeoutErr *pollTimeoutError
	var apiErr *gemini.APIError

	switch {
	case errors.As(err, &connErr), errors.As(err, &dnsErr):
		diagnostic.ErrorType = "connection_error"
		diagnostic.IsNetworkError = true
	case errors.As(err, &timeoutErr):
		diagnostic.ErrorType = "timeout"
	case errors.As(err, &blockedErr):
		diagnostic.ErrorType = "content_blocked"
	case errors.As(err, &assetErr):
		diagnostic.ErrorType = "asset_failed"
	case errors.Is(err, gemini.ErrEmptyResponse):
		diagnostic.ErrorType = "empty_response"
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case 429:
			diagnostic.ErrorType = "rate_limited"
			diagnostic.IsNetworkError = true
		case 503:
			diagnostic.ErrorType = "service_unavailable"
			diagnostic.IsNetworkError = true
		default:
			diagnostic.ErrorType = "api_error"
		}
	}

	return diagnostic
}

// videoMimeType maps a video file extension to its MIME type. Unknown
// extensions default to mp4.
func videoMimeType(videoPath string) string {
	switch strings.ToLower(path.Ext(videoPath)) {
	case ".avi":
		return "video/avi"
	case ".mov":
		return "video/quicktime"
	case ".wmv":
		return "video/x-ms-wmv"
	case ".webm":
		return "video/webm"
	default:
		return "video/mp4"
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"torisetsu-backend/internal/gemini"
	"torisetsu-backend/internal/models"
	"torisetsu-backend/internal/retry"
)

// ContentStore updates a manual's stored content document.
type ContentStore interface {
	UpdateManualContent(ctx context.Context, id uuid.UUID, contentJSON string) error
}

// EnhanceService reworks existing manual content through the model:
// improving, translating, or summarizing it. Each run is recorded as an
// append-only enhancement entry on the content document.
type EnhanceService struct {
	store  ContentStore
	access *AccessService
	ai     AIClient
	policy retry.Policy
	now    func() time.Time
}

func NewEnhanceService(store ContentStore, access *AccessService, ai AIClient) *EnhanceService {
	return &EnhanceService{
		store:  store,
		access: access,
		ai:     ai,
		policy: retry.Policy{
			MaxAttempts: 3,
			BaseDelay:   4 * time.Second,
			Multiplier:  2,
			MaxDelay:    10 * time.Second,
			Retryable:   gemini.IsTransient,
		},
		now: time.Now,
	}
}

// Enhance runs the requested enhancement over the manual's raw content and
// appends the result to its enhancement history.
func (s *EnhanceService) Enhance(ctx context.Context, userID, manualID uuid.UUID, enhancementType string) (*models.Enhancement, error) {
	manual, err := s.access.CanAccessManual(ctx, userID, manualID)
	if err != nil {
		return nil, err
	}

	if !manual.Content.Valid || manual.Content.String == "" {
		return nil, validationErrorf("manual has no content to enhance")
	}

	content, err := models.UnmarshalContent(manual.Content.String)
	if err != nil {
		return nil, fmt.Errorf("failed to decode manual content: %w", err)
	}

	source := content.RawContent
	if source == "" {
		source = manual.Content.String
	}

	prompt, err := enhancePrompt(source, enhancementType)
	if err != nil {
		return nil, err
	}

	var text string
	err = s.policy.Do(ctx, func() error {
		var genErr error
		text, genErr = s.ai.GenerateText(ctx, prompt)
		return genErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enhance manual content: %w", err)
	}

	enhancement := models.Enhancement{
		Type:      enhancementType,
		Content:   text,
		CreatedAt: s.now().UTC(),
	}
	content.Enhancements = append(content.Enhancements, enhancement)

	contentJSON, err := content.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode manual content: %w", err)
	}

	if err := s.store.UpdateManualContent(ctx, manualID, contentJSON); err != nil {
		return nil, fmt.Errorf("failed to store enhanced content: %w", err)
	}

	return &enhancement, nil
}

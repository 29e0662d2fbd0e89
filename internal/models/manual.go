package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Manual status values. The generation pipeline only ever moves a manual
// processing -> completed or processing -> failed; review and published are
// set by downstream editorial flows.
const (
	StatusDraft      = "draft"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusReview     = "review"
	StatusPublished  = "published"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusProcessing, StatusCompleted, StatusFailed, StatusReview, StatusPublished:
		return true
	}
	return false
}

type Manual struct {
	ID             uuid.UUID
	TorisetsuID    uuid.UUID
	Title          string
	Content        sql.NullString // JSON-serialized ManualContent
	Status         string
	Version        string
	VideoFilePath  sql.NullString
	AudioFilePath  sql.NullString
	ShareToken     sql.NullString
	ShareEnabled   bool
	ShareExpiresAt sql.NullTime
	// GenerationError holds the JSON diagnostic of the last failed generation.
	GenerationError sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GenerationDiagnostic is the machine-readable record persisted when a
// generation attempt ends in failure.
type GenerationDiagnostic struct {
	ErrorType      string `json:"error_type"`
	ErrorMessage   string `json:"error_message"`
	IsNetworkError bool   `json:"is_network_error"`
}

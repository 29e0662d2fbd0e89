package models

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        uuid.UUID
	CreatorID uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// TorisetsuCount is populated by list queries, not stored.
	TorisetsuCount int
}

type Torisetsu struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time

	// ManualCount is populated by list queries, not stored.
	ManualCount int
}

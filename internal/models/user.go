package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID
	Email          string
	Username       string
	HashedPassword sql.NullString
	ProviderUID    sql.NullString
	PhotoURL       sql.NullString
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

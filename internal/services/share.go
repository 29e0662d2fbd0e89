package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/models"
)

// ShareStore persists share tokens on manuals.
type ShareStore interface {
	SetShareToken(ctx context.Context, id uuid.UUID, token string, expiresAt *time.Time) error
	ClearShareToken(ctx context.Context, id uuid.UUID) error
	GetManualByShareToken(ctx context.Context, token string) (*models.Manual, error)
}

// ShareService issues and resolves public share links for manuals.
type ShareService struct {
	store  ShareStore
	access *AccessService
	now    func() time.Time
}

func NewShareService(store ShareStore, access *AccessService) *ShareService {
	return &ShareService{
		store:  store,
		access: access,
		now:    time.Now,
	}
}

// Issue creates a fresh share token for the manual, replacing any previous
// one. A nil expiresInDays means the link never expires.
func (s *ShareService) Issue(ctx context.Context, userID, manualID uuid.UUID, expiresInDays *int) (string, *time.Time, error) {
	if _, err := s.access.CanAccessManual(ctx, userID, manualID); err != nil {
		return "", nil, err
	}

	if expiresInDays != nil && *expiresInDays < 0 {
		return "", nil, validationErrorf("expires_in_days must not be negative")
	}

	token, err := newShareToken()
	if err != nil {
		return "", nil, err
	}

	var expiresAt *time.Time
	if expiresInDays != nil {
		t := s.now().Add(time.Duration(*expiresInDays) * 24 * time.Hour)
		expiresAt = &t
	}

	if err := s.store.SetShareToken(ctx, manualID, token, expiresAt); err != nil {
		return "", nil, fmt.Errorf("failed to store share token: %w", err)
	}

	return token, expiresAt, nil
}

// Revoke disables the manual's share link. Revoking a manual with no active
// link is a no-op.
func (s *ShareService) Revoke(ctx context.Context, userID, manualID uuid.UUID) error {
	if _, err := s.access.CanAccessManual(ctx, userID, manualID); err != nil {
		return err
	}

	if err := s.store.ClearShareToken(ctx, manualID); err != nil {
		return fmt.Errorf("failed to clear share token: %w", err)
	}

	return nil
}

// Resolve looks up a manual by its public share token. A token that was
// revoked or never issued resolves to ErrNotFound; a known token past its
// expiry resolves to ErrExpired.
func (s *ShareService) Resolve(ctx context.Context, token string) (*models.Manual, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	manual, err := s.store.GetManualByShareToken(ctx, token)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}

	if manual.ShareExpiresAt.Valid && !s.now().Before(manual.ShareExpiresAt.Time) {
		return nil, ErrExpired
	}

	return manual, nil
}

// newShareToken returns 32 bytes of randomness as a URL-safe string.
func newShareToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

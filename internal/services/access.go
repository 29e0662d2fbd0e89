package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/models"
)

// AccessStore resolves the ownership chain from a resource up to its creator.
type AccessStore interface {
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetTorisetsu(ctx context.Context, id uuid.UUID) (*models.Torisetsu, error)
	GetManual(ctx context.Context, id uuid.UUID) (*models.Manual, error)
}

// AccessService answers ownership questions. Every resource is owned through
// the chain manual -> torisetsu -> project -> creator; there are no shared or
// collaborative resources.
type AccessService struct {
	store AccessStore
}

func NewAccessService(store AccessStore) *AccessService {
	return &AccessService{store: store}
}

// CanAccessProject returns nil when the user created the project, ErrNotFound
// when the project does not exist, and ErrForbidden otherwise.
func (s *AccessService) CanAccessProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	if project.CreatorID != userID {
		return nil, ErrForbidden
	}

	return project, nil
}

// CanAccessTorisetsu walks torisetsu -> project -> creator. A torisetsu whose
// parent project is missing is reported as not found, not as an ownership
// failure.
func (s *AccessService) CanAccessTorisetsu(ctx context.Context, userID, torisetsuID uuid.UUID) (*models.Torisetsu, error) {
	torisetsu, err := s.store.GetTorisetsu(ctx, torisetsuID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load torisetsu: %w", err)
	}

	if _, err := s.CanAccessProject(ctx, userID, torisetsu.ProjectID); err != nil {
		return nil, err
	}

	return torisetsu, nil
}

// CanAccessManual walks the full chain manual -> torisetsu -> project.
func (s *AccessService) CanAccessManual(ctx context.Context, userID, manualID uuid.UUID) (*models.Manual, error) {
	manual, err := s.store.GetManual(ctx, manualID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load manual: %w", err)
	}

	if _, err := s.CanAccessTorisetsu(ctx, userID, manual.TorisetsuID); err != nil {
		return nil, err
	}

	return manual, nil
}

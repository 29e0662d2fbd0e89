package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torisetsu-backend/internal/models"
)

func TestAccess_OwnerCanAccessFullChain(t *testing.T) {
	store := newFakeStore()
	userID, manualID := store.seedChain(models.StatusDraft, "")
	access := NewAccessService(store)

	manual, err := access.CanAccessManual(context.Background(), userID, manualID)
	require.NoError(t, err)
	assert.Equal(t, manualID, manual.ID)
}

func TestAccess_NonOwnerForbidden(t *testing.T) {
	store := newFakeStore()
	_, manualID := store.seedChain(models.StatusDraft, "")
	access := NewAccessService(store)

	_, err := access.CanAccessManual(context.Background(), uuid.New(), manualID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAccess_MissingManualNotFound(t *testing.T) {
	store := newFakeStore()
	userID, _ := store.seedChain(models.StatusDraft, "")
	access := NewAccessService(store)

	_, err := access.CanAccessManual(context.Background(), userID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccess_BrokenChainReportsNotFound(t *testing.T) {
	store := newFakeStore()
	userID := uuid.New()
	torisetsuID := uuid.New()
	// Torisetsu whose parent project does not exist.
	store.torisetsu[torisetsuID] = &models.Torisetsu{ID: torisetsuID, ProjectID: uuid.New(), Name: "orphan"}
	access := NewAccessService(store)

	_, err := access.CanAccessTorisetsu(context.Background(), userID, torisetsuID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccess_SurvivesRename(t *testing.T) {
	store := newFakeStore()
	userID, manualID := store.seedChain(models.StatusDraft, "")
	access := NewAccessService(store)

	_, err := access.CanAccessManual(context.Background(), userID, manualID)
	require.NoError(t, err)

	// Ownership is chain-based, not keyed on names.
	for _, torisetsu := range store.torisetsu {
		torisetsu.Name = "renamed"
	}
	for _, project := range store.projects {
		project.Name = "renamed"
	}

	_, err = access.CanAccessManual(context.Background(), userID, manualID)
	assert.NoError(t, err)
}

func TestAccess_DeletedChainNoLongerAccessible(t *testing.T) {
	store := newFakeStore()
	userID, manualID := store.seedChain(models.StatusDraft, "")
	access := NewAccessService(store)

	_, err := access.CanAccessManual(context.Background(), userID, manualID)
	require.NoError(t, err)

	clear(store.projects)
	clear(store.torisetsu)
	clear(store.manuals)

	_, err = access.CanAccessManual(context.Background(), userID, manualID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccess_ProjectOwnership(t *testing.T) {
	store := newFakeStore()
	userID, _ := store.seedChain(models.StatusDraft, "")
	var projectID uuid.UUID
	for id := range store.projects {
		projectID = id
	}
	access := NewAccessService(store)

	project, err := access.CanAccessProject(context.Background(), userID, projectID)
	require.NoError(t, err)
	assert.Equal(t, userID, project.CreatorID)

	_, err = access.CanAccessProject(context.Background(), uuid.New(), projectID)
	assert.ErrorIs(t, err, ErrForbidden)
}

package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torisetsu-backend/internal/models"
)

func seedContent(t *testing.T, store *fakeStore) (userID, manualID uuid.UUID) {
	t.Helper()
	uid, mid := store.seedChain(models.StatusCompleted, "")
	content := &models.ManualContent{
		Title:      "m",
		RawContent: "## 操作手順\n### ステップ1: ログイン",
	}
	contentJSON, err := content.Marshal()
	require.NoError(t, err)
	store.manuals[mid].Content = sql.NullString{String: contentJSON, Valid: true}
	return uid, mid
}

func TestEnhance_AppendsEnhancementEntry(t *testing.T) {
	store := newFakeStore()
	userID, manualID := seedContent(t, store)
	ai := &fakeAI{response: "improved manual text"}
	svc := NewEnhanceService(store, NewAccessService(store), ai)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	enhancement, err := svc.Enhance(context.Background(), userID, manualID, EnhanceImprove)
	require.NoError(t, err)
	assert.Equal(t, EnhanceImprove, enhancement.Type)
	assert.Equal(t, "improved manual text", enhancement.Content)
	assert.Equal(t, fixed, enhancement.CreatedAt)

	manual, err := store.GetManual(context.Background(), manualID)
	require.NoError(t, err)
	content, err := models.UnmarshalContent(manual.Content.String)
	require.NoError(t, err)
	require.Len(t, content.Enhancements, 1)
	assert.Equal(t, "improved manual text", content.Enhancements[0].Content)

	// The original raw content survives the enhancement.
	assert.Equal(t, "## 操作手順\n### ステップ1: ログイン", content.RawContent)
}

func TestEnhance_HistoryIsAppendOnly(t *testing.T) {
	store := newFakeStore()
	userID, manualID := seedContent(t, store)
	ai := &fakeAI{response: "pass"}
	svc := NewEnhanceService(store, NewAccessService(store), ai)

	_, err := svc.Enhance(context.Background(), userID, manualID, EnhanceImprove)
	require.NoError(t, err)
	_, err = svc.Enhance(context.Background(), userID, manualID, EnhanceSummarize)
	require.NoError(t, err)

	manual, err := store.GetManual(context.Background(), manualID)
	require.NoError(t, err)
	content, err := models.UnmarshalContent(manual.Content.String)
	require.NoError(t, err)
	require.Len(t, content.Enhancements, 2)
	assert.Equal(t, EnhanceImprove, content.Enhancements[0].Type)
	assert.Equal(t, EnhanceSummarize, content.Enhancements[1].Type)
}

func TestEnhance_UnknownTypeRejected(t *testing.T) {
	store := newFakeStore()
	userID, manualID := seedContent(t, store)
	svc := NewEnhanceService(store, NewAccessService(store), &fakeAI{})

	_, err := svc.Enhance(context.Background(), userID, manualID, "embellish")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestEnhance_RequiresExistingContent(t *testing.T) {
	store := newFakeStore()
	userID, manualID := store.seedChain(models.StatusDraft, "")
	svc := NewEnhanceService(store, NewAccessService(store), &fakeAI{})

	_, err := svc.Enhance(context.Background(), userID, manualID, EnhanceImprove)

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

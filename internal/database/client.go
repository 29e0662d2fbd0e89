package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"torisetsu-backend/internal/models"
)

// ErrNotFound is returned by Get* methods when no row matches. Callers decide
// whether that maps to 404 or an authorization false.
var ErrNotFound = errors.New("record not found")

type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// --- users ---

func (c *Client) CreateUser(ctx context.Context, user *models.User) error {
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, hashed_password, provider_uid, photo_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Username, user.HashedPassword, user.ProviderUID, user.PhotoURL, user.IsActive).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (c *Client) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return c.getUser(ctx, "id = $1", id)
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.getUser(ctx, "email = $1", email)
}

// GetUserBySubject looks a user up by the identity-provider subject first,
// falling back to email so pre-existing password accounts can be linked on
// first federated login.
func (c *Client) GetUserBySubject(ctx context.Context, providerUID, email string) (*models.User, error) {
	return c.getUser(ctx, "provider_uid = $1 OR email = $2", providerUID, email)
}

func (c *Client) getUser(ctx context.Context, where string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := c.db.QueryRowContext(ctx, `
		SELECT id, email, username, hashed_password, provider_uid, photo_url, is_active, created_at, updated_at
		FROM users
		WHERE `+where, args...).Scan(
		&user.ID, &user.Email, &user.Username, &user.HashedPassword,
		&user.ProviderUID, &user.PhotoURL, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// SyncFederatedUser updates the provider subject and profile photo after a
// federated login so the link survives email changes at the provider.
func (c *Client) SyncFederatedUser(ctx context.Context, id uuid.UUID, providerUID, photoURL string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE users
		SET provider_uid = $1, photo_url = $2, updated_at = NOW()
		WHERE id = $3
	`, providerUID, photoURL, id)
	if err != nil {
		return fmt.Errorf("failed to sync federated user: %w", err)
	}
	return nil
}

// --- projects ---

func (c *Client) CreateProject(ctx context.Context, creatorID uuid.UUID, name string) (*models.Project, error) {
	var project models.Project
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO projects (creator_id, name)
		VALUES ($1, $2)
		RETURNING id, creator_id, name, created_at, updated_at
	`, creatorID, name).Scan(
		&project.ID, &project.CreatorID, &project.Name, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

func (c *Client) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := c.db.QueryRowContext(ctx, `
		SELECT p.id, p.creator_id, p.name, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM torisetsu t WHERE t.project_id = p.id)
		FROM projects p
		WHERE p.id = $1
	`, id).Scan(
		&project.ID, &project.CreatorID, &project.Name, &project.CreatedAt, &project.UpdatedAt,
		&project.TorisetsuCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

func (c *Client) ListProjectsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Project, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT p.id, p.creator_id, p.name, p.created_at, p.updated_at,
		       COUNT(t.id)
		FROM projects p
		LEFT JOIN torisetsu t ON t.project_id = p.id
		WHERE p.creator_id = $1
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		err := rows.Scan(
			&project.ID, &project.CreatorID, &project.Name, &project.CreatedAt, &project.UpdatedAt,
			&project.TorisetsuCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

func (c *Client) UpdateProjectName(ctx context.Context, id uuid.UUID, name string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE projects
		SET name = $1, updated_at = NOW()
		WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// DeleteProjectCascade removes a project and every torisetsu and manual under
// it in one transaction, leaf tables first.
func (c *Client) DeleteProjectCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM manuals
		WHERE torisetsu_id IN (SELECT id FROM torisetsu WHERE project_id = $1)
	`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete manuals: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM torisetsu WHERE project_id = $1`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete torisetsu: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return tx.Commit()
}

// --- torisetsu ---

func (c *Client) CreateTorisetsu(ctx context.Context, projectID uuid.UUID, name string) (*models.Torisetsu, error) {
	var torisetsu models.Torisetsu
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO torisetsu (project_id, name)
		VALUES ($1, $2)
		RETURNING id, project_id, name, created_at, updated_at
	`, projectID, name).Scan(
		&torisetsu.ID, &torisetsu.ProjectID, &torisetsu.Name, &torisetsu.CreatedAt, &torisetsu.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create torisetsu: %w", err)
	}
	return &torisetsu, nil
}

func (c *Client) GetTorisetsu(ctx context.Context, id uuid.UUID) (*models.Torisetsu, error) {
	var torisetsu models.Torisetsu
	err := c.db.QueryRowContext(ctx, `
		SELECT t.id, t.project_id, t.name, t.created_at, t.updated_at,
		       (SELECT COUNT(*) FROM manuals m WHERE m.torisetsu_id = t.id)
		FROM torisetsu t
		WHERE t.id = $1
	`, id).Scan(
		&torisetsu.ID, &torisetsu.ProjectID, &torisetsu.Name, &torisetsu.CreatedAt, &torisetsu.UpdatedAt,
		&torisetsu.ManualCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get torisetsu: %w", err)
	}
	return &torisetsu, nil
}

func (c *Client) ListTorisetsuByProject(ctx context.Context, projectID uuid.UUID) ([]models.Torisetsu, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT t.id, t.project_id, t.name, t.created_at, t.updated_at,
		       COUNT(m.id)
		FROM torisetsu t
		LEFT JOIN manuals m ON m.torisetsu_id = t.id
		WHERE t.project_id = $1
		GROUP BY t.id
		ORDER BY t.created_at DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list torisetsu: %w", err)
	}
	defer rows.Close()

	var list []models.Torisetsu
	for rows.Next() {
		var torisetsu models.Torisetsu
		err := rows.Scan(
			&torisetsu.ID, &torisetsu.ProjectID, &torisetsu.Name, &torisetsu.CreatedAt, &torisetsu.UpdatedAt,
			&torisetsu.ManualCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan torisetsu: %w", err)
		}
		list = append(list, torisetsu)
	}

	return list, rows.Err()
}

func (c *Client) UpdateTorisetsuName(ctx context.Context, id uuid.UUID, name string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE torisetsu
		SET name = $1, updated_at = NOW()
		WHERE id = $2
	`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update torisetsu: %w", err)
	}
	return nil
}

// DeleteTorisetsuCascade removes a torisetsu and all its manuals.
func (c *Client) DeleteTorisetsuCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM manuals WHERE torisetsu_id = $1`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete manuals: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM torisetsu WHERE id = $1`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete torisetsu: %w", err)
	}

	return tx.Commit()
}

// --- manuals ---

const manualColumns = `id, torisetsu_id, title, content, status, version,
	video_file_path, audio_file_path, share_token, share_enabled, share_expires_at,
	generation_error, created_at, updated_at`

func scanManual(row interface{ Scan(...interface{}) error }) (*models.Manual, error) {
	var manual models.Manual
	err := row.Scan(
		&manual.ID, &manual.TorisetsuID, &manual.Title, &manual.Content, &manual.Status,
		&manual.Version, &manual.VideoFilePath, &manual.AudioFilePath, &manual.ShareToken,
		&manual.ShareEnabled, &manual.ShareExpiresAt, &manual.GenerationError,
		&manual.CreatedAt, &manual.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan manual: %w", err)
	}
	return &manual, nil
}

func (c *Client) CreateManual(ctx context.Context, manual *models.Manual) error {
	err := c.db.QueryRowContext(ctx, `
		INSERT INTO manuals (torisetsu_id, title, content, status, version, video_file_path, audio_file_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, manual.TorisetsuID, manual.Title, manual.Content, manual.Status, manual.Version,
		manual.VideoFilePath, manual.AudioFilePath).Scan(
		&manual.ID, &manual.CreatedAt, &manual.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create manual: %w", err)
	}
	return nil
}

func (c *Client) GetManual(ctx context.Context, id uuid.UUID) (*models.Manual, error) {
	row := c.db.QueryRowContext(ctx, `SELECT `+manualColumns+` FROM manuals WHERE id = $1`, id)
	return scanManual(row)
}

func (c *Client) ListManualsByTorisetsu(ctx context.Context, torisetsuID uuid.UUID) ([]models.Manual, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT `+manualColumns+`
		FROM manuals
		WHERE torisetsu_id = $1
		ORDER BY created_at DESC
	`, torisetsuID)
	if err != nil {
		return nil, fmt.Errorf("failed to list manuals: %w", err)
	}
	defer rows.Close()

	var manuals []models.Manual
	for rows.Next() {
		manual, err := scanManual(rows)
		if err != nil {
			return nil, err
		}
		manuals = append(manuals, *manual)
	}

	return manuals, rows.Err()
}

func (c *Client) UpdateManual(ctx context.Context, manual *models.Manual) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE manuals
		SET title = $1, content = $2, status = $3, version = $4, audio_file_path = $5, updated_at = NOW()
		WHERE id = $6
	`, manual.Title, manual.Content, manual.Status, manual.Version, manual.AudioFilePath, manual.ID)
	if err != nil {
		return fmt.Errorf("failed to update manual: %w", err)
	}
	return nil
}

func (c *Client) DeleteManual(ctx context.Context, id uuid.UUID) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM manuals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete manual: %w", err)
	}
	return nil
}

// TryStartProcessing flips a manual into processing unless it is already
// there. The status column is the per-manual generation mutex: a false return
// means another generation job holds it.
func (c *Client) TryStartProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := c.db.ExecContext(ctx, `
		UPDATE manuals
		SET status = $1, generation_error = NULL, updated_at = NOW()
		WHERE id = $2 AND status <> $1
	`, models.StatusProcessing, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark manual processing: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

func (c *Client) CompleteGeneration(ctx context.Context, id uuid.UUID, contentJSON string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE manuals
		SET status = $1, content = $2, generation_error = NULL, updated_at = NOW()
		WHERE id = $3
	`, models.StatusCompleted, contentJSON, id)
	if err != nil {
		return fmt.Errorf("failed to complete generation: %w", err)
	}
	return nil
}

func (c *Client) FailGeneration(ctx context.Context, id uuid.UUID, diagnosticJSON string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE manuals
		SET status = $1, generation_error = $2, updated_at = NOW()
		WHERE id = $3
	`, models.StatusFailed, diagnosticJSON, id)
	if err != nil {
		return fmt.Errorf("failed to record generation failure: %w", err)
	}
	return nil
}

func (c *Client) UpdateManualContent(ctx context.Context, id uuid.UUID, contentJSON string) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE manuals
		SET content = $1, updated_at = NOW()
		WHERE id = $2
	`, contentJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update manual content: %w", err)
	}
	return nil
}

// SetShareToken overwrites any previous token material; a manual has at most
// one active share token.
func (c *Client) SetShareToken(ctx context.Context, id uuid.UUID, token string, expiresAt *time.Time) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE manuals
		SET share_token = $1, share_enabled = TRUE, share_expires_at = $2, updated_at = NOW()
		WHERE id = $3
	`, token, expiresAt, id)
	if err != nil {
		return fmt.Errorf("failed to set share token: %w", err)
	}
	return nil
}

func (c *Client) ClearShareToken(ctx context.Context, id uuid.UUID) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE manuals
		SET share_token = NULL, share_enabled = FALSE, share_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to clear share token: %w", err)
	}
	return nil
}

func (c *Client) GetManualByShareToken(ctx context.Context, token string) (*models.Manual, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT `+manualColumns+`
		FROM manuals
		WHERE share_token = $1 AND share_enabled = TRUE
	`, token)
	return scanManual(row)
}

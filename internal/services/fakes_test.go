package services

import (
	"context"
	"database/sql"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/gemini"
	"torisetsu-backend/internal/models"
)

// fakeStore is an in-memory stand-in for the database client.
type fakeStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*models.User
	projects   map[uuid.UUID]*models.Project
	torisetsu  map[uuid.UUID]*models.Torisetsu
	manuals    map[uuid.UUID]*models.Manual
	completed  chan uuid.UUID
	failed     chan string
	failureErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[uuid.UUID]*models.User),
		projects:  make(map[uuid.UUID]*models.Project),
		torisetsu: make(map[uuid.UUID]*models.Torisetsu),
		manuals:   make(map[uuid.UUID]*models.Manual),
		completed: make(chan uuid.UUID, 8),
		failed:    make(chan string, 8),
	}
}

// seedChain creates a user-project-torisetsu-manual chain and returns the IDs.
func (f *fakeStore) seedChain(status string, videoPath string) (userID, manualID uuid.UUID) {
	userID = uuid.New()
	projectID := uuid.New()
	torisetsuID := uuid.New()
	manualID = uuid.New()

	f.projects[projectID] = &models.Project{ID: projectID, CreatorID: userID, Name: "p"}
	f.torisetsu[torisetsuID] = &models.Torisetsu{ID: torisetsuID, ProjectID: projectID, Name: "t"}
	manual := &models.Manual{ID: manualID, TorisetsuID: torisetsuID, Title: "m", Status: status}
	if videoPath != "" {
		manual.VideoFilePath = sql.NullString{String: videoPath, Valid: true}
	}
	f.manuals[manualID] = manual
	return userID, manualID
}

func (f *fakeStore) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.projects[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) GetTorisetsu(ctx context.Context, id uuid.UUID) (*models.Torisetsu, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.torisetsu[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) GetManual(ctx context.Context, id uuid.UUID) (*models.Manual, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.manuals[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeStore) TryStartProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.manuals[id]
	if !ok {
		return false, database.ErrNotFound
	}
	if m.Status == models.StatusProcessing {
		return false, nil
	}
	m.Status = models.StatusProcessing
	return true, nil
}

func (f *fakeStore) CompleteGeneration(ctx context.Context, id uuid.UUID, contentJSON string) error {
	f.mu.Lock()
	m, ok := f.manuals[id]
	if ok {
		m.Status = models.StatusCompleted
		m.Content = sql.NullString{String: contentJSON, Valid: true}
	}
	f.mu.Unlock()
	f.completed <- id
	return nil
}

func (f *fakeStore) FailGeneration(ctx context.Context, id uuid.UUID, diagnosticJSON string) error {
	f.mu.Lock()
	m, ok := f.manuals[id]
	if ok {
		m.Status = models.StatusFailed
		m.GenerationError = sql.NullString{String: diagnosticJSON, Valid: true}
	}
	err := f.failureErr
	f.mu.Unlock()
	f.failed <- diagnosticJSON
	return err
}

func (f *fakeStore) UpdateManualContent(ctx context.Context, id uuid.UUID, contentJSON string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.manuals[id]
	if !ok {
		return database.ErrNotFound
	}
	m.Content = sql.NullString{String: contentJSON, Valid: true}
	return nil
}

func (f *fakeStore) SetShareToken(ctx context.Context, id uuid.UUID, token string, expiresAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.manuals[id]
	if !ok {
		return database.ErrNotFound
	}
	m.ShareToken = sql.NullString{String: token, Valid: true}
	m.ShareEnabled = true
	if expiresAt != nil {
		m.ShareExpiresAt = sql.NullTime{Time: *expiresAt, Valid: true}
	} else {
		m.ShareExpiresAt = sql.NullTime{}
	}
	return nil
}

func (f *fakeStore) ClearShareToken(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.manuals[id]
	if !ok {
		return database.ErrNotFound
	}
	m.ShareToken = sql.NullString{}
	m.ShareEnabled = false
	m.ShareExpiresAt = sql.NullTime{}
	return nil
}

func (f *fakeStore) GetManualByShareToken(ctx context.Context, token string) (*models.Manual, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.manuals {
		if m.ShareEnabled && m.ShareToken.Valid && m.ShareToken.String == token {
			copied := *m
			return &copied, nil
		}
	}
	return nil, database.ErrNotFound
}

// fakeFileStore keeps files in a map.
type fakeFileStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (f *fakeFileStore) Save(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
	return path, nil
}

func (f *fakeFileStore) Download(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.files[path]; ok {
		return data, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeFileStore) Exists(ctx context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok, nil
}

func (f *fakeFileStore) Delete(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

// fakeAI scripts the generation backend. uploadErrs and generateErrs are
// consumed one per call; nil entries and exhausted queues mean success.
type fakeAI struct {
	mu           sync.Mutex
	uploadErrs   []error
	generateErrs []error
	fileStates   []string
	response     string

	uploadCalls   int
	getFileCalls  int
	generateCalls int
	deletedFiles  []string
}

func (f *fakeAI) Host() string  { return "example.invalid" }
func (f *fakeAI) Model() string { return "fake-model" }

func (f *fakeAI) UploadFile(ctx context.Context, data io.Reader, mimeType string) (*gemini.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if len(f.uploadErrs) > 0 {
		err := f.uploadErrs[0]
		f.uploadErrs = f.uploadErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &gemini.File{Name: "files/fake", URI: "uri://fake", MimeType: mimeType, State: f.nextState()}, nil
}

func (f *fakeAI) GetFile(ctx context.Context, name string) (*gemini.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getFileCalls++
	return &gemini.File{Name: name, URI: "uri://fake", State: f.nextState()}, nil
}

func (f *fakeAI) nextState() string {
	if len(f.fileStates) == 0 {
		return gemini.StateActive
	}
	state := f.fileStates[0]
	f.fileStates = f.fileStates[1:]
	return state
}

func (f *fakeAI) DeleteFile(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedFiles = append(f.deletedFiles, name)
	return nil
}

func (f *fakeAI) GenerateFromFile(ctx context.Context, file *gemini.File, prompt string) (string, error) {
	return f.generate()
}

func (f *fakeAI) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f.generate()
}

func (f *fakeAI) generate() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	if len(f.generateErrs) > 0 {
		err := f.generateErrs[0]
		f.generateErrs = f.generateErrs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.response, nil
}

// fakeEvents records published lifecycle events.
type fakeEvents struct {
	mu      sync.Mutex
	started []uuid.UUID
	done    []uuid.UUID
	failed  []string
}

func (f *fakeEvents) GenerationStarted(manualID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, manualID)
	return nil
}

func (f *fakeEvents) GenerationCompleted(manualID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done = append(f.done, manualID)
	return nil
}

func (f *fakeEvents) GenerationFailed(manualID uuid.UUID, errorType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, errorType)
	return nil
}

// fakeResolver scripts the DNS preflight.
type fakeResolver struct {
	err error
}

func (f *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"192.0.2.1"}, nil
}

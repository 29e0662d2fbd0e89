package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// SupabaseStore stores files in a Supabase storage bucket.
type SupabaseStore struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewSupabaseStore(supabaseURL, apiKey, bucket string) *SupabaseStore {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", apiKey, nil)

	return &SupabaseStore{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

func (s *SupabaseStore) Save(ctx context.Context, storagePath string, data []byte, contentType string) (string, error) {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return storagePath, nil
}

func (s *SupabaseStore) Download(ctx context.Context, storagePath string) ([]byte, error) {
	data, err := s.client.DownloadFile(s.bucket, storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}

	return data, nil
}

// Exists lists the parent folder and scans for the file name. The storage API
// has no direct head/stat call.
func (s *SupabaseStore) Exists(ctx context.Context, storagePath string) (bool, error) {
	dir := path.Dir(storagePath)
	base := path.Base(storagePath)
	if dir == "." {
		dir = ""
	}

	files, err := s.client.ListFiles(s.bucket, dir, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return false, fmt.Errorf("failed to list files: %w", err)
	}

	for _, file := range files {
		if file.Name == base {
			return true, nil
		}
	}

	return false, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, storagePath string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{storagePath}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// PublicURL returns the unauthenticated URL for a stored file.
func (s *SupabaseStore) PublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, storagePath)
}

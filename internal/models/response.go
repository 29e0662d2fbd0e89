package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectResponse struct {
	ID             string    `json:"id"`
	CreatorID      string    `json:"creator_id"`
	Name           string    `json:"name"`
	TorisetsuCount int       `json:"torisetsu_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type TorisetsuResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	ManualCount int       `json:"manual_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ManualResponse struct {
	ID             string         `json:"id"`
	TorisetsuID    string         `json:"torisetsu_id"`
	Title          string         `json:"title"`
	Content        *ManualContent `json:"content,omitempty"`
	Status         string         `json:"status"`
	Version        string         `json:"version"`
	VideoFilePath  string         `json:"video_file_path,omitempty"`
	AudioFilePath  string         `json:"audio_file_path,omitempty"`
	ShareEnabled   bool           `json:"share_enabled"`
	ShareExpiresAt *time.Time     `json:"share_expires_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// SharedManualResponse is the public-safe projection served to anonymous
// share-token holders. It never echoes the token or ownership chain.
type SharedManualResponse struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Content       *ManualContent `json:"content,omitempty"`
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	VideoFilePath string         `json:"video_file_path,omitempty"`
	AudioFilePath string         `json:"audio_file_path,omitempty"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

type GenerateResponse struct {
	Message  string `json:"message"`
	ManualID string `json:"manual_id"`
	Status   string `json:"status"`
}

type ManualStatusResponse struct {
	ManualID      string `json:"manual_id"`
	Status        string `json:"status"`
	Title         string `json:"title"`
	HasContent    bool   `json:"has_content"`
	VideoFilePath string `json:"video_file_path,omitempty"`
}

type ShareTokenResponse struct {
	ShareToken string     `json:"share_token"`
	ShareURL   string     `json:"share_url"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type EnhanceResponse struct {
	Message         string `json:"message"`
	ManualID        string `json:"manual_id"`
	EnhancementType string `json:"enhancement_type"`
	EnhancedContent string `json:"enhanced_content"`
}

type UploadResponse struct {
	Filename         string `json:"filename"`
	FilePath         string `json:"file_path"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type NetworkHealthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	GeminiModel string `json:"gemini_model,omitempty"`
	ErrorType   string `json:"error_type,omitempty"`
}

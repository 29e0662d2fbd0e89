package models

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

type ProjectCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

type ProjectUpdateRequest struct {
	Name *string `json:"name"`
}

type TorisetsuCreateRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

type TorisetsuUpdateRequest struct {
	Name *string `json:"name"`
}

type ManualCreateRequest struct {
	TorisetsuID   string         `json:"torisetsu_id" binding:"required"`
	Title         string         `json:"title" binding:"required"`
	Content       *ManualContent `json:"content"`
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	VideoFilePath string         `json:"video_file_path"`
	AudioFilePath string         `json:"audio_file_path"`
}

type ManualUpdateRequest struct {
	Title         *string        `json:"title"`
	Content       *ManualContent `json:"content"`
	Status        *string        `json:"status"`
	Version       *string        `json:"version"`
	AudioFilePath *string        `json:"audio_file_path"`
}

// ShareTokenRequest defaults expires_in_days to 7 when the field is absent;
// an explicit null means the token never expires.
type ShareTokenRequest struct {
	ExpiresInDays *int `json:"expires_in_days"`
}

type EnhanceRequest struct {
	EnhancementType string `json:"enhancement_type"`
}

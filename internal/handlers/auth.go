package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"torisetsu-backend/internal/auth"
	"torisetsu-backend/internal/database"
	"torisetsu-backend/internal/identity"
	"torisetsu-backend/internal/models"
)

type AuthHandler struct {
	db     *database.Client
	tokens *auth.TokenManager
	google identity.Provider
}

func NewAuthHandler(db *database.Client, tokens *auth.TokenManager, google identity.Provider) *AuthHandler {
	return &AuthHandler{
		db:     db,
		tokens: tokens,
		google: google,
	}
}

// Register creates a password-based account and returns an access token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	if _, err := h.db.GetUserByEmail(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "email already registered"})
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to check email", Message: err.Error()})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to hash password", Message: err.Error()})
		return
	}

	user := &models.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: sql.NullString{String: hashed, Valid: true},
		IsActive:       true,
	}
	if err := h.db.CreateUser(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user", Message: err.Error()})
		return
	}

	h.issueToken(c, user)
}

// Login authenticates a password-based account.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	user, err := h.db.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to look up user", Message: err.Error()})
		return
	}

	if !user.IsActive || !user.HashedPassword.Valid || !auth.CheckPassword(req.Password, user.HashedPassword.String) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid email or password"})
		return
	}

	h.issueToken(c, user)
}

// GoogleLogin verifies a Google ID token and creates or links the account.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Message: err.Error()})
		return
	}

	claims, err := h.google.VerifyToken(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid id token"})
		return
	}

	user, err := h.db.GetUserBySubject(c.Request.Context(), claims.Subject, claims.Email)
	switch {
	case errors.Is(err, database.ErrNotFound):
		username := claims.Name
		if username == "" {
			username = strings.SplitN(claims.Email, "@", 2)[0]
		}
		user = &models.User{
			Email:       claims.Email,
			Username:    username,
			ProviderUID: sql.NullString{String: claims.Subject, Valid: true},
			PhotoURL:    sql.NullString{String: claims.PhotoURL, Valid: claims.PhotoURL != ""},
			IsActive:    true,
		}
		if err := h.db.CreateUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to create user", Message: err.Error()})
			return
		}
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to look up user", Message: err.Error()})
		return
	default:
		if err := h.db.SyncFederatedUser(c.Request.Context(), user.ID, claims.Subject, claims.PhotoURL); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to sync user", Message: err.Error()})
			return
		}
	}

	h.issueToken(c, user)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.db.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to look up user", Message: err.Error()})
		return
	}

	resp := models.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
	if user.PhotoURL.Valid {
		resp.PhotoURL = user.PhotoURL.String
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) issueToken(c *gin.Context, user *models.User) {
	token, err := h.tokens.Generate(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to generate token", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

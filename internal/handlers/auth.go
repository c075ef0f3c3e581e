package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"health-portal-server/internal/config"
	"health-portal-server/internal/middleware"
	"health-portal-server/internal/models"
	"health-portal-server/internal/repository"
	"health-portal-server/internal/utils"
)

const refreshCookie = "refresh_token"

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Repo *repository.Repository
	Cfg  *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(repo *repository.Repository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Repo: repo, Cfg: cfg}
}

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=PATIENT PROVIDER ADMIN"`
	Country  string `json:"country"`
}

// Register handles user registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Repo.Register(c.Request.Context(), repository.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
		Country:  req.Country,
	})
	if err != nil {
		utils.FromError(c, err)
		return
	}

	utils.Created(c, "User registered successfully", user)
}

// LoginRequest represents the request body for user login. Identifier is an
// email address or a user ID.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"omitempty,oneof=PATIENT PROVIDER ADMIN"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Repo.Login(c.Request.Context(), req.Identifier, req.Password, models.UserRole(req.Role))
	if err != nil {
		utils.Unauthorized(c, "Invalid credentials")
		return
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user.ID, user.Role, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	expiresAt := time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour)
	if err := h.Repo.StoreRefreshToken(c.Request.Context(), user.ID, refreshToken, expiresAt); err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	h.setRefreshCookie(c, refreshToken)
	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// RefreshTokenRequest represents the request body fallback for token refresh
// when the cookie is absent.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshTokenResponse represents the response body for successful refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the refresh token and issues a fresh access token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		var req RefreshTokenRequest
		if !utils.BindAndValidate(c, &req) {
			return
		}
		token = req.RefreshToken
	}

	claims, err := utils.ValidateToken(token, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	stored, err := h.Repo.FindValidRefreshToken(c.Request.Context(), token)
	if err != nil || stored.UserID != claims.UserID {
		utils.Unauthorized(c, "Refresh token not found, expired, or revoked")
		return
	}

	// Rotation: the presented token is burned before new ones are issued.
	if err := h.Repo.RevokeRefreshToken(c.Request.Context(), token); err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}

	accessToken, newRefreshToken, err := utils.GenerateTokens(claims.UserID, claims.Role, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate new tokens: "+err.Error())
		return
	}

	expiresAt := time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour)
	if err := h.Repo.StoreRefreshToken(c.Request.Context(), claims.UserID, newRefreshToken, expiresAt); err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	h.setRefreshCookie(c, newRefreshToken)
	utils.Success(c, "Token refreshed successfully", RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	})
}

// Logout revokes the presented refresh token and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(refreshCookie)
	if err != nil || token == "" {
		var req RefreshTokenRequest
		// Logout without any token is still a success; there is nothing to revoke.
		if bindErr := c.ShouldBindJSON(&req); bindErr == nil {
			token = req.RefreshToken
		}
	}

	if token != "" {
		if err := h.Repo.RevokeRefreshToken(c.Request.Context(), token); err != nil {
			utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
			return
		}
	}

	c.SetCookie(refreshCookie, "", -1, "/", "", h.Cfg.Environment != "development", true)
	utils.Success(c, "Logged out successfully", nil)
}

// GetProfile returns the authenticated user's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.Repo.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Profile retrieved successfully", user)
}

// SendOTPRequest represents the request body for sending a verification code.
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SendOTP emails a one-time verification code.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Repo.SendVerificationCode(c.Request.Context(), req.Email); err != nil {
		utils.FromError(c, err)
		return
	}
	utils.Success(c, "Verification code sent", nil)
}

// VerifyOTPRequest represents the request body for verifying a code.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyOTP checks a one-time code and marks the account verified.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ok, err := h.Repo.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		utils.FromError(c, err)
		return
	}
	if !ok {
		utils.BadRequest(c, "Invalid or expired verification code")
		return
	}
	utils.Success(c, "Account verified successfully", nil)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(
		refreshCookie,
		token,
		h.Cfg.JWTRefreshExpirationHours*60*60,
		"/",
		"",
		h.Cfg.Environment != "development",
		true,
	)
}

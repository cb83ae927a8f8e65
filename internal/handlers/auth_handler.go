package handlers

import (
	"net/http"

	"dentalclinic/internal/dto"
	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/middleware"
	"dentalclinic/internal/models"
	"dentalclinic/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ===========================================================================
// Auth Handler
// Handle authentication endpoints: login, refresh, me, logout
// ===========================================================================

const refreshTokenCookie = "refresh_token"

// AuthHandler xử lý các endpoint auth
type AuthHandler struct {
	authService   services.AuthService
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler tạo auth handler mới
// secureCookies bật cờ Secure cho cookie (production chạy HTTPS)
func NewAuthHandler(
	authService services.AuthService,
	secureCookies bool,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// UserResponse user data (không có password)
type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email,omitempty"`
	Phone     string          `json:"phone"`
	FullName  string          `json:"full_name"`
	Role      models.UserRole `json:"role"`
	AvatarURL *string         `json:"avatar_url,omitempty"`
}

// LoginResponse trả token trong body cho client không dùng cookie (mobile)
type LoginResponse struct {
	User   *UserResponse       `json:"user"`
	Tokens *services.TokenPair `json:"tokens"`
}

func toUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID.String(),
		Email:     u.EmailValue(),
		Phone:     u.Phone,
		FullName:  u.FullName,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}

// Login đăng nhập bằng email hoặc số điện thoại
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Invalid(messages.RequiredFields))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	h.setSession(c, result.Tokens)
	c.JSON(http.StatusOK, dto.Success(&LoginResponse{
		User:   toUserResponse(result.User),
		Tokens: result.Tokens,
	}))
}

// Refresh làm mới tokens, refresh token lấy từ cookie hoặc body
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshTokenCookie)
	if refreshToken == "" {
		var req dto.RefreshRequest
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		fail(c, apperrors.WithMessage(apperrors.ErrUnauthorized, messages.Unauthorized))
		return
	}

	result, err := h.authService.RefreshTokens(c.Request.Context(), refreshToken)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrTokenExpired) {
			h.clearSession(c)
		}
		fail(c, err)
		return
	}

	h.setSession(c, result.Tokens)
	c.JSON(http.StatusOK, dto.Success(&LoginResponse{
		User:   toUserResponse(result.User),
		Tokens: result.Tokens,
	}))
}

// Me lấy thông tin user hiện tại
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		fail(c, apperrors.WithMessage(apperrors.ErrUnauthorized, messages.Unauthorized))
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Success(toUserResponse(user)))
}

// Logout đăng xuất - Revoke token và clear cookies
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := middleware.GetUserID(c); ok {
		if err := h.authService.RevokeRefreshToken(c.Request.Context(), userID); err != nil {
			h.logger.Warn("revoke refresh token failed", zap.Error(err))
		}
	}

	h.clearSession(c)
	c.JSON(http.StatusOK, dto.Success(gin.H{
		"message_code": messages.LogoutSuccess,
		"message":      messages.LogoutSuccess.Text(),
	}))
}

func (h *AuthHandler) setSession(c *gin.Context, tokens *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken, tokens.ExpiresIn, "/", "", h.secureCookies, true)
	c.SetCookie(refreshTokenCookie, tokens.RefreshToken, 604800, "/api/v1/auth", "", h.secureCookies, true)

	csrfToken, err := middleware.GenerateCSRFToken()
	if err != nil {
		h.logger.Error("generate csrf token failed", zap.Error(err))
		return
	}
	middleware.SetCSRFCookie(c, csrfToken, h.secureCookies)
}

func (h *AuthHandler) clearSession(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/api/v1/auth", "", h.secureCookies, true)
	c.SetCookie(middleware.CSRFCookieName, "", -1, "/", "", h.secureCookies, false)
}

// RegisterRoutes đăng ký routes cho auth
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		// Public routes (không cần auth)
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)

		// Protected routes (cần auth)
		auth.GET("/me", authMiddleware, h.Me)
		auth.POST("/logout", authMiddleware, h.Logout)
	}
}

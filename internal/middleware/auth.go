package middleware

import (
	"context"
	"strings"

	"dentalclinic/internal/auth"
	"dentalclinic/internal/dto"
	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ===========================================================================
// Auth Middleware
// Xác thực access token rồi gắn Principal vào context của request
// Phân quyền theo role do mediator làm (auth.Authorization), không làm ở đây
// ===========================================================================

// Context keys cho auth data
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"

	// AccessTokenCookie tên cookie chứa access token
	AccessTokenCookie = "access_token"
)

// TokenValidator được AuthService implement
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware bắt buộc có access token hợp lệ
// Token lấy từ cookie, header Authorization hoặc query ?token= (cho websocket)
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortWith(c, apperrors.WithMessage(apperrors.ErrUnauthorized, messages.Unauthorized))
			return
		}

		user, err := validator.ValidateAccessToken(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}

		setPrincipal(c, user)
		c.Next()
	}
}

// OptionalAuth gắn Principal nếu có token hợp lệ, không có thì cho qua như khách
// Dùng cho các API công khai nhưng trả kết quả khác nhau theo role
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c); token != "" {
			if user, err := validator.ValidateAccessToken(c.Request.Context(), token); err == nil {
				setPrincipal(c, user)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// browser không gửi được header khi mở websocket
	return c.Query("token")
}

func setPrincipal(c *gin.Context, user *models.User) {
	p := auth.Principal{
		UserID: user.ID,
		Email:  user.EmailValue(),
		Role:   user.Role,
	}
	c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
	c.Set(ContextKeyUserID, p.UserID)
	c.Set(ContextKeyUserRole, p.Role)
}

func abortWith(c *gin.Context, err error) {
	status, resp := dto.FromError(err)
	c.AbortWithStatusJSON(status, resp)
}

// ===========================================================================
// Helper functions để lấy data từ context
// ===========================================================================

// GetUserID lấy user ID từ context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(ContextKeyUserID)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// GetUserRole lấy user role từ context
func GetUserRole(c *gin.Context) (models.UserRole, bool) {
	role, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", false
	}
	return role.(models.UserRole), true
}

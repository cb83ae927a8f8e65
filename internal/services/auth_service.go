package services

import (
	"context"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// Auth Service Interface
// Đăng nhập bằng email hoặc số điện thoại, refresh token có rotation
// ===========================================================================

// TokenPair access và refresh token trả về cho client
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // giây
}

// LoginResult kết quả đăng nhập
type LoginResult struct {
	User   *models.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// AuthService interface cho các thao tác xác thực
type AuthService interface {
	// Login xác thực bằng email hoặc số điện thoại và mật khẩu
	Login(ctx context.Context, login, password string) (*LoginResult, error)

	// RefreshTokens cấp cặp token mới, refresh token cũ mất hiệu lực
	RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error)

	// ValidateAccessToken kiểm tra access token và trả về người gọi
	ValidateAccessToken(ctx context.Context, token string) (*models.User, error)

	// GetUserByID lấy user theo ID
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// RevokeRefreshToken thu hồi refresh token (logout)
	RevokeRefreshToken(ctx context.Context, userID uuid.UUID) error
}

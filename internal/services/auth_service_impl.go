package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"dentalclinic/internal/auth"
	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Auth Service Implementation
// ===========================================================================

// authServiceImpl implements AuthService
type authServiceImpl struct {
	userRepo   repositories.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService tạo AuthService mới
func NewAuthService(
	userRepo repositories.UserRepository,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// hashToken SHA256 của token để lưu DB
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func invalidCredentials() error {
	return apperrors.WithMessage(apperrors.ErrInvalidCredentials, messages.InvalidCredentials)
}

// Login có '@' thì tìm theo email, ngược lại tìm theo số điện thoại
func (s *authServiceImpl) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	login = strings.TrimSpace(login)

	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.userRepo.FindByEmail(ctx, strings.ToLower(login))
	} else {
		user, err = s.userRepo.FindByPhone(ctx, login)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, invalidCredentials()
		}
		s.logger.Error("find user for login failed", zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.IsDeleted || !user.CheckPassword(password) {
		return nil, invalidCredentials()
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden(messages.AccountDisabled)
	}

	tokens, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// RefreshTokens token rotation: hash mới thay hash cũ trong DB
func (s *authServiceImpl) RefreshTokens(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidToken, messages.InvalidToken)
	}
	if !user.IsActive || user.IsDeleted {
		return nil, apperrors.Forbidden(messages.AccountDisabled)
	}

	if user.RefreshTokenHash == nil || *user.RefreshTokenHash != hashToken(refreshToken) {
		s.logger.Warn("refresh token hash mismatch - token possibly revoked",
			zap.String("user_id", user.ID.String()),
		)
		return nil, apperrors.WithMessage(apperrors.ErrInvalidToken, messages.InvalidToken)
	}

	tokens, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Tokens: tokens}, nil
}

// ValidateAccessToken ngoài chữ ký còn kiểm tra tài khoản còn hoạt động
func (s *authServiceImpl) ValidateAccessToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidToken, messages.InvalidToken)
	}
	if !user.IsActive || user.IsDeleted {
		return nil, apperrors.Forbidden(messages.AccountDisabled)
	}
	return user, nil
}

func (s *authServiceImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, messages.UserNotFound)
	}
	return user, nil
}

func (s *authServiceImpl) RevokeRefreshToken(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, messages.UserNotFound)
	}

	user.RefreshTokenHash = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.logger.Info("refresh token revoked",
		zap.String("user_id", userID.String()),
	)
	return nil
}

// issue tạo cặp token và lưu hash của refresh token
func (s *authServiceImpl) issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("generate token failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("generate token: %w", err)
	}

	tokenHash := hashToken(pair.RefreshToken)
	user.RefreshTokenHash = &tokenHash
	user.UpdateLastSeen()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("save refresh token hash failed",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(s.jwtService.AccessDuration().Seconds()),
	}, nil
}

func tokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return apperrors.WithMessage(apperrors.ErrTokenExpired, messages.TokenExpired)
	}
	return apperrors.WithMessage(apperrors.ErrInvalidToken, messages.InvalidToken)
}

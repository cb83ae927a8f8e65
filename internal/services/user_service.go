package services

import (
	"context"
	"strings"
	"time"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// User Service
// Quản trị viên tạo tài khoản nhân sự và khóa/mở khóa tài khoản
// ===========================================================================

// CreateStaffCommand tạo tài khoản nhân sự kèm hồ sơ theo role
type CreateStaffCommand struct {
	FullName          string          `json:"full_name" validate:"required,max=255"`
	Phone             string          `json:"phone" validate:"required"`
	Email             *string         `json:"email"`
	Password          string          `json:"password" validate:"required,min=6,max=72"`
	Role              models.UserRole `json:"role" validate:"required"`
	Gender            *string         `json:"gender" validate:"omitempty,max=20"`
	Specialty         *string         `json:"specialty" validate:"omitempty,max=255"`
	YearsOfExperience int             `json:"years_of_experience" validate:"gte=0"`
}

func (CreateStaffCommand) AllowedRoles() []models.UserRole { return adminOnly }

func (c CreateStaffCommand) Validate() error {
	if !c.Role.IsValid() || c.Role == models.RolePatient {
		return apperrors.Invalid(messages.InvalidRole)
	}
	if !IsValidPhone(strings.TrimSpace(c.Phone)) {
		return apperrors.Invalid(messages.InvalidPhone)
	}
	if !isValidEmail(c.Email) {
		return apperrors.Invalid(messages.InvalidInput)
	}
	return nil
}

// ToggleUserActiveCommand khóa/mở khóa tài khoản
type ToggleUserActiveCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ToggleUserActiveCommand) AllowedRoles() []models.UserRole { return adminOnly }

// ListUsersQuery danh sách tài khoản
type ListUsersQuery struct {
	ListParams
	Role models.UserRole `form:"role" json:"role"`
}

func (ListUsersQuery) AllowedRoles() []models.UserRole { return adminOnly }

func (q ListUsersQuery) Validate() error {
	if q.Role != "" && !q.Role.IsValid() {
		return apperrors.Invalid(messages.InvalidRole)
	}
	return nil
}

// UserService xử lý tài khoản
type UserService struct {
	base
	users repositories.UserRepository
}

// NewUserService tạo UserService
func NewUserService(users repositories.UserRepository, logger *zap.Logger, loc *time.Location) *UserService {
	return &UserService{base: newBase(logger, loc), users: users}
}

func (s *UserService) CreateStaff(ctx context.Context, cmd CreateStaffCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(cmd.Phone)
	email := normalizeEmail(cmd.Email)
	if err := ensureContactFree(ctx, s.users, phone, email, uuid.Nil); err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Phone:    phone,
		FullName: strings.TrimSpace(cmd.FullName),
		Gender:   cmd.Gender,
		Role:     cmd.Role,
		IsActive: true,
	}
	if err := user.SetPassword(cmd.Password); err != nil {
		return nil, wrap("hash password", err)
	}
	user.MarkCreated(p.UserID, s.now())

	var dentist *models.Dentist
	if cmd.Role == models.RoleDentist {
		dentist = &models.Dentist{
			Specialty:         cmd.Specialty,
			YearsOfExperience: cmd.YearsOfExperience,
		}
	}

	if err := s.users.CreateStaff(ctx, user, dentist); err != nil {
		return nil, duplicate(err, messages.PhoneExists)
	}

	s.logger.Info("staff account created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return result(messages.CreateSuccess, &user.ID), nil
}

func (s *UserService) ToggleActive(ctx context.Context, cmd ToggleUserActiveCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	if cmd.ID == p.UserID {
		return nil, apperrors.Conflict(messages.CannotDisableSelf)
	}
	user, err := findLive[models.User](ctx, s.users, cmd.ID, messages.UserNotFound)
	if err != nil {
		return nil, err
	}

	if !user.ToggleActive(p.UserID, s.now()) {
		// tài khoản bị khóa thì refresh token cũ hết hiệu lực
		user.RefreshTokenHash = nil
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &user.ID), nil
}

func (s *UserService) List(ctx context.Context, q ListUsersQuery) (*PageResult[models.User], error) {
	var role *models.UserRole
	if q.Role != "" {
		role = &q.Role
	}
	items, total, err := s.users.List(ctx, role, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

// RegisterUserHandlers đăng ký handler lên mediator
func RegisterUserHandlers(m *mediator.Mediator, s *UserService) {
	mediator.Register[CreateStaffCommand, *MessageResult](m, mediator.HandlerFunc[CreateStaffCommand, *MessageResult](s.CreateStaff))
	mediator.Register[ToggleUserActiveCommand, *MessageResult](m, mediator.HandlerFunc[ToggleUserActiveCommand, *MessageResult](s.ToggleActive))
	mediator.Register[ListUsersQuery, *PageResult[models.User]](m, mediator.HandlerFunc[ListUsersQuery, *PageResult[models.User]](s.List))
}

package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Patient Service
// Lễ tân tạo hồ sơ bệnh nhân kèm tài khoản đăng nhập bằng số điện thoại
// ===========================================================================

// phonePattern số điện thoại Việt Nam: 0 + 9 chữ số
var phonePattern = regexp.MustCompile(`^0\d{9}$`)

// IsValidPhone kiểm tra định dạng số điện thoại
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

var contactValidate = validator.New()

// isValidEmail kiểm tra email sau khi bỏ khoảng trắng, nil hoặc rỗng là hợp lệ
func isValidEmail(email *string) bool {
	if email == nil {
		return true
	}
	e := strings.TrimSpace(*email)
	if e == "" {
		return true
	}
	return len(e) <= 255 && contactValidate.Var(e, "email") == nil
}

// PatientProfileInput thông tin cá nhân của bệnh nhân
type PatientProfileInput struct {
	FullName       string  `json:"full_name" validate:"required,max=255"`
	Phone          string  `json:"phone" validate:"required"`
	Email          *string `json:"email"`
	Gender         *string `json:"gender" validate:"omitempty,max=20"`
	DateOfBirth    string  `json:"date_of_birth"`
	Address        *string `json:"address" validate:"omitempty,max=500"`
	MedicalHistory *string `json:"medical_history"`
}

func (in PatientProfileInput) Validate() error {
	if !IsValidPhone(strings.TrimSpace(in.Phone)) {
		return apperrors.Invalid(messages.InvalidPhone)
	}
	if !isValidEmail(in.Email) {
		return apperrors.Invalid(messages.InvalidInput)
	}
	return nil
}

// CreatePatientCommand lễ tân tạo hồ sơ bệnh nhân
type CreatePatientCommand struct {
	PatientProfileInput
	Note *string `json:"note"`
}

func (CreatePatientCommand) AllowedRoles() []models.UserRole {
	return []models.UserRole{models.RoleReceptionist}
}

// UpdatePatientCommand sửa hồ sơ, bệnh nhân chỉ sửa được hồ sơ của mình
type UpdatePatientCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
	PatientProfileInput
	Note *string `json:"note"`
}

func (UpdatePatientCommand) AllowedRoles() []models.UserRole {
	return []models.UserRole{models.RoleReceptionist, models.RolePatient}
}

// GetPatientQuery xem một hồ sơ bệnh nhân
type GetPatientQuery struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (GetPatientQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// ListPatientsQuery danh sách bệnh nhân, tìm theo tên hoặc số điện thoại
type ListPatientsQuery struct {
	ListParams
}

func (ListPatientsQuery) AllowedRoles() []models.UserRole { return staffRoles }

// PatientCreated kết quả tạo bệnh nhân kèm mật khẩu tạm để lễ tân gửi cho bệnh nhân
type PatientCreated struct {
	MessageResult
	UserID            uuid.UUID `json:"user_id"`
	TemporaryPassword string    `json:"temporary_password"`
}

// PatientService xử lý hồ sơ bệnh nhân
type PatientService struct {
	base
	patients repositories.PatientRepository
	users    repositories.UserRepository
}

// NewPatientService tạo PatientService
func NewPatientService(patients repositories.PatientRepository, users repositories.UserRepository, logger *zap.Logger, loc *time.Location) *PatientService {
	return &PatientService{
		base:     newBase(logger, loc),
		patients: patients,
		users:    users,
	}
}

func (s *PatientService) Create(ctx context.Context, cmd CreatePatientCommand) (*PatientCreated, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(cmd.Phone)
	email := normalizeEmail(cmd.Email)
	if err := ensureContactFree(ctx, s.users, phone, email, uuid.Nil); err != nil {
		return nil, err
	}
	dob, err := s.birthDate(cmd.DateOfBirth)
	if err != nil {
		return nil, err
	}

	password := temporaryPassword()
	now := s.now()
	user := models.User{
		Email:       email,
		Phone:       phone,
		FullName:    strings.TrimSpace(cmd.FullName),
		Gender:      cmd.Gender,
		DateOfBirth: dob,
		Address:     cmd.Address,
		Role:        models.RolePatient,
		IsActive:    true,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, wrap("hash password", err)
	}
	user.MarkCreated(p.UserID, now)

	patient := &models.Patient{
		MedicalHistory: cmd.MedicalHistory,
		Note:           cmd.Note,
		User:           user,
	}
	patient.MarkCreated(p.UserID, now)

	if err := s.patients.CreateWithUser(ctx, patient); err != nil {
		return nil, duplicate(err, messages.PhoneExists)
	}

	return &PatientCreated{
		MessageResult:     *result(messages.CreateSuccess, &patient.ID),
		UserID:            patient.UserID,
		TemporaryPassword: password,
	}, nil
}

func (s *PatientService) Update(ctx context.Context, cmd UpdatePatientCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	patient, err := findLive[models.Patient](ctx, s.patients, cmd.ID, messages.PatientNotFound)
	if err != nil {
		return nil, err
	}
	if p.Role == models.RolePatient && patient.UserID != p.UserID {
		return nil, apperrors.Forbidden(messages.NotOwnResource)
	}

	phone := strings.TrimSpace(cmd.Phone)
	email := normalizeEmail(cmd.Email)
	if err := ensureContactFree(ctx, s.users, phone, email, patient.UserID); err != nil {
		return nil, err
	}
	dob, err := s.birthDate(cmd.DateOfBirth)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patient.User.FullName = strings.TrimSpace(cmd.FullName)
	patient.User.Phone = phone
	patient.User.Email = email
	patient.User.Gender = cmd.Gender
	patient.User.DateOfBirth = dob
	patient.User.Address = cmd.Address
	patient.User.MarkUpdated(p.UserID, now)

	patient.MedicalHistory = cmd.MedicalHistory
	if p.Role != models.RolePatient {
		patient.Note = cmd.Note
	}
	patient.MarkUpdated(p.UserID, now)

	if err := s.patients.UpdateWithUser(ctx, patient); err != nil {
		return nil, duplicate(err, messages.PhoneExists)
	}
	return result(messages.UpdateSuccess, &patient.ID), nil
}

func (s *PatientService) Get(ctx context.Context, q GetPatientQuery) (*models.Patient, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	patient, err := findLive[models.Patient](ctx, s.patients, q.ID, messages.PatientNotFound)
	if err != nil {
		return nil, err
	}
	if p.Role == models.RolePatient && patient.UserID != p.UserID {
		return nil, apperrors.Forbidden(messages.NotOwnResource)
	}
	return patient, nil
}

func (s *PatientService) List(ctx context.Context, q ListPatientsQuery) (*PageResult[models.Patient], error) {
	items, total, err := s.patients.List(ctx, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

func (s *PatientService) birthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := s.parseDate(raw)
	if err != nil {
		return nil, err
	}
	if d.After(s.today()) {
		return nil, apperrors.Invalid(messages.InvalidInput)
	}
	return &d, nil
}

// ensureContactFree số điện thoại và email chưa thuộc về user khác
func ensureContactFree(ctx context.Context, users repositories.UserRepository, phone string, email *string, self uuid.UUID) error {
	if u, err := users.FindByPhone(ctx, phone); err == nil {
		if u.ID != self {
			return apperrors.Conflict(messages.PhoneExists)
		}
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	if email == nil {
		return nil
	}
	if u, err := users.FindByEmail(ctx, *email); err == nil {
		if u.ID != self {
			return apperrors.Conflict(messages.EmailExists)
		}
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

// temporaryPassword mật khẩu tạm 10 ký tự
func temporaryPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// RegisterPatientHandlers đăng ký handler lên mediator
func RegisterPatientHandlers(m *mediator.Mediator, s *PatientService) {
	mediator.Register[CreatePatientCommand, *PatientCreated](m, mediator.HandlerFunc[CreatePatientCommand, *PatientCreated](s.Create))
	mediator.Register[UpdatePatientCommand, *MessageResult](m, mediator.HandlerFunc[UpdatePatientCommand, *MessageResult](s.Update))
	mediator.Register[GetPatientQuery, *models.Patient](m, mediator.HandlerFunc[GetPatientQuery, *models.Patient](s.Get))
	mediator.Register[ListPatientsQuery, *PageResult[models.Patient]](m, mediator.HandlerFunc[ListPatientsQuery, *PageResult[models.Patient]](s.List))
}

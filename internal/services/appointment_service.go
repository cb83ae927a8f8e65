package services

import (
	"context"
	"fmt"
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
// Appointment Service
// Lễ tân hoặc bệnh nhân đặt lịch hẹn với nha sĩ
// ===========================================================================

// CreateAppointmentCommand đặt lịch hẹn
// Bệnh nhân tự đặt thì PatientID bị bỏ qua
type CreateAppointmentCommand struct {
	PatientID       uuid.UUID              `json:"patient_id"`
	DentistID       uuid.UUID              `json:"dentist_id" validate:"required"`
	AppointmentDate string                 `json:"appointment_date" validate:"required"`
	AppointmentTime string                 `json:"appointment_time" validate:"required"`
	AppointmentType models.AppointmentType `json:"appointment_type" validate:"required"`
	Content         *string                `json:"content"`
}

func (CreateAppointmentCommand) AllowedRoles() []models.UserRole {
	return []models.UserRole{models.RoleReceptionist, models.RolePatient}
}

func (c CreateAppointmentCommand) Validate() error {
	if !models.IsValidAppointmentTime(c.AppointmentTime) {
		return apperrors.Invalid(messages.InvalidTime)
	}
	if !c.AppointmentType.IsValid() {
		return apperrors.Invalid(messages.InvalidInput)
	}
	return nil
}

// CancelAppointmentCommand hủy lịch hẹn
type CancelAppointmentCommand struct {
	ID     uuid.UUID `json:"-" validate:"required"`
	Reason *string   `json:"reason"`
}

func (CancelAppointmentCommand) AllowedRoles() []models.UserRole {
	return []models.UserRole{models.RoleReceptionist, models.RolePatient}
}

// UpdateAppointmentStatusCommand ghi nhận bệnh nhân đến khám hay vắng
type UpdateAppointmentStatusCommand struct {
	ID     uuid.UUID                `json:"-" validate:"required"`
	Status models.AppointmentStatus `json:"status" validate:"required,oneof=attended absented"`
}

func (UpdateAppointmentStatusCommand) AllowedRoles() []models.UserRole {
	return []models.UserRole{models.RoleReceptionist, models.RoleDentist, models.RoleAssistant}
}

// ListAppointmentsQuery danh sách lịch hẹn
type ListAppointmentsQuery struct {
	ListParams
	Date   string                   `form:"date" json:"date"`
	Status models.AppointmentStatus `form:"status" json:"status" validate:"omitempty,oneof=confirmed canceled attended absented"`
}

func (ListAppointmentsQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// ListDentistsQuery danh sách nha sĩ để chọn khi đặt lịch
type ListDentistsQuery struct {
	ListParams
}

func (ListDentistsQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// AppointmentService xử lý lịch hẹn
type AppointmentService struct {
	base
	appointments repositories.AppointmentRepository
	patients     repositories.PatientRepository
	dentists     repositories.DentistRepository
	notifier     *Notifier
}

// NewAppointmentService tạo AppointmentService
func NewAppointmentService(
	appointments repositories.AppointmentRepository,
	patients repositories.PatientRepository,
	dentists repositories.DentistRepository,
	notifier *Notifier,
	logger *zap.Logger,
	loc *time.Location,
) *AppointmentService {
	return &AppointmentService{
		base:         newBase(logger, loc),
		appointments: appointments,
		patients:     patients,
		dentists:     dentists,
		notifier:     notifier,
	}
}

func (s *AppointmentService) Create(ctx context.Context, cmd CreateAppointmentCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	var patient *models.Patient
	if p.Role == models.RolePatient {
		patient, err = s.patients.FindByUserID(ctx, p.UserID)
	} else {
		if cmd.PatientID == uuid.Nil {
			return nil, apperrors.Invalid(messages.RequiredFields)
		}
		patient, err = findLive[models.Patient](ctx, s.patients, cmd.PatientID, messages.PatientNotFound)
	}
	if err != nil {
		return nil, notFound(err, messages.PatientNotFound)
	}

	dentist, err := findLive[models.Dentist](ctx, s.dentists, cmd.DentistID, messages.DentistNotFound)
	if err != nil {
		return nil, err
	}

	date, err := s.parseDate(cmd.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if date.Before(s.today()) || s.startsAt(date, cmd.AppointmentTime).Before(s.now()) {
		return nil, apperrors.Invalid(messages.DateInPast)
	}

	appt := &models.Appointment{
		PatientID:       patient.ID,
		DentistID:       dentist.ID,
		AppointmentDate: date,
		AppointmentTime: cmd.AppointmentTime,
		AppointmentType: cmd.AppointmentType,
		Status:          models.AppointmentConfirmed,
		Content:         cmd.Content,
	}
	appt.MarkCreated(p.UserID, s.now())
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, SendNotificationCommand{
		UserID:          dentist.UserID,
		Title:           "Lịch hẹn mới",
		Message:         fmt.Sprintf("Bệnh nhân %s hẹn khám lúc %s ngày %s", patient.User.FullName, appt.AppointmentTime, date.Format("02/01/2006")),
		Type:            models.NotificationAppointment,
		RelatedObjectID: &appt.ID,
		MappingURL:      ptr("/appointments"),
	})

	return result(messages.CreateSuccess, &appt.ID), nil
}

// startsAt ghép ngày hẹn với giờ HH:MM theo múi giờ phòng khám
func (s *AppointmentService) startsAt(date time.Time, hhmm string) time.Time {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, s.loc)
}

// Cancel chỉ hủy được lịch đang ở trạng thái confirmed
func (s *AppointmentService) Cancel(ctx context.Context, cmd CancelAppointmentCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	appt, err := findLive[models.Appointment](ctx, s.appointments, cmd.ID, messages.AppointmentNotFound)
	if err != nil {
		return nil, err
	}

	if p.Role == models.RolePatient {
		patient, err := s.patients.FindByUserID(ctx, p.UserID)
		if err != nil {
			return nil, notFound(err, messages.PatientNotFound)
		}
		if appt.PatientID != patient.ID {
			return nil, apperrors.Forbidden(messages.NotOwnResource)
		}
	}
	if appt.Status != models.AppointmentConfirmed {
		return nil, apperrors.Conflict(messages.AppointmentNotCancellable)
	}

	appt.Status = models.AppointmentCanceled
	appt.CancelReason = cmd.Reason
	appt.MarkUpdated(p.UserID, s.now())
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}

	if dentist, err := s.dentists.FindByID(ctx, appt.DentistID); err == nil {
		s.notifier.Notify(ctx, SendNotificationCommand{
			UserID:          dentist.UserID,
			Title:           "Lịch hẹn bị hủy",
			Message:         fmt.Sprintf("Lịch hẹn lúc %s ngày %s đã bị hủy", appt.AppointmentTime, appt.AppointmentDate.Format("02/01/2006")),
			Type:            models.NotificationAppointment,
			RelatedObjectID: &appt.ID,
		})
	}

	return result(messages.CancelSuccess, &appt.ID), nil
}

func (s *AppointmentService) UpdateStatus(ctx context.Context, cmd UpdateAppointmentStatusCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	appt, err := findLive[models.Appointment](ctx, s.appointments, cmd.ID, messages.AppointmentNotFound)
	if err != nil {
		return nil, err
	}
	if appt.Status == models.AppointmentCanceled {
		return nil, apperrors.Conflict(messages.InvalidStatus)
	}

	appt.Status = cmd.Status
	appt.MarkUpdated(p.UserID, s.now())
	if err := s.appointments.Update(ctx, appt); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &appt.ID), nil
}

// List bệnh nhân và nha sĩ chỉ thấy lịch hẹn của mình
func (s *AppointmentService) List(ctx context.Context, q ListAppointmentsQuery) (*PageResult[models.Appointment], error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	var filter repositories.AppointmentFilter
	switch p.Role {
	case models.RolePatient:
		patient, err := s.patients.FindByUserID(ctx, p.UserID)
		if err != nil {
			return nil, notFound(err, messages.PatientNotFound)
		}
		filter.PatientID = &patient.ID
	case models.RoleDentist:
		dentist, err := s.dentists.FindByUserID(ctx, p.UserID)
		if err != nil {
			return nil, notFound(err, messages.DentistNotFound)
		}
		filter.DentistID = &dentist.ID
	}
	if q.Date != "" {
		date, err := s.parseDate(q.Date)
		if err != nil {
			return nil, err
		}
		filter.Date = &date
	}
	if q.Status != "" {
		filter.Status = &q.Status
	}

	items, total, err := s.appointments.List(ctx, filter, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

func (s *AppointmentService) ListDentists(ctx context.Context, q ListDentistsQuery) (*PageResult[models.Dentist], error) {
	items, total, err := s.dentists.List(ctx, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

// RegisterAppointmentHandlers đăng ký handler lên mediator
func RegisterAppointmentHandlers(m *mediator.Mediator, s *AppointmentService) {
	mediator.Register[CreateAppointmentCommand, *MessageResult](m, mediator.HandlerFunc[CreateAppointmentCommand, *MessageResult](s.Create))
	mediator.Register[CancelAppointmentCommand, *MessageResult](m, mediator.HandlerFunc[CancelAppointmentCommand, *MessageResult](s.Cancel))
	mediator.Register[UpdateAppointmentStatusCommand, *MessageResult](m, mediator.HandlerFunc[UpdateAppointmentStatusCommand, *MessageResult](s.UpdateStatus))
	mediator.Register[ListAppointmentsQuery, *PageResult[models.Appointment]](m, mediator.HandlerFunc[ListAppointmentsQuery, *PageResult[models.Appointment]](s.List))
	mediator.Register[ListDentistsQuery, *PageResult[models.Dentist]](m, mediator.HandlerFunc[ListDentistsQuery, *PageResult[models.Dentist]](s.ListDentists))
}

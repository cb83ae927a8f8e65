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
	"gorm.io/datatypes"
)

// ===========================================================================
// Prescription Service
// Đơn thuốc và chỉ dẫn sau khám, mỗi lịch hẹn tối đa một đơn và một chỉ dẫn
// ===========================================================================

// CreatePrescriptionCommand nha sĩ kê đơn cho lịch hẹn
type CreatePrescriptionCommand struct {
	AppointmentID uuid.UUID         `json:"appointment_id" validate:"required"`
	Content       string            `json:"content" validate:"required"`
	Medicines     []models.Medicine `json:"medicines" validate:"dive"`
}

func (CreatePrescriptionCommand) AllowedRoles() []models.UserRole { return dentistOnly }

// UpdatePrescriptionCommand sửa đơn thuốc
type UpdatePrescriptionCommand struct {
	ID        uuid.UUID         `json:"-" validate:"required"`
	Content   string            `json:"content" validate:"required"`
	Medicines []models.Medicine `json:"medicines" validate:"dive"`
}

func (UpdatePrescriptionCommand) AllowedRoles() []models.UserRole { return dentistOnly }

// TogglePrescriptionCommand ẩn/hiện đơn thuốc
type TogglePrescriptionCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (TogglePrescriptionCommand) AllowedRoles() []models.UserRole { return dentistOnly }

// GetPrescriptionQuery đơn thuốc của một lịch hẹn
type GetPrescriptionQuery struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
}

func (GetPrescriptionQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// CreateInstructionTemplateCommand tạo mẫu chỉ dẫn
type CreateInstructionTemplateCommand struct {
	Name    string `json:"name" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

func (CreateInstructionTemplateCommand) AllowedRoles() []models.UserRole { return dentistAndAssistant }

// UpdateInstructionTemplateCommand sửa mẫu chỉ dẫn
type UpdateInstructionTemplateCommand struct {
	ID      uuid.UUID `json:"-" validate:"required"`
	Name    string    `json:"name" validate:"required,max=255"`
	Content string    `json:"content" validate:"required"`
}

func (UpdateInstructionTemplateCommand) AllowedRoles() []models.UserRole { return dentistAndAssistant }

// ToggleInstructionTemplateCommand ẩn/hiện mẫu chỉ dẫn
type ToggleInstructionTemplateCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ToggleInstructionTemplateCommand) AllowedRoles() []models.UserRole { return dentistAndAssistant }

// ListInstructionTemplatesQuery danh sách mẫu chỉ dẫn
type ListInstructionTemplatesQuery struct {
	ListParams
}

func (ListInstructionTemplatesQuery) AllowedRoles() []models.UserRole { return dentistAndAssistant }

// CreateInstructionCommand gửi chỉ dẫn cho bệnh nhân sau lịch hẹn
// Content trống thì lấy nội dung mẫu
type CreateInstructionCommand struct {
	AppointmentID uuid.UUID  `json:"appointment_id" validate:"required"`
	TemplateID    *uuid.UUID `json:"template_id"`
	Content       string     `json:"content"`
}

func (CreateInstructionCommand) AllowedRoles() []models.UserRole { return dentistAndAssistant }

func (c CreateInstructionCommand) Validate() error {
	if strings.TrimSpace(c.Content) == "" && c.TemplateID == nil {
		return apperrors.Invalid(messages.RequiredFields)
	}
	return nil
}

// GetInstructionQuery chỉ dẫn của một lịch hẹn
type GetInstructionQuery struct {
	AppointmentID uuid.UUID `json:"appointment_id" validate:"required"`
}

func (GetInstructionQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// PrescriptionService xử lý đơn thuốc và chỉ dẫn
type PrescriptionService struct {
	base
	prescriptions repositories.PrescriptionRepository
	templates     repositories.InstructionTemplateRepository
	instructions  repositories.InstructionRepository
	appointments  repositories.AppointmentRepository
	patients      repositories.PatientRepository
	dentists      repositories.DentistRepository
	notifier      *Notifier
}

// PrescriptionRepos các repository PrescriptionService cần
type PrescriptionRepos struct {
	Prescriptions repositories.PrescriptionRepository
	Templates     repositories.InstructionTemplateRepository
	Instructions  repositories.InstructionRepository
	Appointments  repositories.AppointmentRepository
	Patients      repositories.PatientRepository
	Dentists      repositories.DentistRepository
}

// NewPrescriptionService tạo PrescriptionService
func NewPrescriptionService(repos PrescriptionRepos, notifier *Notifier, logger *zap.Logger, loc *time.Location) *PrescriptionService {
	return &PrescriptionService{
		base:          newBase(logger, loc),
		prescriptions: repos.Prescriptions,
		templates:     repos.Templates,
		instructions:  repos.Instructions,
		appointments:  repos.Appointments,
		patients:      repos.Patients,
		dentists:      repos.Dentists,
		notifier:      notifier,
	}
}

func (s *PrescriptionService) CreatePrescription(ctx context.Context, cmd CreatePrescriptionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	dentist, err := s.dentists.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, messages.DentistNotFound)
	}
	appt, err := findLive[models.Appointment](ctx, s.appointments, cmd.AppointmentID, messages.AppointmentNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := s.prescriptions.FindByAppointment(ctx, appt.ID); err == nil {
		return nil, apperrors.Conflict(messages.PrescriptionExists)
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	pr := &models.Prescription{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DentistID:     dentist.ID,
		Content:       cmd.Content,
		Medicines:     datatypes.JSONSlice[models.Medicine](cmd.Medicines),
	}
	pr.MarkCreated(p.UserID, s.now())
	if err := s.prescriptions.Create(ctx, pr); err != nil {
		return nil, duplicate(err, messages.PrescriptionExists)
	}

	s.notifyPatient(ctx, appt.PatientID, SendNotificationCommand{
		Title:           "Đơn thuốc mới",
		Message:         "Nha sĩ đã kê đơn thuốc cho lịch hẹn của bạn",
		Type:            models.NotificationPrescription,
		RelatedObjectID: &appt.ID,
		MappingURL:      ptr("/appointments/" + appt.ID.String() + "/prescription"),
	})

	return result(messages.CreateSuccess, &pr.ID), nil
}

func (s *PrescriptionService) UpdatePrescription(ctx context.Context, cmd UpdatePrescriptionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	pr, err := findLive[models.Prescription](ctx, s.prescriptions, cmd.ID, messages.PrescriptionNotFound)
	if err != nil {
		return nil, err
	}
	pr.Content = cmd.Content
	pr.Medicines = datatypes.JSONSlice[models.Medicine](cmd.Medicines)
	pr.MarkUpdated(p.UserID, s.now())
	if err := s.prescriptions.Update(ctx, pr); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &pr.ID), nil
}

func (s *PrescriptionService) TogglePrescription(ctx context.Context, cmd TogglePrescriptionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	pr, err := s.prescriptions.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, notFound(err, messages.PrescriptionNotFound)
	}
	pr.ToggleDeleted(p.UserID, s.now())
	if err := s.prescriptions.Update(ctx, pr); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &pr.ID), nil
}

func (s *PrescriptionService) GetPrescription(ctx context.Context, q GetPrescriptionQuery) (*models.Prescription, error) {
	pr, err := s.prescriptions.FindByAppointment(ctx, q.AppointmentID)
	if err != nil {
		return nil, notFound(err, messages.PrescriptionNotFound)
	}
	if pr.IsDeleted {
		return nil, apperrors.NotFound(messages.PrescriptionNotFound)
	}
	if err := s.ensurePatientOwns(ctx, pr.PatientID); err != nil {
		return nil, err
	}
	return pr, nil
}

func (s *PrescriptionService) CreateTemplate(ctx context.Context, cmd CreateInstructionTemplateCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	tmpl := &models.InstructionTemplate{Name: cmd.Name, Content: cmd.Content}
	tmpl.MarkCreated(p.UserID, s.now())
	if err := s.templates.Create(ctx, tmpl); err != nil {
		return nil, err
	}
	return result(messages.CreateSuccess, &tmpl.ID), nil
}

func (s *PrescriptionService) UpdateTemplate(ctx context.Context, cmd UpdateInstructionTemplateCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	tmpl, err := findLive[models.InstructionTemplate](ctx, s.templates, cmd.ID, messages.InstructionTemplateNotFound)
	if err != nil {
		return nil, err
	}
	tmpl.Name = cmd.Name
	tmpl.Content = cmd.Content
	tmpl.MarkUpdated(p.UserID, s.now())
	if err := s.templates.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &tmpl.ID), nil
}

func (s *PrescriptionService) ToggleTemplate(ctx context.Context, cmd ToggleInstructionTemplateCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	tmpl, err := s.templates.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, notFound(err, messages.InstructionTemplateNotFound)
	}
	tmpl.ToggleDeleted(p.UserID, s.now())
	if err := s.templates.Update(ctx, tmpl); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &tmpl.ID), nil
}

func (s *PrescriptionService) ListTemplates(ctx context.Context, q ListInstructionTemplatesQuery) (*PageResult[models.InstructionTemplate], error) {
	items, total, err := s.templates.List(ctx, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

func (s *PrescriptionService) CreateInstruction(ctx context.Context, cmd CreateInstructionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	appt, err := findLive[models.Appointment](ctx, s.appointments, cmd.AppointmentID, messages.AppointmentNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := s.instructions.FindByAppointment(ctx, appt.ID); err == nil {
		return nil, apperrors.Conflict(messages.InstructionExists)
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	content := strings.TrimSpace(cmd.Content)
	if cmd.TemplateID != nil {
		tmpl, err := findLive[models.InstructionTemplate](ctx, s.templates, *cmd.TemplateID, messages.InstructionTemplateNotFound)
		if err != nil {
			return nil, err
		}
		if content == "" {
			content = tmpl.Content
		}
	}

	ins := &models.Instruction{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		TemplateID:    cmd.TemplateID,
		Content:       content,
	}
	ins.MarkCreated(p.UserID, s.now())
	if err := s.instructions.Create(ctx, ins); err != nil {
		return nil, duplicate(err, messages.InstructionExists)
	}

	s.notifyPatient(ctx, appt.PatientID, SendNotificationCommand{
		Title:           "Chỉ dẫn sau điều trị",
		Message:         "Bạn có chỉ dẫn mới cho lịch hẹn gần đây",
		Type:            models.NotificationTreatment,
		RelatedObjectID: &appt.ID,
		MappingURL:      ptr("/appointments/" + appt.ID.String() + "/instruction"),
	})

	return result(messages.CreateSuccess, &ins.ID), nil
}

func (s *PrescriptionService) GetInstruction(ctx context.Context, q GetInstructionQuery) (*models.Instruction, error) {
	ins, err := s.instructions.FindByAppointment(ctx, q.AppointmentID)
	if err != nil {
		return nil, notFound(err, messages.InstructionNotFound)
	}
	if ins.IsDeleted {
		return nil, apperrors.NotFound(messages.InstructionNotFound)
	}
	if err := s.ensurePatientOwns(ctx, ins.PatientID); err != nil {
		return nil, err
	}
	return ins, nil
}

// ensurePatientOwns bệnh nhân chỉ đọc được dữ liệu của mình
func (s *PrescriptionService) ensurePatientOwns(ctx context.Context, patientID uuid.UUID) error {
	p, err := actor(ctx)
	if err != nil {
		return err
	}
	if p.Role != models.RolePatient {
		return nil
	}
	patient, err := s.patients.FindByUserID(ctx, p.UserID)
	if err != nil {
		return notFound(err, messages.PatientNotFound)
	}
	if patient.ID != patientID {
		return apperrors.Forbidden(messages.NotOwnResource)
	}
	return nil
}

func (s *PrescriptionService) notifyPatient(ctx context.Context, patientID uuid.UUID, cmd SendNotificationCommand) {
	patient, err := s.patients.FindByID(ctx, patientID)
	if err != nil {
		s.logger.Debug("patient lookup for notification failed", zap.Error(err))
		return
	}
	cmd.UserID = patient.UserID
	s.notifier.Notify(ctx, cmd)
}

// RegisterPrescriptionHandlers đăng ký handler lên mediator
func RegisterPrescriptionHandlers(m *mediator.Mediator, s *PrescriptionService) {
	mediator.Register[CreatePrescriptionCommand, *MessageResult](m, mediator.HandlerFunc[CreatePrescriptionCommand, *MessageResult](s.CreatePrescription))
	mediator.Register[UpdatePrescriptionCommand, *MessageResult](m, mediator.HandlerFunc[UpdatePrescriptionCommand, *MessageResult](s.UpdatePrescription))
	mediator.Register[TogglePrescriptionCommand, *MessageResult](m, mediator.HandlerFunc[TogglePrescriptionCommand, *MessageResult](s.TogglePrescription))
	mediator.Register[GetPrescriptionQuery, *models.Prescription](m, mediator.HandlerFunc[GetPrescriptionQuery, *models.Prescription](s.GetPrescription))

	mediator.Register[CreateInstructionTemplateCommand, *MessageResult](m, mediator.HandlerFunc[CreateInstructionTemplateCommand, *MessageResult](s.CreateTemplate))
	mediator.Register[UpdateInstructionTemplateCommand, *MessageResult](m, mediator.HandlerFunc[UpdateInstructionTemplateCommand, *MessageResult](s.UpdateTemplate))
	mediator.Register[ToggleInstructionTemplateCommand, *MessageResult](m, mediator.HandlerFunc[ToggleInstructionTemplateCommand, *MessageResult](s.ToggleTemplate))
	mediator.Register[ListInstructionTemplatesQuery, *PageResult[models.InstructionTemplate]](m, mediator.HandlerFunc[ListInstructionTemplatesQuery, *PageResult[models.InstructionTemplate]](s.ListTemplates))

	mediator.Register[CreateInstructionCommand, *MessageResult](m, mediator.HandlerFunc[CreateInstructionCommand, *MessageResult](s.CreateInstruction))
	mediator.Register[GetInstructionQuery, *models.Instruction](m, mediator.HandlerFunc[GetInstructionQuery, *models.Instruction](s.GetInstruction))
}

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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ===========================================================================
// Treatment Service
// Hồ sơ điều trị, tiến trình điều trị và thẻ bảo hành
// ===========================================================================

var warrantyIssuers = []models.UserRole{models.RoleReceptionist, models.RoleAssistant}

// --- Treatment records ---

// CreateTreatmentRecordCommand nha sĩ lập hồ sơ điều trị cho một lịch hẹn
type CreateTreatmentRecordCommand struct {
	AppointmentID  uuid.UUID              `json:"appointment_id" validate:"required"`
	ProcedureID    uuid.UUID              `json:"procedure_id" validate:"required"`
	ToothPosition  *string                `json:"tooth_position" validate:"omitempty,max=50"`
	Quantity       int                    `json:"quantity"`
	UnitPrice      *decimal.Decimal       `json:"unit_price"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	TreatmentDate  string                 `json:"treatment_date"`
	Symptoms       *string                `json:"symptoms"`
	Diagnosis      *string                `json:"diagnosis"`
	Status         models.TreatmentStatus `json:"status"`
}

func (CreateTreatmentRecordCommand) AllowedRoles() []models.UserRole { return dentistOnly }

func (c CreateTreatmentRecordCommand) Validate() error {
	return validateTreatmentAmounts(c.Quantity, c.UnitPrice, c.DiscountAmount, c.Status)
}

// UpdateTreatmentRecordCommand sửa hồ sơ điều trị
type UpdateTreatmentRecordCommand struct {
	ID             uuid.UUID              `json:"-" validate:"required"`
	ToothPosition  *string                `json:"tooth_position" validate:"omitempty,max=50"`
	Quantity       int                    `json:"quantity"`
	UnitPrice      *decimal.Decimal       `json:"unit_price"`
	DiscountAmount decimal.Decimal        `json:"discount_amount"`
	Symptoms       *string                `json:"symptoms"`
	Diagnosis      *string                `json:"diagnosis"`
	Status         models.TreatmentStatus `json:"status"`
}

func (UpdateTreatmentRecordCommand) AllowedRoles() []models.UserRole { return dentistOnly }

func (c UpdateTreatmentRecordCommand) Validate() error {
	return validateTreatmentAmounts(c.Quantity, c.UnitPrice, c.DiscountAmount, c.Status)
}

func validateTreatmentAmounts(qty int, unit *decimal.Decimal, discount decimal.Decimal, status models.TreatmentStatus) error {
	if qty <= 0 {
		return apperrors.Invalid(messages.InvalidQuantity)
	}
	if unit != nil && unit.IsNegative() {
		return apperrors.Invalid(messages.InvalidPrice)
	}
	if discount.IsNegative() {
		return apperrors.Invalid(messages.InvalidAmount)
	}
	if status != "" && !status.IsValid() {
		return apperrors.Invalid(messages.InvalidStatus)
	}
	return nil
}

// ToggleTreatmentRecordCommand ẩn/hiện hồ sơ điều trị
type ToggleTreatmentRecordCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ToggleTreatmentRecordCommand) AllowedRoles() []models.UserRole { return dentistOnly }

// ListTreatmentRecordsQuery hồ sơ điều trị của một bệnh nhân
// Bệnh nhân gọi thì luôn lấy hồ sơ của chính mình
type ListTreatmentRecordsQuery struct {
	ListParams
	PatientID uuid.UUID `form:"-" json:"patient_id"`
}

func (ListTreatmentRecordsQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// --- Treatment progress ---

// CreateTreatmentProgressCommand ghi nhận một bước điều trị
type CreateTreatmentProgressCommand struct {
	TreatmentRecordID uuid.UUID             `json:"treatment_record_id" validate:"required"`
	ProgressName      string                `json:"progress_name" validate:"required,max=255"`
	ProgressContent   *string               `json:"progress_content"`
	Status            models.ProgressStatus `json:"status"`
	Duration          *int                  `json:"duration" validate:"omitempty,gte=0"`
	Description       *string               `json:"description"`
	ProgressAt        *time.Time            `json:"progress_at"`
}

func (CreateTreatmentProgressCommand) AllowedRoles() []models.UserRole { return dentistOnly }

func (c CreateTreatmentProgressCommand) Validate() error {
	if c.Status != "" && !c.Status.IsValid() {
		return apperrors.Invalid(messages.InvalidStatus)
	}
	return nil
}

// UpdateTreatmentProgressCommand sửa tiến trình điều trị
type UpdateTreatmentProgressCommand struct {
	ID              uuid.UUID             `json:"-" validate:"required"`
	ProgressName    string                `json:"progress_name" validate:"required,max=255"`
	ProgressContent *string               `json:"progress_content"`
	Status          models.ProgressStatus `json:"status" validate:"required"`
	Duration        *int                  `json:"duration" validate:"omitempty,gte=0"`
	Description     *string               `json:"description"`
}

func (UpdateTreatmentProgressCommand) AllowedRoles() []models.UserRole { return dentistAndAssistant }

func (c UpdateTreatmentProgressCommand) Validate() error {
	if !c.Status.IsValid() {
		return apperrors.Invalid(messages.InvalidStatus)
	}
	return nil
}

// ListTreatmentProgressQuery các bước điều trị của một hồ sơ
type ListTreatmentProgressQuery struct {
	TreatmentRecordID uuid.UUID `form:"-" json:"treatment_record_id" validate:"required"`
}

func (ListTreatmentProgressQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// --- Warranty cards ---

// CreateWarrantyCardCommand cấp thẻ bảo hành cho một hồ sơ điều trị
type CreateWarrantyCardCommand struct {
	TreatmentRecordID uuid.UUID `json:"treatment_record_id" validate:"required"`
	StartDate         string    `json:"start_date"`
	DurationMonths    int       `json:"duration_months"`
	Note              *string   `json:"note"`
}

func (CreateWarrantyCardCommand) AllowedRoles() []models.UserRole { return warrantyIssuers }

func (c CreateWarrantyCardCommand) Validate() error {
	if c.DurationMonths <= 0 {
		return apperrors.Invalid(messages.InvalidDuration)
	}
	return nil
}

// UpdateWarrantyCardCommand sửa thời hạn và ghi chú thẻ bảo hành
type UpdateWarrantyCardCommand struct {
	ID             uuid.UUID `json:"-" validate:"required"`
	StartDate      string    `json:"start_date" validate:"required"`
	DurationMonths int       `json:"duration_months"`
	Note           *string   `json:"note"`
}

func (UpdateWarrantyCardCommand) AllowedRoles() []models.UserRole { return warrantyIssuers }

func (c UpdateWarrantyCardCommand) Validate() error {
	if c.DurationMonths <= 0 {
		return apperrors.Invalid(messages.InvalidDuration)
	}
	return nil
}

// ToggleWarrantyCardCommand bật/tắt hiệu lực thẻ
type ToggleWarrantyCardCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ToggleWarrantyCardCommand) AllowedRoles() []models.UserRole { return warrantyIssuers }

// ListWarrantyCardsQuery danh sách thẻ bảo hành
type ListWarrantyCardsQuery struct {
	ListParams
	PatientID *uuid.UUID `form:"-" json:"patient_id"`
}

func (ListWarrantyCardsQuery) AllowedRoles() []models.UserRole { return staffAndPatient }

// TreatmentService xử lý hồ sơ, tiến trình điều trị và bảo hành
type TreatmentService struct {
	base
	records      repositories.TreatmentRecordRepository
	progresses   repositories.TreatmentProgressRepository
	warranties   repositories.WarrantyCardRepository
	appointments repositories.AppointmentRepository
	procedures   repositories.ProcedureRepository
	patients     repositories.PatientRepository
	dentists     repositories.DentistRepository
	notifier     *Notifier
}

// TreatmentRepos các repository TreatmentService cần
type TreatmentRepos struct {
	Records      repositories.TreatmentRecordRepository
	Progresses   repositories.TreatmentProgressRepository
	Warranties   repositories.WarrantyCardRepository
	Appointments repositories.AppointmentRepository
	Procedures   repositories.ProcedureRepository
	Patients     repositories.PatientRepository
	Dentists     repositories.DentistRepository
}

// NewTreatmentService tạo TreatmentService
func NewTreatmentService(repos TreatmentRepos, notifier *Notifier, logger *zap.Logger, loc *time.Location) *TreatmentService {
	return &TreatmentService{
		base:         newBase(logger, loc),
		records:      repos.Records,
		progresses:   repos.Progresses,
		warranties:   repos.Warranties,
		appointments: repos.Appointments,
		procedures:   repos.Procedures,
		patients:     repos.Patients,
		dentists:     repos.Dentists,
		notifier:     notifier,
	}
}

func (s *TreatmentService) CreateRecord(ctx context.Context, cmd CreateTreatmentRecordCommand) (*MessageResult, error) {
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
	proc, err := findLive[models.Procedure](ctx, s.procedures, cmd.ProcedureID, messages.ProcedureNotFound)
	if err != nil {
		return nil, err
	}

	treatedAt := s.now()
	if cmd.TreatmentDate != "" {
		if treatedAt, err = s.parseDate(cmd.TreatmentDate); err != nil {
			return nil, err
		}
	}

	status := cmd.Status
	if status == "" {
		status = models.TreatmentPlanned
	}
	unit := proc.Price
	if cmd.UnitPrice != nil {
		unit = *cmd.UnitPrice
	}

	record := &models.TreatmentRecord{
		AppointmentID:  appt.ID,
		PatientID:      appt.PatientID,
		DentistID:      dentist.ID,
		ProcedureID:    proc.ID,
		ToothPosition:  cmd.ToothPosition,
		Quantity:       cmd.Quantity,
		UnitPrice:      unit,
		DiscountAmount: cmd.DiscountAmount,
		TreatmentDate:  treatedAt,
		Symptoms:       cmd.Symptoms,
		Diagnosis:      cmd.Diagnosis,
		Status:         status,
	}
	record.RecalculateTotal()
	record.MarkCreated(p.UserID, s.now())
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	return result(messages.CreateSuccess, &record.ID), nil
}

func (s *TreatmentService) UpdateRecord(ctx context.Context, cmd UpdateTreatmentRecordCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	record, err := findLive[models.TreatmentRecord](ctx, s.records, cmd.ID, messages.TreatmentRecordNotFound)
	if err != nil {
		return nil, err
	}

	record.ToothPosition = cmd.ToothPosition
	record.Quantity = cmd.Quantity
	if cmd.UnitPrice != nil {
		record.UnitPrice = *cmd.UnitPrice
	}
	record.DiscountAmount = cmd.DiscountAmount
	record.Symptoms = cmd.Symptoms
	record.Diagnosis = cmd.Diagnosis
	if cmd.Status != "" {
		record.Status = cmd.Status
	}
	record.RecalculateTotal()
	record.MarkUpdated(p.UserID, s.now())
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &record.ID), nil
}

func (s *TreatmentService) ToggleRecord(ctx context.Context, cmd ToggleTreatmentRecordCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	record, err := s.records.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, notFound(err, messages.TreatmentRecordNotFound)
	}
	record.ToggleDeleted(p.UserID, s.now())
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &record.ID), nil
}

func (s *TreatmentService) ListRecords(ctx context.Context, q ListTreatmentRecordsQuery) (*PageResult[models.TreatmentRecord], error) {
	patientID, err := s.scopePatient(ctx, q.PatientID)
	if err != nil {
		return nil, err
	}
	items, total, err := s.records.ListByPatient(ctx, patientID, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

func (s *TreatmentService) CreateProgress(ctx context.Context, cmd CreateTreatmentProgressCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	dentist, err := s.dentists.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, messages.DentistNotFound)
	}
	record, err := findLive[models.TreatmentRecord](ctx, s.records, cmd.TreatmentRecordID, messages.TreatmentRecordNotFound)
	if err != nil {
		return nil, err
	}

	status := cmd.Status
	if status == "" {
		status = models.ProgressPending
	}
	at := s.now()
	if cmd.ProgressAt != nil {
		at = *cmd.ProgressAt
	}

	progress := &models.TreatmentProgress{
		TreatmentRecordID: record.ID,
		PatientID:         record.PatientID,
		DentistID:         dentist.ID,
		ProgressName:      cmd.ProgressName,
		ProgressContent:   cmd.ProgressContent,
		Status:            status,
		Duration:          cmd.Duration,
		Description:       cmd.Description,
		ProgressAt:        at,
	}
	progress.MarkCreated(p.UserID, s.now())
	if err := s.progresses.Create(ctx, progress); err != nil {
		return nil, err
	}

	if patient, err := s.patients.FindByID(ctx, record.PatientID); err == nil {
		s.notifier.Notify(ctx, SendNotificationCommand{
			UserID:          patient.UserID,
			Title:           "Cập nhật tiến trình điều trị",
			Message:         fmt.Sprintf("Tiến trình \"%s\" đã được ghi nhận", progress.ProgressName),
			Type:            models.NotificationTreatment,
			RelatedObjectID: &record.ID,
			MappingURL:      ptr("/treatment-records/" + record.ID.String()),
		})
	}

	return result(messages.CreateSuccess, &progress.ID), nil
}

func (s *TreatmentService) UpdateProgress(ctx context.Context, cmd UpdateTreatmentProgressCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := findLive[models.TreatmentProgress](ctx, s.progresses, cmd.ID, messages.TreatmentProgressNotFound)
	if err != nil {
		return nil, err
	}

	progress.ProgressName = cmd.ProgressName
	progress.ProgressContent = cmd.ProgressContent
	progress.Status = cmd.Status
	progress.Duration = cmd.Duration
	progress.Description = cmd.Description
	progress.MarkUpdated(p.UserID, s.now())
	if err := s.progresses.Update(ctx, progress); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &progress.ID), nil
}

func (s *TreatmentService) ListProgress(ctx context.Context, q ListTreatmentProgressQuery) ([]models.TreatmentProgress, error) {
	record, err := findLive[models.TreatmentRecord](ctx, s.records, q.TreatmentRecordID, messages.TreatmentRecordNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := s.scopePatient(ctx, record.PatientID); err != nil {
		return nil, err
	}
	items, err := s.progresses.ListByRecord(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.TreatmentProgress{}
	}
	return items, nil
}

func (s *TreatmentService) CreateWarranty(ctx context.Context, cmd CreateWarrantyCardCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	record, err := findLive[models.TreatmentRecord](ctx, s.records, cmd.TreatmentRecordID, messages.TreatmentRecordNotFound)
	if err != nil {
		return nil, err
	}
	if _, err := s.warranties.FindByTreatmentRecord(ctx, record.ID); err == nil {
		return nil, apperrors.Conflict(messages.WarrantyExists)
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	start, err := s.optionalDate(cmd.StartDate)
	if err != nil {
		return nil, err
	}

	card := &models.WarrantyCard{
		TreatmentRecordID: record.ID,
		ProcedureID:       record.ProcedureID,
		PatientID:         record.PatientID,
		Note:              cmd.Note,
		IsActive:          true,
	}
	card.SetDuration(start, cmd.DurationMonths)
	card.MarkCreated(p.UserID, s.now())
	if err := s.warranties.Create(ctx, card); err != nil {
		return nil, duplicate(err, messages.WarrantyExists)
	}
	return result(messages.CreateSuccess, &card.ID), nil
}

func (s *TreatmentService) UpdateWarranty(ctx context.Context, cmd UpdateWarrantyCardCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	card, err := findLive[models.WarrantyCard](ctx, s.warranties, cmd.ID, messages.WarrantyNotFound)
	if err != nil {
		return nil, err
	}
	start, err := s.parseDate(cmd.StartDate)
	if err != nil {
		return nil, err
	}

	card.SetDuration(start, cmd.DurationMonths)
	card.Note = cmd.Note
	card.MarkUpdated(p.UserID, s.now())
	if err := s.warranties.Update(ctx, card); err != nil {
		return nil, err
	}
	return result(messages.UpdateSuccess, &card.ID), nil
}

func (s *TreatmentService) ToggleWarranty(ctx context.Context, cmd ToggleWarrantyCardCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	card, err := findLive[models.WarrantyCard](ctx, s.warranties, cmd.ID, messages.WarrantyNotFound)
	if err != nil {
		return nil, err
	}
	card.ToggleActive(p.UserID, s.now())
	if err := s.warranties.Update(ctx, card); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &card.ID), nil
}

func (s *TreatmentService) ListWarranties(ctx context.Context, q ListWarrantyCardsQuery) (*PageResult[models.WarrantyCard], error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	patientID := q.PatientID
	if p.Role == models.RolePatient {
		patient, err := s.patients.FindByUserID(ctx, p.UserID)
		if err != nil {
			return nil, notFound(err, messages.PatientNotFound)
		}
		patientID = &patient.ID
	}
	items, total, err := s.warranties.List(ctx, patientID, q.options())
	if err != nil {
		return nil, err
	}
	today := s.today()
	for i := range items {
		items[i].Expired = items[i].IsExpired(today)
	}
	return newPage(q.ListParams, items, total), nil
}

// scopePatient bệnh nhân chỉ được xem dữ liệu của chính mình
// Nhân sự phải chỉ rõ bệnh nhân cần xem
func (s *TreatmentService) scopePatient(ctx context.Context, requested uuid.UUID) (uuid.UUID, error) {
	p, err := actor(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if p.Role != models.RolePatient {
		if requested == uuid.Nil {
			return uuid.Nil, apperrors.Invalid(messages.RequiredFields)
		}
		return requested, nil
	}

	patient, err := s.patients.FindByUserID(ctx, p.UserID)
	if err != nil {
		return uuid.Nil, notFound(err, messages.PatientNotFound)
	}
	if requested != uuid.Nil && requested != patient.ID {
		return uuid.Nil, apperrors.Forbidden(messages.NotOwnResource)
	}
	return patient.ID, nil
}

// RegisterTreatmentHandlers đăng ký handler lên mediator
func RegisterTreatmentHandlers(m *mediator.Mediator, s *TreatmentService) {
	mediator.Register[CreateTreatmentRecordCommand, *MessageResult](m, mediator.HandlerFunc[CreateTreatmentRecordCommand, *MessageResult](s.CreateRecord))
	mediator.Register[UpdateTreatmentRecordCommand, *MessageResult](m, mediator.HandlerFunc[UpdateTreatmentRecordCommand, *MessageResult](s.UpdateRecord))
	mediator.Register[ToggleTreatmentRecordCommand, *MessageResult](m, mediator.HandlerFunc[ToggleTreatmentRecordCommand, *MessageResult](s.ToggleRecord))
	mediator.Register[ListTreatmentRecordsQuery, *PageResult[models.TreatmentRecord]](m, mediator.HandlerFunc[ListTreatmentRecordsQuery, *PageResult[models.TreatmentRecord]](s.ListRecords))

	mediator.Register[CreateTreatmentProgressCommand, *MessageResult](m, mediator.HandlerFunc[CreateTreatmentProgressCommand, *MessageResult](s.CreateProgress))
	mediator.Register[UpdateTreatmentProgressCommand, *MessageResult](m, mediator.HandlerFunc[UpdateTreatmentProgressCommand, *MessageResult](s.UpdateProgress))
	mediator.Register[ListTreatmentProgressQuery, []models.TreatmentProgress](m, mediator.HandlerFunc[ListTreatmentProgressQuery, []models.TreatmentProgress](s.ListProgress))

	mediator.Register[CreateWarrantyCardCommand, *MessageResult](m, mediator.HandlerFunc[CreateWarrantyCardCommand, *MessageResult](s.CreateWarranty))
	mediator.Register[UpdateWarrantyCardCommand, *MessageResult](m, mediator.HandlerFunc[UpdateWarrantyCardCommand, *MessageResult](s.UpdateWarranty))
	mediator.Register[ToggleWarrantyCardCommand, *MessageResult](m, mediator.HandlerFunc[ToggleWarrantyCardCommand, *MessageResult](s.ToggleWarranty))
	mediator.Register[ListWarrantyCardsQuery, *PageResult[models.WarrantyCard]](m, mediator.HandlerFunc[ListWarrantyCardsQuery, *PageResult[models.WarrantyCard]](s.ListWarranties))
}

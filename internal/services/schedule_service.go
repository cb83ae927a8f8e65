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
// Schedule Service
// Nha sĩ đăng ký lịch làm việc, chủ phòng khám duyệt hoặc từ chối
// ===========================================================================

// CreateScheduleCommand nha sĩ đăng ký một ca làm việc
type CreateScheduleCommand struct {
	WorkDate string       `json:"work_date" validate:"required"`
	Shift    models.Shift `json:"shift" validate:"required"`
	Note     *string      `json:"note"`
}

func (CreateScheduleCommand) AllowedRoles() []models.UserRole { return dentistOnly }

// Validate kiểm tra ca làm việc
func (c CreateScheduleCommand) Validate() error {
	if !c.Shift.IsValid() {
		return apperrors.Invalid(messages.InvalidShift)
	}
	return nil
}

// ApproveScheduleCommand chủ phòng khám duyệt/từ chối lịch
type ApproveScheduleCommand struct {
	ID     uuid.UUID             `json:"-" validate:"required"`
	Status models.ScheduleStatus `json:"status" validate:"required,oneof=approved rejected"`
}

func (ApproveScheduleCommand) AllowedRoles() []models.UserRole { return ownerOnly }

// CancelScheduleCommand nha sĩ hủy lịch đang chờ duyệt của mình
type CancelScheduleCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (CancelScheduleCommand) AllowedRoles() []models.UserRole { return dentistOnly }

// ListSchedulesQuery danh sách lịch làm việc, nha sĩ chỉ thấy lịch của mình
type ListSchedulesQuery struct {
	ListParams
}

func (ListSchedulesQuery) AllowedRoles() []models.UserRole { return staffRoles }

// ScheduleService xử lý lịch làm việc
type ScheduleService struct {
	base
	schedules repositories.ScheduleRepository
	dentists  repositories.DentistRepository
	notifier  *Notifier
}

// NewScheduleService tạo ScheduleService
func NewScheduleService(
	schedules repositories.ScheduleRepository,
	dentists repositories.DentistRepository,
	notifier *Notifier,
	logger *zap.Logger,
	loc *time.Location,
) *ScheduleService {
	return &ScheduleService{
		base:      newBase(logger, loc),
		schedules: schedules,
		dentists:  dentists,
		notifier:  notifier,
	}
}

func (s *ScheduleService) Create(ctx context.Context, cmd CreateScheduleCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	dentist, err := s.dentists.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, messages.DentistNotFound)
	}

	workDate, err := s.parseDate(cmd.WorkDate)
	if err != nil {
		return nil, err
	}
	if workDate.Before(s.today()) {
		return nil, apperrors.Invalid(messages.DateInPast)
	}

	exists, err := s.schedules.ExistsForShift(ctx, dentist.ID, workDate, cmd.Shift)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.Conflict(messages.ScheduleExists)
	}

	schedule := &models.Schedule{
		DentistID: dentist.ID,
		WorkDate:  workDate,
		Shift:     cmd.Shift,
		Status:    models.ScheduleStatusPending,
		Note:      cmd.Note,
	}
	schedule.MarkCreated(p.UserID, s.now())

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, duplicate(err, messages.ScheduleExists)
	}

	s.notifier.NotifyRoles(ctx, ownerOnly, SendNotificationCommand{
		Title:           "Lịch làm việc mới",
		Message:         fmt.Sprintf("Nha sĩ %s đăng ký ca %s ngày %s", dentist.User.FullName, shiftLabel(cmd.Shift), workDate.Format("02/01/2006")),
		Type:            models.NotificationSchedule,
		RelatedObjectID: &schedule.ID,
		MappingURL:      ptr("/schedules"),
	})

	return result(messages.CreateSuccess, &schedule.ID), nil
}

func (s *ScheduleService) Approve(ctx context.Context, cmd ApproveScheduleCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	schedule, err := findLive[models.Schedule](ctx, s.schedules, cmd.ID, messages.ScheduleNotFound)
	if err != nil {
		return nil, err
	}
	if !schedule.IsPending() {
		return nil, apperrors.Conflict(messages.ScheduleNotPending)
	}

	schedule.Status = cmd.Status
	schedule.MarkUpdated(p.UserID, s.now())
	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}

	code, verdict := messages.ApproveSuccess, "đã được duyệt"
	if cmd.Status == models.ScheduleStatusRejected {
		code, verdict = messages.RejectSuccess, "bị từ chối"
	}

	if dentist, err := s.dentists.FindByID(ctx, schedule.DentistID); err == nil {
		s.notifier.Notify(ctx, SendNotificationCommand{
			UserID:          dentist.UserID,
			Title:           "Cập nhật lịch làm việc",
			Message:         fmt.Sprintf("Lịch ca %s ngày %s %s", shiftLabel(schedule.Shift), schedule.WorkDate.Format("02/01/2006"), verdict),
			Type:            models.NotificationSchedule,
			RelatedObjectID: &schedule.ID,
			MappingURL:      ptr("/schedules"),
		})
	}

	return result(code, &schedule.ID), nil
}

// Cancel xóa mềm lịch, chỉ nha sĩ tạo lịch được hủy và chỉ khi còn chờ duyệt
func (s *ScheduleService) Cancel(ctx context.Context, cmd CancelScheduleCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	dentist, err := s.dentists.FindByUserID(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, messages.DentistNotFound)
	}
	schedule, err := findLive[models.Schedule](ctx, s.schedules, cmd.ID, messages.ScheduleNotFound)
	if err != nil {
		return nil, err
	}
	if schedule.DentistID != dentist.ID {
		return nil, apperrors.Forbidden(messages.NotScheduleOwner)
	}
	if !schedule.IsPending() {
		return nil, apperrors.Conflict(messages.ScheduleNotPending)
	}

	schedule.IsDeleted = true
	schedule.MarkUpdated(p.UserID, s.now())
	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}
	return result(messages.CancelSuccess, &schedule.ID), nil
}

func (s *ScheduleService) List(ctx context.Context, q ListSchedulesQuery) (*PageResult[models.Schedule], error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}

	var dentistID *uuid.UUID
	if p.Role == models.RoleDentist {
		dentist, err := s.dentists.FindByUserID(ctx, p.UserID)
		if err != nil {
			return nil, notFound(err, messages.DentistNotFound)
		}
		dentistID = &dentist.ID
	}

	items, total, err := s.schedules.List(ctx, dentistID, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

func shiftLabel(s models.Shift) string {
	switch s {
	case models.ShiftMorning:
		return "sáng"
	case models.ShiftAfternoon:
		return "chiều"
	case models.ShiftEvening:
		return "tối"
	}
	return string(s)
}

// RegisterScheduleHandlers đăng ký handler lên mediator
func RegisterScheduleHandlers(m *mediator.Mediator, s *ScheduleService) {
	mediator.Register[CreateScheduleCommand, *MessageResult](m, mediator.HandlerFunc[CreateScheduleCommand, *MessageResult](s.Create))
	mediator.Register[ApproveScheduleCommand, *MessageResult](m, mediator.HandlerFunc[ApproveScheduleCommand, *MessageResult](s.Approve))
	mediator.Register[CancelScheduleCommand, *MessageResult](m, mediator.HandlerFunc[CancelScheduleCommand, *MessageResult](s.Cancel))
	mediator.Register[ListSchedulesQuery, *PageResult[models.Schedule]](m, mediator.HandlerFunc[ListSchedulesQuery, *PageResult[models.Schedule]](s.List))
}

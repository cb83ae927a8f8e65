package repositories

import (
	"context"
	"time"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Schedule & Appointment Repository Implementation
// ===========================================================================

type scheduleRepo struct {
	baseRepo[models.Schedule]
}

// NewScheduleRepository tạo schedule repository mới
func NewScheduleRepository(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{baseRepo[models.Schedule]{db: db}}
}

func (r *scheduleRepo) ExistsForShift(ctx context.Context, dentistID uuid.UUID, workDate time.Time, shift models.Shift) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("dentist_id = ? AND work_date = ? AND shift = ?", dentistID, workDate, shift).
		Where("is_deleted = ? AND status <> ?", false, models.ScheduleStatusRejected).
		Count(&count).Error
	return count > 0, translateError(err)
}

func (r *scheduleRepo) List(ctx context.Context, dentistID *uuid.UUID, opts FindOptions) ([]models.Schedule, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Schedule{})
	if dentistID != nil {
		query = query.Where("dentist_id = ?", *dentistID)
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "work_date"
	}
	return paginate[models.Schedule](query, opts, "Dentist.User")
}

type appointmentRepo struct {
	baseRepo[models.Appointment]
}

// NewAppointmentRepository tạo appointment repository mới
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepo{baseRepo[models.Appointment]{db: db}}
}

func (r *appointmentRepo) List(ctx context.Context, filter AppointmentFilter, opts FindOptions) ([]models.Appointment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{})

	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.DentistID != nil {
		query = query.Where("dentist_id = ?", *filter.DentistID)
	}
	if filter.Date != nil {
		query = query.Where("appointment_date = ?", *filter.Date)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "appointment_date"
	}
	return paginate[models.Appointment](query, opts, "Patient.User", "Dentist.User")
}

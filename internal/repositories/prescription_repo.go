package repositories

import (
	"context"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Prescription, InstructionTemplate & Instruction Repository Implementation
// ===========================================================================

type prescriptionRepo struct {
	baseRepo[models.Prescription]
}

// NewPrescriptionRepository tạo prescription repository mới
func NewPrescriptionRepository(db *gorm.DB) PrescriptionRepository {
	return &prescriptionRepo{baseRepo[models.Prescription]{db: db}}
}

// FindByAppointment tìm đơn thuốc của lịch hẹn (kể cả đơn đã xóa mềm)
func (r *prescriptionRepo) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*models.Prescription, error) {
	return findOne[models.Prescription](r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID))
}

type instructionTemplateRepo struct {
	baseRepo[models.InstructionTemplate]
}

// NewInstructionTemplateRepository tạo instruction template repository mới
func NewInstructionTemplateRepository(db *gorm.DB) InstructionTemplateRepository {
	return &instructionTemplateRepo{baseRepo[models.InstructionTemplate]{db: db}}
}

func (r *instructionTemplateRepo) List(ctx context.Context, opts FindOptions) ([]models.InstructionTemplate, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InstructionTemplate{})
	if opts.Search != "" {
		query = query.Where("name ILIKE ?", "%"+opts.Search+"%")
	}
	return paginate[models.InstructionTemplate](query, opts)
}

type instructionRepo struct {
	baseRepo[models.Instruction]
}

// NewInstructionRepository tạo instruction repository mới
func NewInstructionRepository(db *gorm.DB) InstructionRepository {
	return &instructionRepo{baseRepo[models.Instruction]{db: db}}
}

func (r *instructionRepo) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*models.Instruction, error) {
	return findOne[models.Instruction](r.db.WithContext(ctx).Where("appointment_id = ?", appointmentID))
}

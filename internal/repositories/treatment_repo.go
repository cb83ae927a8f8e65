package repositories

import (
	"context"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// TreatmentRecord, TreatmentProgress & WarrantyCard Repository Implementation
// ===========================================================================

type treatmentRecordRepo struct {
	baseRepo[models.TreatmentRecord]
}

// NewTreatmentRecordRepository tạo treatment record repository mới
func NewTreatmentRecordRepository(db *gorm.DB) TreatmentRecordRepository {
	return &treatmentRecordRepo{baseRepo[models.TreatmentRecord]{db: db}}
}

func (r *treatmentRecordRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, opts FindOptions) ([]models.TreatmentRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TreatmentRecord{}).
		Where("patient_id = ?", patientID)
	if opts.OrderBy == "" {
		opts.OrderBy = "treatment_date"
	}
	return paginate[models.TreatmentRecord](query, opts, "Procedure")
}

type treatmentProgressRepo struct {
	baseRepo[models.TreatmentProgress]
}

// NewTreatmentProgressRepository tạo treatment progress repository mới
func NewTreatmentProgressRepository(db *gorm.DB) TreatmentProgressRepository {
	return &treatmentProgressRepo{baseRepo[models.TreatmentProgress]{db: db}}
}

func (r *treatmentProgressRepo) ListByRecord(ctx context.Context, recordID uuid.UUID) ([]models.TreatmentProgress, error) {
	var items []models.TreatmentProgress
	err := r.db.WithContext(ctx).
		Where("treatment_record_id = ? AND is_deleted = ?", recordID, false).
		Order("progress_at ASC").
		Find(&items).Error
	return items, translateError(err)
}

type warrantyCardRepo struct {
	baseRepo[models.WarrantyCard]
}

// NewWarrantyCardRepository tạo warranty card repository mới
func NewWarrantyCardRepository(db *gorm.DB) WarrantyCardRepository {
	return &warrantyCardRepo{baseRepo[models.WarrantyCard]{db: db}}
}

func (r *warrantyCardRepo) FindByTreatmentRecord(ctx context.Context, recordID uuid.UUID) (*models.WarrantyCard, error) {
	return findOne[models.WarrantyCard](r.db.WithContext(ctx).Where("treatment_record_id = ?", recordID))
}

func (r *warrantyCardRepo) List(ctx context.Context, patientID *uuid.UUID, opts FindOptions) ([]models.WarrantyCard, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WarrantyCard{})
	if patientID != nil {
		query = query.Where("patient_id = ?", *patientID)
	}
	return paginate[models.WarrantyCard](query, opts, "Procedure")
}

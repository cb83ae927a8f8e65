package repositories

import (
	"context"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Patient & Dentist Repository Implementation
// ===========================================================================

type patientRepo struct {
	baseRepo[models.Patient]
}

// NewPatientRepository tạo patient repository mới
func NewPatientRepository(db *gorm.DB) PatientRepository {
	return &patientRepo{baseRepo[models.Patient]{db: db}}
}

// FindByID tìm bệnh nhân kèm thông tin tài khoản
func (r *patientRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Patient, error) {
	return findOne[models.Patient](r.db.WithContext(ctx).Preload("User").Where("id = ?", id))
}

func (r *patientRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Patient, error) {
	return findOne[models.Patient](r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID))
}

func (r *patientRepo) List(ctx context.Context, opts FindOptions) ([]models.Patient, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Patient{})
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("user_id IN (?)",
			r.db.Model(&models.User{}).Select("id").Where("full_name ILIKE ? OR phone LIKE ?", like, like),
		)
	}
	return paginate[models.Patient](query, opts, "User")
}

// CreateWithUser tạo tài khoản (patient.User) rồi tới hồ sơ bệnh nhân
func (r *patientRepo) CreateWithUser(ctx context.Context, patient *models.Patient) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&patient.User).Error; err != nil {
			return err
		}
		patient.UserID = patient.User.ID
		return tx.Omit("User").Create(patient).Error
	}))
}

func (r *patientRepo) UpdateWithUser(ctx context.Context, patient *models.Patient) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&patient.User).Error; err != nil {
			return err
		}
		return tx.Omit("User").Save(patient).Error
	}))
}

type dentistRepo struct {
	baseRepo[models.Dentist]
}

// NewDentistRepository tạo dentist repository mới
func NewDentistRepository(db *gorm.DB) DentistRepository {
	return &dentistRepo{baseRepo[models.Dentist]{db: db}}
}

func (r *dentistRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Dentist, error) {
	return findOne[models.Dentist](r.db.WithContext(ctx).Preload("User").Where("id = ?", id))
}

func (r *dentistRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Dentist, error) {
	return findOne[models.Dentist](r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID))
}

func (r *dentistRepo) List(ctx context.Context, opts FindOptions) ([]models.Dentist, int64, error) {
	return paginate[models.Dentist](r.db.WithContext(ctx).Model(&models.Dentist{}), opts, "User")
}

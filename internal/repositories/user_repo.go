package repositories

import (
	"context"

	"dentalclinic/internal/models"

	"gorm.io/gorm"
)

// ===========================================================================
// User Repository Implementation
// (interface defined in interfaces.go)
// ===========================================================================

type userRepo struct {
	baseRepo[models.User]
}

// NewUserRepository tạo user repository mới
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{baseRepo[models.User]{db: db}}
}

// FindByEmail tìm user theo email (cho login)
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](r.db.WithContext(ctx).Where("email = ?", email))
}

// FindByPhone tìm user theo số điện thoại (cho login và kiểm tra trùng)
func (r *userRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return findOne[models.User](r.db.WithContext(ctx).Where("phone = ?", phone))
}

func (r *userRepo) List(ctx context.Context, role *models.UserRole, opts FindOptions) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("full_name ILIKE ? OR phone LIKE ? OR email ILIKE ?", like, like, like)
	}
	return paginate[models.User](query, opts)
}

func (r *userRepo) FindActiveByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role IN ? AND is_active = ? AND is_deleted = ?", roles, true, false).
		Find(&users).Error
	return users, translateError(err)
}

// CreateStaff tạo user và hồ sơ Dentist/Assistant/Receptionist tương ứng
// Administrator và Owner không có bảng hồ sơ riêng
func (r *userRepo) CreateStaff(ctx context.Context, user *models.User, dentist *models.Dentist) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		var profile interface{}
		switch user.Role {
		case models.RoleDentist:
			if dentist == nil {
				dentist = &models.Dentist{}
			}
			dentist.UserID = user.ID
			dentist.CreatedBy = user.CreatedBy
			profile = dentist
		case models.RoleAssistant:
			profile = &models.Assistant{UserID: user.ID, BaseModel: models.BaseModel{CreatedBy: user.CreatedBy}}
		case models.RoleReceptionist:
			profile = &models.Receptionist{UserID: user.ID, BaseModel: models.BaseModel{CreatedBy: user.CreatedBy}}
		default:
			return nil
		}
		return tx.Create(profile).Error
	}))
}

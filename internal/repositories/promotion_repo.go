package repositories

import (
	"context"
	"time"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type promotionRepo struct {
	baseRepo[models.Promotion]
}

// NewPromotionRepository tạo promotion repository mới
func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepo{baseRepo[models.Promotion]{db: db}}
}

func (r *promotionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	return findOne[models.Promotion](r.db.WithContext(ctx).Preload("Procedures").Where("id = ?", id))
}

func (r *promotionRepo) List(ctx context.Context, activeOnly bool, opts FindOptions) ([]models.Promotion, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Promotion{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "start_date"
	}
	return paginate[models.Promotion](query, opts, "Procedures")
}

// DeactivateExpired chạy lại nhiều lần vẫn cho cùng kết quả
func (r *promotionRepo) DeactivateExpired(ctx context.Context, today time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Promotion{}).
		Where("is_active = ? AND end_date < ?", true, today).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, translateError(result.Error)
}

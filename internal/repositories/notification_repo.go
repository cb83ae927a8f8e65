package repositories

import (
	"context"
	"time"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Notification Repository Implementation
// ===========================================================================

type notificationRepo struct {
	baseRepo[models.Notification]
}

// NewNotificationRepository tạo notification repository mới
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{baseRepo[models.Notification]{db: db}}
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, opts FindOptions) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	opts.OrderBy, opts.OrderDir = "sent_at", "desc"
	return paginate[models.Notification](query, opts)
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false).
		Count(&count).Error
	return count, translateError(err)
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"read_at":    at,
			"updated_at": at,
		})
	return result.RowsAffected, translateError(result.Error)
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Notification (Thông báo)
// Lưu DB và đẩy realtime tới user nếu đang online
// ===========================================================================

// NotificationType loại thông báo
type NotificationType string

const (
	NotificationInfo         NotificationType = "info"
	NotificationSchedule     NotificationType = "schedule"
	NotificationAppointment  NotificationType = "appointment"
	NotificationTreatment    NotificationType = "treatment"
	NotificationPrescription NotificationType = "prescription"
	NotificationPromotion    NotificationType = "promotion"
	NotificationFinance      NotificationType = "finance"
	NotificationSystem       NotificationType = "system"
)

// IsValid kiểm tra loại thông báo có nằm trong danh sách không
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationInfo, NotificationSchedule, NotificationAppointment, NotificationTreatment,
		NotificationPrescription, NotificationPromotion, NotificationFinance, NotificationSystem:
		return true
	}
	return false
}

// Notification thông báo gửi tới một user
type Notification struct {
	BaseModel

	// UserID người nhận
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title   string           `gorm:"size:255;not null" json:"title"`
	Message string           `gorm:"type:text;not null" json:"message"`
	Type    NotificationType `gorm:"size:30;not null;default:'info'" json:"type"`

	// SentAt thời điểm server tạo thông báo
	SentAt time.Time `gorm:"not null" json:"sent_at"`

	IsRead bool       `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	// RelatedObjectID đối tượng liên quan (lịch, lịch hẹn...)
	RelatedObjectID *uuid.UUID `gorm:"type:uuid" json:"related_object_id,omitempty"`

	// MappingURL đường dẫn FE mở khi bấm vào thông báo
	MappingURL *string `gorm:"size:500" json:"mapping_url,omitempty"`
}

// TableName trả về tên bảng
func (Notification) TableName() string {
	return "notifications"
}

// MarkRead đánh dấu đã đọc
func (n *Notification) MarkRead(now time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &now
}

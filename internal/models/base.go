package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// BaseModel là struct cơ sở cho tất cả các models
// Chứa các trường chung: ID, audit (người tạo/cập nhật) và cờ xóa mềm
// ===========================================================================

// BaseModel chứa các trường chung cho tất cả models
//
// Xóa mềm dùng cờ IsDeleted thay vì gorm.DeletedAt vì nghiệp vụ cần bật/tắt
// qua lại (active <-> deleted) và vẫn phải đọc được record đã xóa.
type BaseModel struct {
	// ID là primary key dạng UUID, tự động generate nếu không có
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`

	// CreatedAt thời điểm tạo record
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`

	// CreatedBy người tạo
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`

	// UpdatedAt thời điểm cập nhật gần nhất
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	// UpdatedBy người cập nhật gần nhất
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`

	// IsDeleted cờ xóa mềm
	IsDeleted bool `gorm:"not null;default:false;index" json:"is_deleted"`
}

// BeforeCreate hook chạy trước khi insert record
// Tự động generate UUID nếu chưa có
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// GetID trả về ID của model
func (b *BaseModel) GetID() uuid.UUID {
	return b.ID
}

// Deleted record đã bị xóa mềm chưa
func (b *BaseModel) Deleted() bool {
	return b.IsDeleted
}

// MarkCreated ghi nhận người tạo
func (b *BaseModel) MarkCreated(actor uuid.UUID, now time.Time) {
	b.CreatedAt = now
	b.UpdatedAt = now
	b.CreatedBy = &actor
}

// MarkUpdated ghi nhận người cập nhật
func (b *BaseModel) MarkUpdated(actor uuid.UUID, now time.Time) {
	b.UpdatedAt = now
	b.UpdatedBy = &actor
}

// ToggleDeleted đảo cờ xóa mềm và ghi nhận người thao tác
// Trả về trạng thái mới của IsDeleted
func (b *BaseModel) ToggleDeleted(actor uuid.UUID, now time.Time) bool {
	b.IsDeleted = !b.IsDeleted
	b.MarkUpdated(actor, now)
	return b.IsDeleted
}

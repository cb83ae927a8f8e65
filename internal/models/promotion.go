package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===========================================================================
// Promotion (Chương trình khuyến mãi)
// Job hằng ngày tắt các chương trình đã hết hạn
// ===========================================================================

// Promotion chương trình giảm giá áp dụng cho một số thủ thuật
type Promotion struct {
	BaseModel

	Title       string    `gorm:"size:255;not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	StartDate   time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null;index" json:"end_date"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`

	// Expired tính lúc đọc, không lưu DB
	Expired bool `gorm:"-" json:"expired"`

	// Relations
	Procedures []PromotionProcedure `gorm:"foreignKey:PromotionID" json:"procedures,omitempty"`
}

// TableName trả về tên bảng
func (Promotion) TableName() string {
	return "promotions"
}

// IsExpired chương trình đã kết thúc trước ngày today
func (p *Promotion) IsExpired(today time.Time) bool {
	return p.EndDate.Before(today)
}

// PromotionProcedure mức giảm cho một thủ thuật trong chương trình
type PromotionProcedure struct {
	BaseModel

	PromotionID uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	ProcedureID uuid.UUID `gorm:"type:uuid;not null;index" json:"procedure_id"`

	// DiscountPercent phần trăm giảm (0 - 100)
	DiscountPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"discount_percent"`
}

// TableName trả về tên bảng
func (PromotionProcedure) TableName() string {
	return "promotion_procedures"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ===========================================================================
// Procedure (Thủ thuật nha khoa) và Supplies (Vật tư)
// ===========================================================================

// Procedure thủ thuật/dịch vụ của phòng khám
type Procedure struct {
	BaseModel

	// Name tên thủ thuật (unique)
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`

	// Type nhóm thủ thuật (VD: "Nhổ răng", "Trám răng")
	Type *string `gorm:"size:100" json:"type,omitempty"`

	Description *string `gorm:"type:text" json:"description,omitempty"`

	// Price đơn giá niêm yết
	Price decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"price"`

	// WarrantyMonths thời hạn bảo hành mặc định (0 = không bảo hành)
	WarrantyMonths int `gorm:"default:0" json:"warranty_months"`
}

// TableName trả về tên bảng
func (Procedure) TableName() string {
	return "procedures"
}

// Supplies vật tư tiêu hao
type Supplies struct {
	BaseModel

	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`

	// Unit đơn vị tính (hộp, cái, ml...)
	Unit string `gorm:"size:50;not null" json:"unit"`

	Quantity int             `gorm:"not null;default:0" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"price"`

	// ExpiryDate hạn sử dụng
	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
}

// TableName trả về tên bảng
func (Supplies) TableName() string {
	return "supplies"
}

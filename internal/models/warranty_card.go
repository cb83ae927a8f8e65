package models

import (
	"time"

	"github.com/google/uuid"
)

// WarrantyCard thẻ bảo hành cho một hồ sơ điều trị
// Mỗi hồ sơ điều trị có tối đa một thẻ
type WarrantyCard struct {
	BaseModel

	TreatmentRecordID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"treatment_record_id"`
	ProcedureID       uuid.UUID `gorm:"type:uuid;not null;index" json:"procedure_id"`
	PatientID         uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`

	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`

	// DurationMonths thời hạn bảo hành (tháng)
	DurationMonths int `gorm:"not null" json:"duration_months"`

	Note *string `gorm:"type:text" json:"note,omitempty"`

	// IsActive thẻ còn hiệu lực
	IsActive bool `gorm:"default:true" json:"is_active"`

	// Expired tính lúc đọc, không lưu DB
	Expired bool `gorm:"-" json:"expired"`

	// Relations
	Procedure Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`
}

// TableName trả về tên bảng
func (WarrantyCard) TableName() string {
	return "warranty_cards"
}

// SetDuration đặt thời hạn và tính lại ngày hết hạn
func (w *WarrantyCard) SetDuration(start time.Time, months int) {
	w.StartDate = start
	w.DurationMonths = months
	w.EndDate = AddMonths(start, months)
}

// AddMonths cộng tháng, ngày vượt quá cuối tháng đích thì lấy ngày cuối tháng
// VD: 31/01 + 1 tháng = 28/02 (hoặc 29/02 năm nhuận)
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)
	lastDay := target.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return target.AddDate(0, 0, day-1)
}

// ToggleActive bật/tắt hiệu lực thẻ
func (w *WarrantyCard) ToggleActive(actor uuid.UUID, now time.Time) bool {
	w.IsActive = !w.IsActive
	w.MarkUpdated(actor, now)
	return w.IsActive
}

// IsExpired thẻ đã quá hạn tại thời điểm at
func (w *WarrantyCard) IsExpired(at time.Time) bool {
	return at.After(w.EndDate)
}

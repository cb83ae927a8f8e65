package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===========================================================================
// TreatmentRecord (Hồ sơ điều trị) và TreatmentProgress (Tiến trình điều trị)
// ===========================================================================

// TreatmentStatus trạng thái hồ sơ điều trị
type TreatmentStatus string

const (
	TreatmentPlanned    TreatmentStatus = "planned"
	TreatmentInProgress TreatmentStatus = "in_progress"
	TreatmentCompleted  TreatmentStatus = "completed"
	TreatmentCanceled   TreatmentStatus = "canceled"
)

// IsValid kiểm tra trạng thái hợp lệ
func (s TreatmentStatus) IsValid() bool {
	switch s {
	case TreatmentPlanned, TreatmentInProgress, TreatmentCompleted, TreatmentCanceled:
		return true
	}
	return false
}

// TreatmentRecord hồ sơ điều trị, một thủ thuật trong một lần hẹn
type TreatmentRecord struct {
	BaseModel

	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"appointment_id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID     uuid.UUID `gorm:"type:uuid;not null;index" json:"dentist_id"`
	ProcedureID   uuid.UUID `gorm:"type:uuid;not null;index" json:"procedure_id"`

	// ToothPosition vị trí răng (VD: "R16")
	ToothPosition *string `gorm:"size:50" json:"tooth_position,omitempty"`

	Quantity       int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"unit_price"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_amount"`

	TreatmentDate time.Time       `gorm:"not null" json:"treatment_date"`
	Symptoms      *string         `gorm:"type:text" json:"symptoms,omitempty"`
	Diagnosis     *string         `gorm:"type:text" json:"diagnosis,omitempty"`
	Status        TreatmentStatus `gorm:"size:20;not null;default:'planned'" json:"status"`

	// Relations
	Procedure Procedure `gorm:"foreignKey:ProcedureID" json:"procedure,omitempty"`
}

// TableName trả về tên bảng
func (TreatmentRecord) TableName() string {
	return "treatment_records"
}

// RecalculateTotal tính thành tiền = đơn giá x số lượng - giảm giá, không âm
func (t *TreatmentRecord) RecalculateTotal() {
	total := t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity))).Sub(t.DiscountAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	t.TotalAmount = total
}

// ProgressStatus trạng thái một bước tiến trình
type ProgressStatus string

const (
	ProgressPending    ProgressStatus = "pending"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
	ProgressCanceled   ProgressStatus = "canceled"
)

// IsValid kiểm tra trạng thái hợp lệ
func (s ProgressStatus) IsValid() bool {
	switch s {
	case ProgressPending, ProgressInProgress, ProgressCompleted, ProgressCanceled:
		return true
	}
	return false
}

// TreatmentProgress một bước trong quá trình điều trị
type TreatmentProgress struct {
	BaseModel

	TreatmentRecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"treatment_record_id"`
	PatientID         uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID         uuid.UUID `gorm:"type:uuid;not null" json:"dentist_id"`

	ProgressName    string         `gorm:"size:255;not null" json:"progress_name"`
	ProgressContent *string        `gorm:"type:text" json:"progress_content,omitempty"`
	Status          ProgressStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	// Duration thời lượng dự kiến (phút)
	Duration *int `json:"duration,omitempty"`

	Description *string   `gorm:"type:text" json:"description,omitempty"`
	ProgressAt  time.Time `gorm:"not null" json:"progress_at"`
}

// TableName trả về tên bảng
func (TreatmentProgress) TableName() string {
	return "treatment_progresses"
}

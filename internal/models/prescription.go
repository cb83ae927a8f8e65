package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ===========================================================================
// Prescription (Đơn thuốc) và Instruction (Chỉ dẫn sau điều trị)
// ===========================================================================

// Medicine một dòng thuốc trong đơn, lưu dạng JSON
type Medicine struct {
	Name     string `json:"name" validate:"required"`
	Dosage   string `json:"dosage"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Usage    string `json:"usage"`
}

// Prescription đơn thuốc, mỗi lịch hẹn tối đa một đơn
type Prescription struct {
	BaseModel

	AppointmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID     uuid.UUID `gorm:"type:uuid;not null" json:"dentist_id"`

	// Content lời dặn chung
	Content string `gorm:"type:text;not null" json:"content"`

	// Medicines danh sách thuốc
	Medicines datatypes.JSONSlice[Medicine] `gorm:"type:jsonb" json:"medicines"`
}

// TableName trả về tên bảng
func (Prescription) TableName() string {
	return "prescriptions"
}

// InstructionTemplate mẫu chỉ dẫn dùng lại nhiều lần
type InstructionTemplate struct {
	BaseModel

	Name    string `gorm:"size:255;not null" json:"name"`
	Content string `gorm:"type:text;not null" json:"content"`
}

// TableName trả về tên bảng
func (InstructionTemplate) TableName() string {
	return "instruction_templates"
}

// Instruction chỉ dẫn sau điều trị cho một lịch hẹn
type Instruction struct {
	BaseModel

	AppointmentID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	TemplateID    *uuid.UUID `gorm:"type:uuid" json:"template_id,omitempty"`
	Content       string     `gorm:"type:text;not null" json:"content"`
}

// TableName trả về tên bảng
func (Instruction) TableName() string {
	return "instructions"
}

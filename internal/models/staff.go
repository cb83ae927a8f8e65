package models

import (
	"github.com/google/uuid"
)

// ===========================================================================
// Hồ sơ theo vai trò
// Mỗi hồ sơ gắn với đúng một User
// ===========================================================================

// Patient hồ sơ bệnh nhân
type Patient struct {
	BaseModel

	// UserID tài khoản của bệnh nhân
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	// MedicalHistory tiền sử bệnh
	MedicalHistory *string `gorm:"type:text" json:"medical_history,omitempty"`

	// Note ghi chú của lễ tân
	Note *string `gorm:"type:text" json:"note,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName trả về tên bảng
func (Patient) TableName() string {
	return "patients"
}

// Dentist hồ sơ nha sĩ
type Dentist struct {
	BaseModel

	// UserID tài khoản của nha sĩ
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	// Specialty chuyên môn
	Specialty *string `gorm:"size:255" json:"specialty,omitempty"`

	// YearsOfExperience số năm kinh nghiệm
	YearsOfExperience int `gorm:"default:0" json:"years_of_experience"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName trả về tên bảng
func (Dentist) TableName() string {
	return "dentists"
}

// Assistant hồ sơ trợ lý nha sĩ
type Assistant struct {
	BaseModel

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName trả về tên bảng
func (Assistant) TableName() string {
	return "assistants"
}

// Receptionist hồ sơ lễ tân
type Receptionist struct {
	BaseModel

	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName trả về tên bảng
func (Receptionist) TableName() string {
	return "receptionists"
}

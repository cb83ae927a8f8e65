package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ===========================================================================
// Schedule (Lịch làm việc của nha sĩ) và Appointment (Lịch hẹn)
// ===========================================================================

// ScheduleStatus trạng thái lịch làm việc
type ScheduleStatus string

const (
	// ScheduleStatusPending chờ chủ phòng khám duyệt
	ScheduleStatusPending ScheduleStatus = "pending"

	// ScheduleStatusApproved đã duyệt
	ScheduleStatusApproved ScheduleStatus = "approved"

	// ScheduleStatusRejected bị từ chối
	ScheduleStatusRejected ScheduleStatus = "rejected"
)

// Shift ca làm việc
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
)

// IsValid kiểm tra ca làm việc hợp lệ
func (s Shift) IsValid() bool {
	return s == ShiftMorning || s == ShiftAfternoon || s == ShiftEvening
}

// Schedule lịch làm việc do nha sĩ đăng ký
type Schedule struct {
	BaseModel

	// DentistID nha sĩ đăng ký
	DentistID uuid.UUID `gorm:"type:uuid;not null;index" json:"dentist_id"`

	// WorkDate ngày làm việc
	WorkDate time.Time `gorm:"type:date;not null;index" json:"work_date"`

	// Shift ca làm việc
	Shift Shift `gorm:"size:20;not null" json:"shift"`

	// Status trạng thái duyệt
	Status ScheduleStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`

	// Note ghi chú
	Note *string `gorm:"type:text" json:"note,omitempty"`

	// Relations
	Dentist Dentist `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`
}

// TableName trả về tên bảng
func (Schedule) TableName() string {
	return "schedules"
}

// IsPending lịch còn ở trạng thái chờ duyệt
func (s *Schedule) IsPending() bool {
	return s.Status == ScheduleStatusPending
}

// AppointmentStatus trạng thái lịch hẹn
type AppointmentStatus string

const (
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCanceled  AppointmentStatus = "canceled"
	AppointmentAttended  AppointmentStatus = "attended"
	AppointmentAbsented  AppointmentStatus = "absented"
)

// AppointmentType loại lịch hẹn
type AppointmentType string

const (
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentTreatment    AppointmentType = "treatment"
	AppointmentFollowUp     AppointmentType = "follow-up"
)

// IsValid kiểm tra loại lịch hẹn hợp lệ
func (t AppointmentType) IsValid() bool {
	return t == AppointmentConsultation || t == AppointmentTreatment || t == AppointmentFollowUp
}

var appointmentTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsValidAppointmentTime kiểm tra định dạng giờ HH:MM
func IsValidAppointmentTime(s string) bool {
	return appointmentTimePattern.MatchString(s)
}

// Appointment lịch hẹn khám
type Appointment struct {
	BaseModel

	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DentistID uuid.UUID `gorm:"type:uuid;not null;index" json:"dentist_id"`

	// AppointmentDate ngày hẹn
	AppointmentDate time.Time `gorm:"type:date;not null;index" json:"appointment_date"`

	// AppointmentTime giờ hẹn (HH:MM)
	AppointmentTime string `gorm:"size:5;not null" json:"appointment_time"`

	AppointmentType AppointmentType   `gorm:"size:30;not null" json:"appointment_type"`
	Status          AppointmentStatus `gorm:"size:20;not null;default:'confirmed';index" json:"status"`

	// Content nội dung/lý do khám
	Content *string `gorm:"type:text" json:"content,omitempty"`

	// CancelReason lý do hủy
	CancelReason *string `gorm:"type:text" json:"cancel_reason,omitempty"`

	// Relations
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Dentist Dentist `gorm:"foreignKey:DentistID" json:"dentist,omitempty"`
}

// TableName trả về tên bảng
func (Appointment) TableName() string {
	return "appointments"
}

package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ===========================================================================
// User (Người dùng hệ thống)
// Mọi tài khoản đăng nhập: quản trị, chủ phòng khám, nha sĩ, trợ lý,
// lễ tân và bệnh nhân. Hồ sơ riêng theo vai trò nằm ở bảng tương ứng.
// ===========================================================================

// UserRole các vai trò người dùng
type UserRole string

const (
	// RoleAdmin quản trị hệ thống, quản lý tài khoản
	RoleAdmin UserRole = "Administrator"

	// RoleOwner chủ phòng khám, duyệt lịch, quản lý thủ thuật, khuyến mãi, thu chi
	RoleOwner UserRole = "Owner"

	// RoleDentist nha sĩ
	RoleDentist UserRole = "Dentist"

	// RoleAssistant trợ lý nha sĩ
	RoleAssistant UserRole = "Assistant"

	// RoleReceptionist lễ tân
	RoleReceptionist UserRole = "Receptionist"

	// RolePatient bệnh nhân
	RolePatient UserRole = "Patient"
)

// StaffRoles các vai trò nhân sự phòng khám
var StaffRoles = []UserRole{RoleOwner, RoleDentist, RoleAssistant, RoleReceptionist}

// IsValid kiểm tra role có hợp lệ không
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleDentist, RoleAssistant, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

// IsStaff kiểm tra role có phải nhân sự phòng khám không
func (r UserRole) IsStaff() bool {
	for _, s := range StaffRoles {
		if r == s {
			return true
		}
	}
	return false
}

// User đại diện cho người dùng hệ thống
type User struct {
	BaseModel

	// Email địa chỉ email (unique, có thể trống với bệnh nhân)
	Email *string `gorm:"size:255;uniqueIndex" json:"email,omitempty"`

	// Phone số điện thoại (unique), dùng để đăng nhập
	Phone string `gorm:"size:20;not null;uniqueIndex" json:"phone"`

	// PasswordHash mật khẩu đã hash (KHÔNG bao giờ trả về trong JSON)
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// RefreshTokenHash hash của refresh token hiện tại (KHÔNG trả về trong JSON)
	RefreshTokenHash *string `gorm:"size:255" json:"-"`

	// FullName họ tên
	FullName string `gorm:"size:255;not null" json:"full_name"`

	// Gender giới tính
	Gender *string `gorm:"size:20" json:"gender,omitempty"`

	// DateOfBirth ngày sinh
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`

	// Address địa chỉ
	Address *string `gorm:"size:500" json:"address,omitempty"`

	// AvatarURL URL avatar
	AvatarURL *string `gorm:"size:500" json:"avatar_url,omitempty"`

	// Role vai trò
	Role UserRole `gorm:"size:50;not null;index" json:"role"`

	// IsActive tài khoản có active không
	IsActive bool `gorm:"default:true" json:"is_active"`

	// LastSeenAt lần cuối đăng nhập
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// TableName trả về tên bảng
func (User) TableName() string {
	return "users"
}

// SetPassword hash và set password
// Sử dụng bcrypt với cost mặc định
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword kiểm tra password có đúng không
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// EmailValue trả về email hoặc chuỗi rỗng
func (u *User) EmailValue() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// UpdateLastSeen cập nhật thời gian online gần nhất
func (u *User) UpdateLastSeen() {
	now := time.Now()
	u.LastSeenAt = &now
}

// ToggleActive khóa/mở khóa tài khoản, ghi nhận người thao tác
func (u *User) ToggleActive(actor uuid.UUID, now time.Time) bool {
	u.IsActive = !u.IsActive
	u.MarkUpdated(actor, now)
	return u.IsActive
}

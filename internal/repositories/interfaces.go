package repositories

import (
	"context"
	"time"

	"dentalclinic/internal/models"

	"github.com/google/uuid"
)

// ===========================================================================
// Repository Interfaces
// Mỗi aggregate một interface, implementation GORM nằm ở file *_repo.go
// ===========================================================================

// UserRepository interface cho user data access
type UserRepository interface {
	Repository[models.User]

	// FindByEmail tìm user theo email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByPhone tìm user theo số điện thoại
	FindByPhone(ctx context.Context, phone string) (*models.User, error)

	// List danh sách user, lọc theo role nếu có
	List(ctx context.Context, role *models.UserRole, opts FindOptions) ([]models.User, int64, error)

	// FindActiveByRoles lấy mọi user đang hoạt động thuộc các role
	FindActiveByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error)

	// CreateStaff tạo user nhân sự kèm hồ sơ theo role trong một transaction
	CreateStaff(ctx context.Context, user *models.User, dentist *models.Dentist) error
}

// PatientRepository interface cho bệnh nhân
type PatientRepository interface {
	Repository[models.Patient]

	// FindByUserID tìm hồ sơ bệnh nhân theo tài khoản
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Patient, error)

	// List danh sách bệnh nhân, Search theo tên hoặc số điện thoại
	List(ctx context.Context, opts FindOptions) ([]models.Patient, int64, error)

	// CreateWithUser tạo user và hồ sơ bệnh nhân trong một transaction
	CreateWithUser(ctx context.Context, patient *models.Patient) error

	// UpdateWithUser cập nhật hồ sơ bệnh nhân và user trong một transaction
	UpdateWithUser(ctx context.Context, patient *models.Patient) error
}

// DentistRepository interface cho nha sĩ
type DentistRepository interface {
	Repository[models.Dentist]
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Dentist, error)
	List(ctx context.Context, opts FindOptions) ([]models.Dentist, int64, error)
}

// ScheduleRepository interface cho lịch làm việc
type ScheduleRepository interface {
	Repository[models.Schedule]

	// ExistsForShift đã có lịch (chưa xóa, chưa bị từ chối) cho nha sĩ ở ngày + ca này chưa
	ExistsForShift(ctx context.Context, dentistID uuid.UUID, workDate time.Time, shift models.Shift) (bool, error)

	// List danh sách lịch, lọc theo nha sĩ nếu có
	List(ctx context.Context, dentistID *uuid.UUID, opts FindOptions) ([]models.Schedule, int64, error)
}

// AppointmentFilter điều kiện lọc lịch hẹn
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DentistID *uuid.UUID
	Date      *time.Time
	Status    *models.AppointmentStatus
}

// AppointmentRepository interface cho lịch hẹn
type AppointmentRepository interface {
	Repository[models.Appointment]
	List(ctx context.Context, filter AppointmentFilter, opts FindOptions) ([]models.Appointment, int64, error)
}

// ProcedureRepository interface cho thủ thuật
type ProcedureRepository interface {
	Repository[models.Procedure]
	FindByName(ctx context.Context, name string) (*models.Procedure, error)
	List(ctx context.Context, opts FindOptions) ([]models.Procedure, int64, error)
}

// SuppliesRepository interface cho vật tư
type SuppliesRepository interface {
	Repository[models.Supplies]
	FindByName(ctx context.Context, name string) (*models.Supplies, error)
	List(ctx context.Context, opts FindOptions) ([]models.Supplies, int64, error)
}

// WarrantyCardRepository interface cho thẻ bảo hành
type WarrantyCardRepository interface {
	Repository[models.WarrantyCard]

	// FindByTreatmentRecord tìm thẻ của hồ sơ điều trị
	FindByTreatmentRecord(ctx context.Context, recordID uuid.UUID) (*models.WarrantyCard, error)

	List(ctx context.Context, patientID *uuid.UUID, opts FindOptions) ([]models.WarrantyCard, int64, error)
}

// TreatmentRecordRepository interface cho hồ sơ điều trị
type TreatmentRecordRepository interface {
	Repository[models.TreatmentRecord]
	ListByPatient(ctx context.Context, patientID uuid.UUID, opts FindOptions) ([]models.TreatmentRecord, int64, error)
}

// TreatmentProgressRepository interface cho tiến trình điều trị
type TreatmentProgressRepository interface {
	Repository[models.TreatmentProgress]
	ListByRecord(ctx context.Context, recordID uuid.UUID) ([]models.TreatmentProgress, error)
}

// PrescriptionRepository interface cho đơn thuốc
type PrescriptionRepository interface {
	Repository[models.Prescription]
	FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*models.Prescription, error)
}

// InstructionTemplateRepository interface cho mẫu chỉ dẫn
type InstructionTemplateRepository interface {
	Repository[models.InstructionTemplate]
	List(ctx context.Context, opts FindOptions) ([]models.InstructionTemplate, int64, error)
}

// InstructionRepository interface cho chỉ dẫn
type InstructionRepository interface {
	Repository[models.Instruction]
	FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*models.Instruction, error)
}

// NotificationRepository interface cho thông báo
type NotificationRepository interface {
	Repository[models.Notification]

	// ListByUser thông báo của user, mới nhất trước
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, opts FindOptions) ([]models.Notification, int64, error)

	// CountUnread số thông báo chưa đọc
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	// MarkAllRead đánh dấu đã đọc toàn bộ, trả về số bản ghi thay đổi
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

// ChatBotKnowledgeRepository interface cho dữ liệu chatbot
type ChatBotKnowledgeRepository interface {
	Repository[models.ChatBotKnowledge]
	List(ctx context.Context, opts FindOptions) ([]models.ChatBotKnowledge, int64, error)

	// FindActive các mục đang bật, priority cao trước
	FindActive(ctx context.Context) ([]models.ChatBotKnowledge, error)
}

// PromotionRepository interface cho khuyến mãi
type PromotionRepository interface {
	Repository[models.Promotion]
	List(ctx context.Context, activeOnly bool, opts FindOptions) ([]models.Promotion, int64, error)

	// DeactivateExpired tắt mọi chương trình có EndDate trước today
	DeactivateExpired(ctx context.Context, today time.Time) (int64, error)
}

// TransactionFilter điều kiện lọc phiếu thu chi
type TransactionFilter struct {
	Type *models.TransactionType
	From *time.Time
	To   *time.Time
}

// FinancialTransactionRepository interface cho thu chi
type FinancialTransactionRepository interface {
	Repository[models.FinancialTransaction]
	List(ctx context.Context, filter TransactionFilter, opts FindOptions) ([]models.FinancialTransaction, int64, error)
}

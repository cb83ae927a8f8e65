package models

// ===========================================================================
// Models Index
// Cung cấp danh sách tất cả models cho GORM AutoMigrate
// ===========================================================================

// AllModels trả về danh sách tất cả models
// Thứ tự theo quan hệ khóa ngoại: bảng cha trước, bảng con sau
func AllModels() []interface{} {
	return []interface{}{
		&User{},                 // Người dùng hệ thống
		&Patient{},              // Bệnh nhân
		&Dentist{},              // Nha sĩ
		&Assistant{},            // Trợ lý
		&Receptionist{},         // Lễ tân
		&Schedule{},             // Lịch làm việc
		&Appointment{},          // Lịch hẹn
		&Procedure{},            // Thủ thuật
		&Supplies{},             // Vật tư
		&TreatmentRecord{},      // Hồ sơ điều trị
		&TreatmentProgress{},    // Tiến trình điều trị
		&WarrantyCard{},         // Thẻ bảo hành
		&Prescription{},         // Đơn thuốc
		&InstructionTemplate{},  // Mẫu chỉ dẫn
		&Instruction{},          // Chỉ dẫn
		&Notification{},         // Thông báo
		&ChatBotKnowledge{},     // Dữ liệu chatbot
		&Promotion{},            // Khuyến mãi
		&PromotionProcedure{},   // Thủ thuật trong khuyến mãi
		&FinancialTransaction{}, // Thu chi
	}
}

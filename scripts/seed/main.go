//go:build ignore

// ===========================================================================
// Script tạo seed data cho development/testing
// Chạy: go run scripts/seed/main.go
// ===========================================================================

package main

import (
	"context"
	"fmt"
	"log"

	"dentalclinic/internal/config"
	"dentalclinic/internal/database"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"
	"dentalclinic/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultPassword = "Password123!"

func main() {
	fmt.Println("🌱 Bắt đầu seed data...")
	ctx := context.Background()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Không thể load config: %v", err)
	}

	zapLog, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Không thể tạo logger: %v", err)
	}

	db, err := database.NewConnection(&cfg.Database, zapLog)
	if err != nil {
		log.Fatalf("Không thể kết nối database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Không thể migrate: %v", err)
	}
	fmt.Println("✅ Đã kết nối database")

	repos := repositories.New(db)

	// =========================================================================
	// 1. Tài khoản nhân sự
	// =========================================================================
	staff := []struct {
		user    models.User
		dentist *models.Dentist
	}{
		{user: models.User{Phone: "0900000001", FullName: "Quản Trị Viên", Role: models.RoleAdmin}},
		{user: models.User{Phone: "0900000002", FullName: "Chủ Phòng Khám", Role: models.RoleOwner}},
		{
			user:    models.User{Phone: "0900000003", FullName: "BS. Nguyễn Văn An", Role: models.RoleDentist},
			dentist: &models.Dentist{Specialty: strPtr("Chỉnh nha"), YearsOfExperience: 8},
		},
		{user: models.User{Phone: "0900000004", FullName: "Trợ Lý Bình", Role: models.RoleAssistant}},
		{user: models.User{Phone: "0900000005", FullName: "Lễ Tân Chi", Role: models.RoleReceptionist}},
	}

	for i := range staff {
		u := &staff[i].user
		if _, err := repos.Users.FindByPhone(ctx, u.Phone); err == nil {
			fmt.Printf("⚠️  User '%s' đã tồn tại\n", u.Phone)
			continue
		}
		u.IsActive = true
		if err := u.SetPassword(defaultPassword); err != nil {
			zapLog.Warn("Không thể set password", zap.Error(err))
			continue
		}
		if err := repos.Users.CreateStaff(ctx, u, staff[i].dentist); err != nil {
			zapLog.Warn("Không thể tạo user", zap.String("phone", u.Phone), zap.Error(err))
			continue
		}
		fmt.Printf("✅ Đã tạo User: %s (%s)\n", u.FullName, u.Role)
	}

	// =========================================================================
	// 2. Thủ thuật
	// =========================================================================
	procedures := []models.Procedure{
		{Name: "Cạo vôi răng", Type: strPtr("Vệ sinh"), Price: decimal.NewFromInt(300000)},
		{Name: "Trám răng composite", Type: strPtr("Điều trị"), Price: decimal.NewFromInt(500000), WarrantyMonths: 6},
		{Name: "Bọc răng sứ", Type: strPtr("Phục hình"), Price: decimal.NewFromInt(4500000), WarrantyMonths: 60},
		{Name: "Nhổ răng khôn", Type: strPtr("Tiểu phẫu"), Price: decimal.NewFromInt(1500000)},
	}
	for i := range procedures {
		p := &procedures[i]
		if _, err := repos.Procedures.FindByName(ctx, p.Name); err == nil {
			continue
		}
		if err := repos.Procedures.Create(ctx, p); err != nil {
			zapLog.Warn("Không thể tạo thủ thuật", zap.String("name", p.Name), zap.Error(err))
		} else {
			fmt.Printf("✅ Đã tạo Thủ thuật: %s\n", p.Name)
		}
	}

	// =========================================================================
	// 3. Mẫu chỉ dẫn
	// =========================================================================
	templates := []models.InstructionTemplate{
		{Name: "Sau nhổ răng", Content: "Cắn chặt gòn 30 phút. Không súc miệng mạnh trong 24 giờ. Ăn đồ mềm, nguội."},
		{Name: "Sau trám răng", Content: "Không ăn nhai bên răng vừa trám trong 2 giờ đầu."},
	}
	for i := range templates {
		t := &templates[i]
		var existing models.InstructionTemplate
		if err := db.Where("name = ?", t.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := repos.InstructionTemplates.Create(ctx, t); err != nil {
			zapLog.Warn("Không thể tạo mẫu chỉ dẫn", zap.String("name", t.Name), zap.Error(err))
		}
	}

	// =========================================================================
	// 4. Dữ liệu chatbot
	// =========================================================================
	knowledge := []models.ChatBotKnowledge{
		{
			Question: "Phòng khám mở cửa lúc mấy giờ?",
			Answer:   "Phòng khám làm việc từ 8:00 đến 20:00 tất cả các ngày trong tuần.",
			Keywords: []string{"giờ mở cửa", "mấy giờ", "làm việc"},
			Category: strPtr("Thông tin chung"),
			Priority: 10,
			IsActive: true,
		},
		{
			Question: "Bọc răng sứ giá bao nhiêu?",
			Answer:   "Bọc răng sứ có giá từ 4.500.000đ/răng, bảo hành 5 năm.",
			Keywords: []string{"bọc sứ", "răng sứ", "giá"},
			Category: strPtr("Bảng giá"),
			Priority: 5,
			IsActive: true,
		},
		{
			Question: "Làm sao để đặt lịch khám?",
			Answer:   "Bạn có thể gọi lễ tân hoặc đăng nhập ứng dụng để đặt lịch với nha sĩ.",
			Keywords: []string{"đặt lịch", "hẹn khám", "book"},
			Category: strPtr("Lịch hẹn"),
			Priority: 8,
			IsActive: true,
		},
	}
	for i := range knowledge {
		k := &knowledge[i]
		var existing models.ChatBotKnowledge
		if err := db.Where("question = ?", k.Question).First(&existing).Error; err == nil {
			continue
		}
		if err := repos.ChatBotKnowledge.Create(ctx, k); err != nil {
			zapLog.Warn("Không thể tạo dữ liệu chatbot", zap.Error(err))
		}
	}

	fmt.Println("🎉 Seed data hoàn tất!")
	fmt.Printf("   Đăng nhập bằng số điện thoại 090000000x, mật khẩu: %s\n", defaultPassword)
}

func strPtr(s string) *string {
	return &s
}

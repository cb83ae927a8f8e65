package repositories

import "gorm.io/gorm"

// Repositories gom toàn bộ repository để truyền vào services
type Repositories struct {
	Users                 UserRepository
	Patients              PatientRepository
	Dentists              DentistRepository
	Schedules             ScheduleRepository
	Appointments          AppointmentRepository
	Procedures            ProcedureRepository
	Supplies              SuppliesRepository
	WarrantyCards         WarrantyCardRepository
	TreatmentRecords      TreatmentRecordRepository
	TreatmentProgresses   TreatmentProgressRepository
	Prescriptions         PrescriptionRepository
	InstructionTemplates  InstructionTemplateRepository
	Instructions          InstructionRepository
	Notifications         NotificationRepository
	ChatBotKnowledge      ChatBotKnowledgeRepository
	Promotions            PromotionRepository
	FinancialTransactions FinancialTransactionRepository
}

// New tạo toàn bộ repository GORM trên cùng một connection
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:                 NewUserRepository(db),
		Patients:              NewPatientRepository(db),
		Dentists:              NewDentistRepository(db),
		Schedules:             NewScheduleRepository(db),
		Appointments:          NewAppointmentRepository(db),
		Procedures:            NewProcedureRepository(db),
		Supplies:              NewSuppliesRepository(db),
		WarrantyCards:         NewWarrantyCardRepository(db),
		TreatmentRecords:      NewTreatmentRecordRepository(db),
		TreatmentProgresses:   NewTreatmentProgressRepository(db),
		Prescriptions:         NewPrescriptionRepository(db),
		InstructionTemplates:  NewInstructionTemplateRepository(db),
		Instructions:          NewInstructionRepository(db),
		Notifications:         NewNotificationRepository(db),
		ChatBotKnowledge:      NewChatBotKnowledgeRepository(db),
		Promotions:            NewPromotionRepository(db),
		FinancialTransactions: NewFinancialTransactionRepository(db),
	}
}

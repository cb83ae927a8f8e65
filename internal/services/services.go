package services

import (
	"time"

	"dentalclinic/internal/auth"
	"dentalclinic/internal/bot"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/realtime"
	"dentalclinic/internal/repositories"

	"go.uber.org/zap"
)

// Deps phụ thuộc để dựng toàn bộ service
type Deps struct {
	Repos     *repositories.Repositories
	JWT       *auth.JWTService
	Publisher realtime.Publisher
	Logger    *zap.Logger
	Location  *time.Location
}

// Services gom mọi service của ứng dụng
type Services struct {
	Auth          AuthService
	Notifications *NotificationService
	Notifier      *Notifier
	Schedules     *ScheduleService
	Appointments  *AppointmentService
	Catalog       *CatalogService
	Treatments    *TreatmentService
	Prescriptions *PrescriptionService
	Promotions    *PromotionService
	ChatBot       *ChatBotService
	Transactions  *TransactionService
	Patients      *PatientService
	Users         *UserService
}

// New dựng mọi service và đăng ký handler của chúng lên m
func New(m *mediator.Mediator, d Deps) *Services {
	r, log, loc := d.Repos, d.Logger, d.Location
	notifier := NewNotifier(m, r.Users, log.Named("notifier"))

	s := &Services{
		Notifications: NewNotificationService(r.Users, r.Notifications, d.Publisher, log, loc),
		Notifier:      notifier,
		Schedules:     NewScheduleService(r.Schedules, r.Dentists, notifier, log, loc),
		Appointments:  NewAppointmentService(r.Appointments, r.Patients, r.Dentists, notifier, log, loc),
		Catalog:       NewCatalogService(r.Procedures, r.Supplies, log, loc),
		Treatments: NewTreatmentService(TreatmentRepos{
			Records:      r.TreatmentRecords,
			Progresses:   r.TreatmentProgresses,
			Warranties:   r.WarrantyCards,
			Appointments: r.Appointments,
			Procedures:   r.Procedures,
			Patients:     r.Patients,
			Dentists:     r.Dentists,
		}, notifier, log, loc),
		Prescriptions: NewPrescriptionService(PrescriptionRepos{
			Prescriptions: r.Prescriptions,
			Templates:     r.InstructionTemplates,
			Instructions:  r.Instructions,
			Appointments:  r.Appointments,
			Patients:      r.Patients,
			Dentists:      r.Dentists,
		}, notifier, log, loc),
		Promotions:   NewPromotionService(r.Promotions, r.Procedures, notifier, log, loc),
		ChatBot:      NewChatBotService(r.ChatBotKnowledge, bot.NewKnowledgeEngine(log.Named("bot")), log, loc),
		Transactions: NewTransactionService(r.FinancialTransactions, notifier, log, loc),
		Patients:     NewPatientService(r.Patients, r.Users, log, loc),
		Users:        NewUserService(r.Users, log, loc),
	}
	if d.JWT != nil {
		s.Auth = NewAuthService(r.Users, d.JWT, log)
	}

	s.Register(m)
	return s
}

// Register đăng ký handler của mọi service lên mediator
func (s *Services) Register(m *mediator.Mediator) {
	RegisterNotificationHandlers(m, s.Notifications)
	RegisterScheduleHandlers(m, s.Schedules)
	RegisterAppointmentHandlers(m, s.Appointments)
	RegisterCatalogHandlers(m, s.Catalog)
	RegisterTreatmentHandlers(m, s.Treatments)
	RegisterPrescriptionHandlers(m, s.Prescriptions)
	RegisterPromotionHandlers(m, s.Promotions)
	RegisterChatBotHandlers(m, s.ChatBot)
	RegisterTransactionHandlers(m, s.Transactions)
	RegisterPatientHandlers(m, s.Patients)
	RegisterUserHandlers(m, s.Users)
}

// setClock đổi đồng hồ của mọi service, chỉ dùng trong test
func (s *Services) setClock(now func() time.Time) {
	for _, b := range []*base{
		&s.Notifications.base, &s.Schedules.base, &s.Appointments.base, &s.Catalog.base,
		&s.Treatments.base, &s.Prescriptions.base, &s.Promotions.base, &s.ChatBot.base,
		&s.Transactions.base, &s.Patients.base, &s.Users.base,
	} {
		b.now = now
	}
}

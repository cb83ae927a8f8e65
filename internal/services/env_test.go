package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dentalclinic/internal/auth"
	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// clinicZone múi giờ phòng khám dùng trong test (UTC+7)
var clinicZone = time.FixedZone("ICT", 7*60*60)

// testNow 10/06/2025 09:00 giờ phòng khám
var testNow = time.Date(2025, 6, 10, 9, 0, 0, 0, clinicZone)

type testEnv struct {
	m   *mediator.Mediator
	svc *Services
	pub *fakePublisher

	users         *fakeUserRepo
	patients      *fakePatientRepo
	dentists      *fakeDentistRepo
	schedules     *fakeScheduleRepo
	appointments  *fakeAppointmentRepo
	procedures    *fakeProcedureRepo
	supplies      *fakeSuppliesRepo
	warranties    *fakeWarrantyRepo
	records       *fakeRecordRepo
	progresses    *fakeProgressRepo
	prescriptions *fakePrescriptionRepo
	templates     *fakeTemplateRepo
	instructions  *fakeInstructionRepo
	notifications *fakeNotificationRepo
	knowledge     *fakeKnowledgeRepo
	promotions    *fakePromotionRepo
	transactions  *fakeTransactionRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{pub: &fakePublisher{}}
	env.dentists = &fakeDentistRepo{newMemRepo[models.Dentist]()}
	env.users = &fakeUserRepo{memRepo: newMemRepo[models.User](), dentists: env.dentists}
	env.patients = &fakePatientRepo{memRepo: newMemRepo[models.Patient](), users: env.users}
	env.schedules = &fakeScheduleRepo{newMemRepo[models.Schedule]()}
	env.appointments = &fakeAppointmentRepo{newMemRepo[models.Appointment]()}
	env.procedures = &fakeProcedureRepo{newMemRepo[models.Procedure]()}
	env.supplies = &fakeSuppliesRepo{newMemRepo[models.Supplies]()}
	env.warranties = &fakeWarrantyRepo{newMemRepo[models.WarrantyCard]()}
	env.records = &fakeRecordRepo{newMemRepo[models.TreatmentRecord]()}
	env.progresses = &fakeProgressRepo{newMemRepo[models.TreatmentProgress]()}
	env.prescriptions = &fakePrescriptionRepo{newMemRepo[models.Prescription]()}
	env.templates = &fakeTemplateRepo{newMemRepo[models.InstructionTemplate]()}
	env.instructions = &fakeInstructionRepo{newMemRepo[models.Instruction]()}
	env.notifications = &fakeNotificationRepo{newMemRepo[models.Notification]()}
	env.knowledge = &fakeKnowledgeRepo{newMemRepo[models.ChatBotKnowledge]()}
	env.promotions = &fakePromotionRepo{newMemRepo[models.Promotion]()}
	env.transactions = &fakeTransactionRepo{newMemRepo[models.FinancialTransaction]()}

	repos := &repositories.Repositories{
		Users:                 env.users,
		Patients:              env.patients,
		Dentists:              env.dentists,
		Schedules:             env.schedules,
		Appointments:          env.appointments,
		Procedures:            env.procedures,
		Supplies:              env.supplies,
		WarrantyCards:         env.warranties,
		TreatmentRecords:      env.records,
		TreatmentProgresses:   env.progresses,
		Prescriptions:         env.prescriptions,
		InstructionTemplates:  env.templates,
		Instructions:          env.instructions,
		Notifications:         env.notifications,
		ChatBotKnowledge:      env.knowledge,
		Promotions:            env.promotions,
		FinancialTransactions: env.transactions,
	}

	env.m = mediator.New(auth.Authorization(), mediator.Validation(nil))
	env.svc = New(env.m, Deps{
		Repos:     repos,
		Publisher: env.pub,
		Logger:    zap.NewNop(),
		Location:  clinicZone,
	})
	env.svc.setClock(func() time.Time { return testNow })
	return env
}

// send gửi request qua mediator như handler HTTP
func send[Req any, Resp any](ctx context.Context, env *testEnv, req Req) (Resp, error) {
	return mediator.Send[Req, Resp](ctx, env.m, req)
}

func as(u *models.User) context.Context {
	return auth.WithPrincipal(context.Background(), auth.Principal{UserID: u.ID, Email: u.EmailValue(), Role: u.Role})
}

func requireCode(t *testing.T, err error, code messages.Code) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.Truef(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.MessageCode)
}

// --- seed helpers ---

var phoneSeq = 100000000

func (env *testEnv) seedUser(t *testing.T, role models.UserRole) *models.User {
	t.Helper()
	phoneSeq++
	u := &models.User{
		Phone:    fmt.Sprintf("0%09d", phoneSeq),
		FullName: string(role) + " test",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, env.users.Create(context.Background(), u))
	return u
}

func (env *testEnv) seedDentist(t *testing.T) (*models.User, *models.Dentist) {
	t.Helper()
	u := env.seedUser(t, models.RoleDentist)
	d := &models.Dentist{UserID: u.ID, User: *u}
	require.NoError(t, env.dentists.Create(context.Background(), d))
	return u, d
}

func (env *testEnv) seedPatient(t *testing.T) (*models.User, *models.Patient) {
	t.Helper()
	u := env.seedUser(t, models.RolePatient)
	p := &models.Patient{UserID: u.ID, User: *u}
	require.NoError(t, env.patients.Create(context.Background(), p))
	return u, p
}

func (env *testEnv) seedAppointment(t *testing.T, p *models.Patient, d *models.Dentist) *models.Appointment {
	t.Helper()
	a := &models.Appointment{
		PatientID:       p.ID,
		DentistID:       d.ID,
		AppointmentDate: testNow.AddDate(0, 0, 1),
		AppointmentTime: "09:30",
		AppointmentType: models.AppointmentConsultation,
		Status:          models.AppointmentConfirmed,
	}
	require.NoError(t, env.appointments.Create(context.Background(), a))
	return a
}

func (env *testEnv) seedProcedure(t *testing.T, name string, price int64) *models.Procedure {
	t.Helper()
	p := &models.Procedure{Name: name, Price: decimal.NewFromInt(price), WarrantyMonths: 12}
	require.NoError(t, env.procedures.Create(context.Background(), p))
	return p
}

func (env *testEnv) seedRecord(t *testing.T, a *models.Appointment, proc *models.Procedure) *models.TreatmentRecord {
	t.Helper()
	r := &models.TreatmentRecord{
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		DentistID:     a.DentistID,
		ProcedureID:   proc.ID,
		Quantity:      1,
		UnitPrice:     proc.Price,
		TreatmentDate: testNow,
		Status:        models.TreatmentPlanned,
	}
	r.RecalculateTotal()
	require.NoError(t, env.records.Create(context.Background(), r))
	return r
}

// notificationsFor thông báo đã lưu của user
func (env *testEnv) notificationsFor(id uuid.UUID) []models.Notification {
	return env.notifications.byUser(id)
}

package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/models"
	"dentalclinic/internal/realtime"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===========================================================================
// Repository giả lập trong bộ nhớ cho test service
// ===========================================================================

type entity[T any] interface {
	*T
	GetID() uuid.UUID
	Deleted() bool
	BeforeCreate(*gorm.DB) error
}

type memRepo[T any, PT entity[T]] struct {
	mu    sync.Mutex
	items map[uuid.UUID]T
	order []uuid.UUID
}

func newMemRepo[T any, PT entity[T]]() *memRepo[T, PT] {
	return &memRepo[T, PT]{items: make(map[uuid.UUID]T)}
}

func (r *memRepo[T, PT]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &v, nil
}

func (r *memRepo[T, PT]) Create(_ context.Context, e *T) error {
	_ = PT(e).BeforeCreate(nil)
	r.mu.Lock()
	defer r.mu.Unlock()
	id := PT(e).GetID()
	if _, exists := r.items[id]; !exists {
		r.order = append(r.order, id)
	}
	r.items[id] = *e
	return nil
}

func (r *memRepo[T, PT]) Update(_ context.Context, e *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := PT(e).GetID()
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[id] = *e
	return nil
}

// all các record theo thứ tự tạo
func (r *memRepo[T, PT]) all() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}

// filter lọc record, bỏ record đã xóa mềm nếu không yêu cầu
func (r *memRepo[T, PT]) filter(includeDeleted bool, keep func(*T) bool) []T {
	var out []T
	for _, v := range r.all() {
		if !includeDeleted && PT(&v).Deleted() {
			continue
		}
		if keep == nil || keep(&v) {
			out = append(out, v)
		}
	}
	return out
}

func (r *memRepo[T, PT]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func pageOf[T any](items []T, opts repositories.FindOptions) ([]T, int64, error) {
	opts.SetDefaults()
	total := int64(len(items))
	if opts.Offset >= len(items) {
		return []T{}, total, nil
	}
	end := opts.Offset + opts.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[opts.Offset:end], total, nil
}

func first[T any](items []T) (*T, error) {
	if len(items) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[0], nil
}

// --- users / profiles ---

type fakeUserRepo struct {
	*memRepo[models.User, *models.User]
	dentists *fakeDentistRepo
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return first(r.filter(true, func(u *models.User) bool { return u.Email != nil && *u.Email == email }))
}

func (r *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	return first(r.filter(true, func(u *models.User) bool { return u.Phone == phone }))
}

func (r *fakeUserRepo) List(_ context.Context, role *models.UserRole, opts repositories.FindOptions) ([]models.User, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(u *models.User) bool { return role == nil || u.Role == *role }), opts)
}

func (r *fakeUserRepo) FindActiveByRoles(_ context.Context, roles ...models.UserRole) ([]models.User, error) {
	return r.filter(false, func(u *models.User) bool {
		if !u.IsActive {
			return false
		}
		for _, role := range roles {
			if u.Role == role {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeUserRepo) CreateStaff(ctx context.Context, user *models.User, dentist *models.Dentist) error {
	if err := r.Create(ctx, user); err != nil {
		return err
	}
	if user.Role == models.RoleDentist {
		if dentist == nil {
			dentist = &models.Dentist{}
		}
		dentist.UserID = user.ID
		dentist.User = *user
		return r.dentists.Create(ctx, dentist)
	}
	return nil
}

type fakePatientRepo struct {
	*memRepo[models.Patient, *models.Patient]
	users *fakeUserRepo
}

func (r *fakePatientRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Patient, error) {
	return first(r.filter(true, func(p *models.Patient) bool { return p.UserID == userID }))
}

func (r *fakePatientRepo) List(_ context.Context, opts repositories.FindOptions) ([]models.Patient, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(p *models.Patient) bool {
		return opts.Search == "" || strings.Contains(p.User.FullName, opts.Search) || strings.Contains(p.User.Phone, opts.Search)
	}), opts)
}

func (r *fakePatientRepo) CreateWithUser(ctx context.Context, p *models.Patient) error {
	if err := r.users.Create(ctx, &p.User); err != nil {
		return err
	}
	p.UserID = p.User.ID
	return r.Create(ctx, p)
}

func (r *fakePatientRepo) UpdateWithUser(ctx context.Context, p *models.Patient) error {
	if err := r.users.Update(ctx, &p.User); err != nil {
		return err
	}
	return r.Update(ctx, p)
}

type fakeDentistRepo struct {
	*memRepo[models.Dentist, *models.Dentist]
}

func (r *fakeDentistRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*models.Dentist, error) {
	return first(r.filter(true, func(d *models.Dentist) bool { return d.UserID == userID }))
}

func (r *fakeDentistRepo) List(_ context.Context, opts repositories.FindOptions) ([]models.Dentist, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, nil), opts)
}

// --- schedules / appointments ---

type fakeScheduleRepo struct {
	*memRepo[models.Schedule, *models.Schedule]
}

func (r *fakeScheduleRepo) ExistsForShift(_ context.Context, dentistID uuid.UUID, workDate time.Time, shift models.Shift) (bool, error) {
	found := r.filter(false, func(s *models.Schedule) bool {
		return s.DentistID == dentistID && s.WorkDate.Equal(workDate) && s.Shift == shift &&
			s.Status != models.ScheduleStatusRejected
	})
	return len(found) > 0, nil
}

func (r *fakeScheduleRepo) List(_ context.Context, dentistID *uuid.UUID, opts repositories.FindOptions) ([]models.Schedule, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(s *models.Schedule) bool {
		return dentistID == nil || s.DentistID == *dentistID
	}), opts)
}

type fakeAppointmentRepo struct {
	*memRepo[models.Appointment, *models.Appointment]
}

func (r *fakeAppointmentRepo) List(_ context.Context, f repositories.AppointmentFilter, opts repositories.FindOptions) ([]models.Appointment, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(a *models.Appointment) bool {
		return (f.PatientID == nil || a.PatientID == *f.PatientID) &&
			(f.DentistID == nil || a.DentistID == *f.DentistID) &&
			(f.Date == nil || a.AppointmentDate.Equal(*f.Date)) &&
			(f.Status == nil || a.Status == *f.Status)
	}), opts)
}

// --- catalog ---

type fakeProcedureRepo struct {
	*memRepo[models.Procedure, *models.Procedure]
}

func (r *fakeProcedureRepo) FindByName(_ context.Context, name string) (*models.Procedure, error) {
	return first(r.filter(true, func(p *models.Procedure) bool { return strings.EqualFold(p.Name, name) }))
}

func (r *fakeProcedureRepo) List(_ context.Context, opts repositories.FindOptions) ([]models.Procedure, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, nil), opts)
}

type fakeSuppliesRepo struct {
	*memRepo[models.Supplies, *models.Supplies]
}

func (r *fakeSuppliesRepo) FindByName(_ context.Context, name string) (*models.Supplies, error) {
	return first(r.filter(true, func(s *models.Supplies) bool { return strings.EqualFold(s.Name, name) }))
}

func (r *fakeSuppliesRepo) List(_ context.Context, opts repositories.FindOptions) ([]models.Supplies, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, nil), opts)
}

// --- treatment ---

type fakeWarrantyRepo struct {
	*memRepo[models.WarrantyCard, *models.WarrantyCard]
}

func (r *fakeWarrantyRepo) FindByTreatmentRecord(_ context.Context, recordID uuid.UUID) (*models.WarrantyCard, error) {
	return first(r.filter(true, func(w *models.WarrantyCard) bool { return w.TreatmentRecordID == recordID }))
}

func (r *fakeWarrantyRepo) List(_ context.Context, patientID *uuid.UUID, opts repositories.FindOptions) ([]models.WarrantyCard, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(w *models.WarrantyCard) bool {
		return patientID == nil || w.PatientID == *patientID
	}), opts)
}

type fakeRecordRepo struct {
	*memRepo[models.TreatmentRecord, *models.TreatmentRecord]
}

func (r *fakeRecordRepo) ListByPatient(_ context.Context, patientID uuid.UUID, opts repositories.FindOptions) ([]models.TreatmentRecord, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(t *models.TreatmentRecord) bool { return t.PatientID == patientID }), opts)
}

type fakeProgressRepo struct {
	*memRepo[models.TreatmentProgress, *models.TreatmentProgress]
}

func (r *fakeProgressRepo) ListByRecord(_ context.Context, recordID uuid.UUID) ([]models.TreatmentProgress, error) {
	return r.filter(false, func(p *models.TreatmentProgress) bool { return p.TreatmentRecordID == recordID }), nil
}

// --- prescriptions ---

type fakePrescriptionRepo struct {
	*memRepo[models.Prescription, *models.Prescription]
}

func (r *fakePrescriptionRepo) FindByAppointment(_ context.Context, appointmentID uuid.UUID) (*models.Prescription, error) {
	return first(r.filter(true, func(p *models.Prescription) bool { return p.AppointmentID == appointmentID }))
}

type fakeTemplateRepo struct {
	*memRepo[models.InstructionTemplate, *models.InstructionTemplate]
}

func (r *fakeTemplateRepo) List(_ context.Context, opts repositories.FindOptions) ([]models.InstructionTemplate, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, nil), opts)
}

type fakeInstructionRepo struct {
	*memRepo[models.Instruction, *models.Instruction]
}

func (r *fakeInstructionRepo) FindByAppointment(_ context.Context, appointmentID uuid.UUID) (*models.Instruction, error) {
	return first(r.filter(true, func(i *models.Instruction) bool { return i.AppointmentID == appointmentID }))
}

// --- notifications ---

type fakeNotificationRepo struct {
	*memRepo[models.Notification, *models.Notification]
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool, opts repositories.FindOptions) ([]models.Notification, int64, error) {
	return pageOf(r.filter(false, func(n *models.Notification) bool {
		return n.UserID == userID && (!unreadOnly || !n.IsRead)
	}), opts)
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(false, func(n *models.Notification) bool { return n.UserID == userID && !n.IsRead }))), nil
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	var changed int64
	for _, n := range r.filter(false, func(n *models.Notification) bool { return n.UserID == userID && !n.IsRead }) {
		n.MarkRead(at)
		if err := r.Update(ctx, &n); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// byUser thông báo (kể cả đã xóa) của một user
func (r *fakeNotificationRepo) byUser(userID uuid.UUID) []models.Notification {
	return r.filter(true, func(n *models.Notification) bool { return n.UserID == userID })
}

// --- chatbot / promotions / finance ---

type fakeKnowledgeRepo struct {
	*memRepo[models.ChatBotKnowledge, *models.ChatBotKnowledge]
}

func (r *fakeKnowledgeRepo) List(_ context.Context, opts repositories.FindOptions) ([]models.ChatBotKnowledge, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, nil), opts)
}

func (r *fakeKnowledgeRepo) FindActive(_ context.Context) ([]models.ChatBotKnowledge, error) {
	items := r.filter(false, func(k *models.ChatBotKnowledge) bool { return k.IsActive })
	sort.SliceStable(items, func(i, j int) bool { return items[i].Priority > items[j].Priority })
	return items, nil
}

type fakePromotionRepo struct {
	*memRepo[models.Promotion, *models.Promotion]
}

func (r *fakePromotionRepo) List(_ context.Context, activeOnly bool, opts repositories.FindOptions) ([]models.Promotion, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(p *models.Promotion) bool { return !activeOnly || p.IsActive }), opts)
}

func (r *fakePromotionRepo) DeactivateExpired(ctx context.Context, today time.Time) (int64, error) {
	var n int64
	for _, p := range r.filter(true, func(p *models.Promotion) bool { return p.IsActive && p.EndDate.Before(today) }) {
		p.IsActive = false
		if err := r.Update(ctx, &p); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

type fakeTransactionRepo struct {
	*memRepo[models.FinancialTransaction, *models.FinancialTransaction]
}

func (r *fakeTransactionRepo) List(_ context.Context, f repositories.TransactionFilter, opts repositories.FindOptions) ([]models.FinancialTransaction, int64, error) {
	return pageOf(r.filter(opts.IncludeDeleted, func(t *models.FinancialTransaction) bool {
		return (f.Type == nil || t.Type == *f.Type) &&
			(f.From == nil || !t.TransactionDate.Before(*f.From)) &&
			(f.To == nil || t.TransactionDate.Before(*f.To))
	}), opts)
}

// --- realtime ---

type published struct {
	UserID uuid.UUID
	Event  *realtime.NotificationEvent
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) PublishNotification(_ context.Context, userID uuid.UUID, event *realtime.NotificationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{UserID: userID, Event: event})
	return nil
}

func (p *fakePublisher) sent() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ===========================================================================
// Catalog Service
// Danh mục thủ thuật (Owner) và vật tư (Assistant, Owner)
// ===========================================================================

var suppliesManagers = []models.UserRole{models.RoleAssistant, models.RoleOwner}

// ProcedureInput dữ liệu chung khi tạo/sửa thủ thuật
type ProcedureInput struct {
	Name           string          `json:"name" validate:"required,max=255"`
	Type           *string         `json:"type" validate:"omitempty,max=100"`
	Description    *string         `json:"description"`
	Price          decimal.Decimal `json:"price"`
	WarrantyMonths int             `json:"warranty_months" validate:"gte=0"`
}

func (in ProcedureInput) Validate() error {
	if in.Price.IsNegative() {
		return apperrors.Invalid(messages.InvalidPrice)
	}
	return nil
}

// CreateProcedureCommand tạo thủ thuật
type CreateProcedureCommand struct {
	ProcedureInput
}

func (CreateProcedureCommand) AllowedRoles() []models.UserRole { return ownerOnly }

// UpdateProcedureCommand sửa thủ thuật
type UpdateProcedureCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
	ProcedureInput
}

func (UpdateProcedureCommand) AllowedRoles() []models.UserRole { return ownerOnly }

// ToggleProcedureCommand ẩn/hiện thủ thuật
type ToggleProcedureCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ToggleProcedureCommand) AllowedRoles() []models.UserRole { return ownerOnly }

// ListProceduresQuery danh sách thủ thuật, ai cũng xem được
// Chỉ Owner và Administrator thấy thủ thuật đã ẩn
type ListProceduresQuery struct {
	ListParams
}

// SuppliesInput dữ liệu chung khi tạo/sửa vật tư
type SuppliesInput struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Unit       string          `json:"unit" validate:"required,max=50"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	ExpiryDate string          `json:"expiry_date"`
}

func (in SuppliesInput) Validate() error {
	if in.Quantity < 0 {
		return apperrors.Invalid(messages.InvalidQuantity)
	}
	if in.Price.IsNegative() {
		return apperrors.Invalid(messages.InvalidPrice)
	}
	return nil
}

// CreateSuppliesCommand nhập vật tư mới
type CreateSuppliesCommand struct {
	SuppliesInput
}

func (CreateSuppliesCommand) AllowedRoles() []models.UserRole { return suppliesManagers }

// UpdateSuppliesCommand sửa vật tư
type UpdateSuppliesCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
	SuppliesInput
}

func (UpdateSuppliesCommand) AllowedRoles() []models.UserRole { return suppliesManagers }

// ToggleSuppliesCommand ẩn/hiện vật tư
type ToggleSuppliesCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ToggleSuppliesCommand) AllowedRoles() []models.UserRole { return suppliesManagers }

// ListSuppliesQuery danh sách vật tư
type ListSuppliesQuery struct {
	ListParams
}

func (ListSuppliesQuery) AllowedRoles() []models.UserRole {
	return []models.UserRole{models.RoleAssistant, models.RoleOwner, models.RoleDentist}
}

// CatalogService xử lý thủ thuật và vật tư
type CatalogService struct {
	base
	procedures repositories.ProcedureRepository
	supplies   repositories.SuppliesRepository
}

// NewCatalogService tạo CatalogService
func NewCatalogService(
	procedures repositories.ProcedureRepository,
	supplies repositories.SuppliesRepository,
	logger *zap.Logger,
	loc *time.Location,
) *CatalogService {
	return &CatalogService{
		base:       newBase(logger, loc),
		procedures: procedures,
		supplies:   supplies,
	}
}

// --- Procedures ---

func (s *CatalogService) CreateProcedure(ctx context.Context, cmd CreateProcedureCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cmd.Name)
	if err := s.ensureProcedureName(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	proc := &models.Procedure{
		Name:           name,
		Type:           cmd.Type,
		Description:    cmd.Description,
		Price:          cmd.Price,
		WarrantyMonths: cmd.WarrantyMonths,
	}
	proc.MarkCreated(p.UserID, s.now())
	if err := s.procedures.Create(ctx, proc); err != nil {
		return nil, duplicate(err, messages.ProcedureExists)
	}
	return result(messages.CreateSuccess, &proc.ID), nil
}

func (s *CatalogService) UpdateProcedure(ctx context.Context, cmd UpdateProcedureCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	proc, err := s.procedures.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, notFound(err, messages.ProcedureNotFound)
	}
	name := strings.TrimSpace(cmd.Name)
	if err := s.ensureProcedureName(ctx, name, proc.ID); err != nil {
		return nil, err
	}

	proc.Name = name
	proc.Type = cmd.Type
	proc.Description = cmd.Description
	proc.Price = cmd.Price
	proc.WarrantyMonths = cmd.WarrantyMonths
	proc.MarkUpdated(p.UserID, s.now())
	if err := s.procedures.Update(ctx, proc); err != nil {
		return nil, duplicate(err, messages.ProcedureExists)
	}
	return result(messages.UpdateSuccess, &proc.ID), nil
}

func (s *CatalogService) ToggleProcedure(ctx context.Context, cmd ToggleProcedureCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	proc, err := s.procedures.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, notFound(err, messages.ProcedureNotFound)
	}
	proc.ToggleDeleted(p.UserID, s.now())
	if err := s.procedures.Update(ctx, proc); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &proc.ID), nil
}

func (s *CatalogService) ListProcedures(ctx context.Context, q ListProceduresQuery) (*PageResult[models.Procedure], error) {
	opts := q.options()
	if p, err := actor(ctx); err == nil && p.HasRole(models.RoleOwner, models.RoleAdmin) {
		opts.IncludeDeleted = true
	}
	items, total, err := s.procedures.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

// ensureProcedureName tên thủ thuật không được trùng với thủ thuật khác
func (s *CatalogService) ensureProcedureName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.procedures.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != self {
		return apperrors.Conflict(messages.ProcedureExists)
	}
	return nil
}

// --- Supplies ---

func (s *CatalogService) CreateSupplies(ctx context.Context, cmd CreateSuppliesCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	expiry, err := s.expiry(cmd.ExpiryDate)
	if err != nil {
		return nil, err
	}

	item := &models.Supplies{
		Name:       strings.TrimSpace(cmd.Name),
		Unit:       cmd.Unit,
		Quantity:   cmd.Quantity,
		Price:      cmd.Price,
		ExpiryDate: expiry,
	}
	if existing, err := s.supplies.FindByName(ctx, item.Name); err == nil && existing != nil {
		return nil, apperrors.Conflict(messages.SuppliesExists)
	}
	item.MarkCreated(p.UserID, s.now())
	if err := s.supplies.Create(ctx, item); err != nil {
		return nil, duplicate(err, messages.SuppliesExists)
	}
	return result(messages.CreateSuccess, &item.ID), nil
}

func (s *CatalogService) UpdateSupplies(ctx context.Context, cmd UpdateSuppliesCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.supplies.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, notFound(err, messages.SuppliesNotFound)
	}
	expiry, err := s.expiry(cmd.ExpiryDate)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cmd.Name)
	if existing, err := s.supplies.FindByName(ctx, name); err == nil && existing.ID != item.ID {
		return nil, apperrors.Conflict(messages.SuppliesExists)
	}

	item.Name = name
	item.Unit = cmd.Unit
	item.Quantity = cmd.Quantity
	item.Price = cmd.Price
	item.ExpiryDate = expiry
	item.MarkUpdated(p.UserID, s.now())
	if err := s.supplies.Update(ctx, item); err != nil {
		return nil, duplicate(err, messages.SuppliesExists)
	}
	return result(messages.UpdateSuccess, &item.ID), nil
}

func (s *CatalogService) ToggleSupplies(ctx context.Context, cmd ToggleSuppliesCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.supplies.FindByID(ctx, cmd.ID)
	if err != nil {
		return nil, notFound(err, messages.SuppliesNotFound)
	}
	item.ToggleDeleted(p.UserID, s.now())
	if err := s.supplies.Update(ctx, item); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &item.ID), nil
}

func (s *CatalogService) ListSupplies(ctx context.Context, q ListSuppliesQuery) (*PageResult[models.Supplies], error) {
	opts := q.options()
	opts.IncludeDeleted = true
	items, total, err := s.supplies.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

func (s *CatalogService) expiry(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := s.parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// RegisterCatalogHandlers đăng ký handler lên mediator
func RegisterCatalogHandlers(m *mediator.Mediator, s *CatalogService) {
	mediator.Register[CreateProcedureCommand, *MessageResult](m, mediator.HandlerFunc[CreateProcedureCommand, *MessageResult](s.CreateProcedure))
	mediator.Register[UpdateProcedureCommand, *MessageResult](m, mediator.HandlerFunc[UpdateProcedureCommand, *MessageResult](s.UpdateProcedure))
	mediator.Register[ToggleProcedureCommand, *MessageResult](m, mediator.HandlerFunc[ToggleProcedureCommand, *MessageResult](s.ToggleProcedure))
	mediator.Register[ListProceduresQuery, *PageResult[models.Procedure]](m, mediator.HandlerFunc[ListProceduresQuery, *PageResult[models.Procedure]](s.ListProcedures))

	mediator.Register[CreateSuppliesCommand, *MessageResult](m, mediator.HandlerFunc[CreateSuppliesCommand, *MessageResult](s.CreateSupplies))
	mediator.Register[UpdateSuppliesCommand, *MessageResult](m, mediator.HandlerFunc[UpdateSuppliesCommand, *MessageResult](s.UpdateSupplies))
	mediator.Register[ToggleSuppliesCommand, *MessageResult](m, mediator.HandlerFunc[ToggleSuppliesCommand, *MessageResult](s.ToggleSupplies))
	mediator.Register[ListSuppliesQuery, *PageResult[models.Supplies]](m, mediator.HandlerFunc[ListSuppliesQuery, *PageResult[models.Supplies]](s.ListSupplies))
}

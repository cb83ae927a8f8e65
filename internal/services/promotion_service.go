package services

import (
	"context"
	"fmt"
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
// Promotion Service
// Chương trình khuyến mãi theo thủ thuật, tự tắt khi quá hạn
// ===========================================================================

var hundred = decimal.NewFromInt(100)

// PromotionProcedureInput mức giảm cho một thủ thuật
type PromotionProcedureInput struct {
	ProcedureID     uuid.UUID       `json:"procedure_id" validate:"required"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreatePromotionCommand tạo chương trình khuyến mãi
type CreatePromotionCommand struct {
	Title       string                    `json:"title" validate:"required,max=255"`
	Description *string                   `json:"description"`
	StartDate   string                    `json:"start_date" validate:"required"`
	EndDate     string                    `json:"end_date" validate:"required"`
	Procedures  []PromotionProcedureInput `json:"procedures" validate:"required,min=1,dive"`
}

func (CreatePromotionCommand) AllowedRoles() []models.UserRole { return ownerOnly }

func (c CreatePromotionCommand) Validate() error {
	for _, p := range c.Procedures {
		if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(hundred) {
			return apperrors.Invalid(messages.InvalidDiscount)
		}
	}
	return nil
}

// TogglePromotionCommand bật/tắt chương trình
type TogglePromotionCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (TogglePromotionCommand) AllowedRoles() []models.UserRole { return ownerOnly }

// ListPromotionsQuery danh sách khuyến mãi, ai cũng xem được
// Ngoài Owner chỉ thấy chương trình đang chạy
type ListPromotionsQuery struct {
	ListParams
	ActiveOnly bool `form:"active_only" json:"active_only"`
}

// PromotionService xử lý khuyến mãi
type PromotionService struct {
	base
	promotions repositories.PromotionRepository
	procedures repositories.ProcedureRepository
	notifier   *Notifier
}

// NewPromotionService tạo PromotionService
func NewPromotionService(
	promotions repositories.PromotionRepository,
	procedures repositories.ProcedureRepository,
	notifier *Notifier,
	logger *zap.Logger,
	loc *time.Location,
) *PromotionService {
	return &PromotionService{
		base:       newBase(logger, loc),
		promotions: promotions,
		procedures: procedures,
		notifier:   notifier,
	}
}

func (s *PromotionService) Create(ctx context.Context, cmd CreatePromotionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	start, err := s.parseDate(cmd.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := s.parseDate(cmd.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperrors.Invalid(messages.InvalidDateRange)
	}
	if end.Before(s.today()) {
		return nil, apperrors.Invalid(messages.DateInPast)
	}

	now := s.now()
	promo := &models.Promotion{
		Title:       cmd.Title,
		Description: cmd.Description,
		StartDate:   start,
		EndDate:     end,
		IsActive:    true,
	}
	seen := make(map[uuid.UUID]bool, len(cmd.Procedures))
	for _, in := range cmd.Procedures {
		if seen[in.ProcedureID] {
			continue
		}
		seen[in.ProcedureID] = true
		if _, err := findLive[models.Procedure](ctx, s.procedures, in.ProcedureID, messages.ProcedureNotFound); err != nil {
			return nil, err
		}
		item := models.PromotionProcedure{
			ProcedureID:     in.ProcedureID,
			DiscountPercent: in.DiscountPercent,
		}
		item.MarkCreated(p.UserID, now)
		promo.Procedures = append(promo.Procedures, item)
	}
	promo.MarkCreated(p.UserID, now)

	if err := s.promotions.Create(ctx, promo); err != nil {
		return nil, err
	}

	s.notifier.NotifyRoles(ctx, []models.UserRole{models.RolePatient}, SendNotificationCommand{
		Title:           promo.Title,
		Message:         fmt.Sprintf("Chương trình khuyến mãi từ %s đến %s", start.Format("02/01/2006"), end.Format("02/01/2006")),
		Type:            models.NotificationPromotion,
		RelatedObjectID: &promo.ID,
		MappingURL:      ptr("/promotions"),
	})

	return result(messages.CreateSuccess, &promo.ID), nil
}

func (s *PromotionService) Toggle(ctx context.Context, cmd TogglePromotionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	promo, err := findLive[models.Promotion](ctx, s.promotions, cmd.ID, messages.PromotionNotFound)
	if err != nil {
		return nil, err
	}
	promo.IsActive = !promo.IsActive
	promo.MarkUpdated(p.UserID, s.now())
	if err := s.promotions.Update(ctx, promo); err != nil {
		return nil, err
	}
	return result(messages.ToggleSuccess, &promo.ID), nil
}

func (s *PromotionService) List(ctx context.Context, q ListPromotionsQuery) (*PageResult[models.Promotion], error) {
	activeOnly := q.ActiveOnly
	if p, err := actor(ctx); err != nil || !p.HasRole(models.RoleOwner) {
		activeOnly = true
	}
	items, total, err := s.promotions.List(ctx, activeOnly, q.options())
	if err != nil {
		return nil, err
	}
	today := s.today()
	for i := range items {
		items[i].Expired = items[i].IsExpired(today)
	}
	return newPage(q.ListParams, items, total), nil
}

// DeactivateExpired tắt các chương trình đã qua EndDate, dùng cho job hằng ngày
func (s *PromotionService) DeactivateExpired(ctx context.Context) (int64, error) {
	n, err := s.promotions.DeactivateExpired(ctx, s.today())
	if err != nil {
		return 0, wrap("deactivate expired promotions", err)
	}
	if n > 0 {
		s.logger.Info("expired promotions deactivated", zap.Int64("count", n))
	}
	return n, nil
}

// RegisterPromotionHandlers đăng ký handler lên mediator
func RegisterPromotionHandlers(m *mediator.Mediator, s *PromotionService) {
	mediator.Register[CreatePromotionCommand, *MessageResult](m, mediator.HandlerFunc[CreatePromotionCommand, *MessageResult](s.Create))
	mediator.Register[TogglePromotionCommand, *MessageResult](m, mediator.HandlerFunc[TogglePromotionCommand, *MessageResult](s.Toggle))
	mediator.Register[ListPromotionsQuery, *PageResult[models.Promotion]](m, mediator.HandlerFunc[ListPromotionsQuery, *PageResult[models.Promotion]](s.List))
}

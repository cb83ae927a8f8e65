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
// Transaction Service
// Phiếu thu chi, lễ tân lập phiếu và chủ phòng khám duyệt
// ===========================================================================

var financeRoles = []models.UserRole{models.RoleReceptionist, models.RoleOwner}

// CreateTransactionCommand lập phiếu thu/chi
type CreateTransactionCommand struct {
	TransactionDate string                 `json:"transaction_date"`
	Description     string                 `json:"description" validate:"required"`
	Type            models.TransactionType `json:"type" validate:"required,oneof=income expense"`
	Category        *string                `json:"category" validate:"omitempty,max=100"`
	PaymentMethod   models.PaymentMethod   `json:"payment_method" validate:"required,oneof=cash transfer"`
	Amount          decimal.Decimal        `json:"amount"`
}

func (CreateTransactionCommand) AllowedRoles() []models.UserRole { return financeRoles }

func (c CreateTransactionCommand) Validate() error {
	if !c.Amount.IsPositive() {
		return apperrors.Invalid(messages.InvalidAmount)
	}
	return nil
}

// ApproveTransactionCommand chủ phòng khám duyệt phiếu
type ApproveTransactionCommand struct {
	ID uuid.UUID `json:"-" validate:"required"`
}

func (ApproveTransactionCommand) AllowedRoles() []models.UserRole { return ownerOnly }

// ListTransactionsQuery danh sách phiếu thu chi
type ListTransactionsQuery struct {
	ListParams
	Type models.TransactionType `form:"type" json:"type" validate:"omitempty,oneof=income expense"`
	From string                 `form:"from" json:"from"`
	To   string                 `form:"to" json:"to"`
}

func (ListTransactionsQuery) AllowedRoles() []models.UserRole { return financeRoles }

// TransactionService xử lý thu chi
type TransactionService struct {
	base
	transactions repositories.FinancialTransactionRepository
	notifier     *Notifier
}

// NewTransactionService tạo TransactionService
func NewTransactionService(transactions repositories.FinancialTransactionRepository, notifier *Notifier, logger *zap.Logger, loc *time.Location) *TransactionService {
	return &TransactionService{
		base:         newBase(logger, loc),
		transactions: transactions,
		notifier:     notifier,
	}
}

// Create phiếu do Owner lập được duyệt luôn, phiếu do lễ tân lập chờ Owner duyệt
func (s *TransactionService) Create(ctx context.Context, cmd CreateTransactionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	date := now
	if cmd.TransactionDate != "" {
		if date, err = s.parseDate(cmd.TransactionDate); err != nil {
			return nil, err
		}
	}

	tx := &models.FinancialTransaction{
		TransactionDate: date,
		Description:     cmd.Description,
		Type:            cmd.Type,
		Category:        cmd.Category,
		PaymentMethod:   cmd.PaymentMethod,
		Amount:          cmd.Amount,
	}
	tx.MarkCreated(p.UserID, now)
	if p.Role == models.RoleOwner {
		tx.Confirm(p.UserID, now)
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	if !tx.IsConfirmed {
		kind := "thu"
		if tx.Type == models.TransactionExpense {
			kind = "chi"
		}
		s.notifier.NotifyRoles(ctx, ownerOnly, SendNotificationCommand{
			Title:           "Phiếu thu chi chờ duyệt",
			Message:         fmt.Sprintf("Phiếu %s %s đồng: %s", kind, tx.Amount.StringFixed(0), tx.Description),
			Type:            models.NotificationFinance,
			RelatedObjectID: &tx.ID,
			MappingURL:      ptr("/transactions"),
		})
	}

	return result(messages.CreateSuccess, &tx.ID), nil
}

func (s *TransactionService) Approve(ctx context.Context, cmd ApproveTransactionCommand) (*MessageResult, error) {
	p, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := findLive[models.FinancialTransaction](ctx, s.transactions, cmd.ID, messages.TransactionNotFound)
	if err != nil {
		return nil, err
	}
	if tx.IsConfirmed {
		return nil, apperrors.Conflict(messages.TransactionConfirmed)
	}
	tx.Confirm(p.UserID, s.now())
	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, err
	}
	return result(messages.ApproveSuccess, &tx.ID), nil
}

func (s *TransactionService) List(ctx context.Context, q ListTransactionsQuery) (*PageResult[models.FinancialTransaction], error) {
	var filter repositories.TransactionFilter
	if q.Type != "" {
		filter.Type = &q.Type
	}
	if q.From != "" {
		from, err := s.parseDate(q.From)
		if err != nil {
			return nil, err
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := s.parseDate(q.To)
		if err != nil {
			return nil, err
		}
		// lấy hết ngày To
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.To.After(*filter.From) {
		return nil, apperrors.Invalid(messages.InvalidDateRange)
	}

	items, total, err := s.transactions.List(ctx, filter, q.options())
	if err != nil {
		return nil, err
	}
	return newPage(q.ListParams, items, total), nil
}

// RegisterTransactionHandlers đăng ký handler lên mediator
func RegisterTransactionHandlers(m *mediator.Mediator, s *TransactionService) {
	mediator.Register[CreateTransactionCommand, *MessageResult](m, mediator.HandlerFunc[CreateTransactionCommand, *MessageResult](s.Create))
	mediator.Register[ApproveTransactionCommand, *MessageResult](m, mediator.HandlerFunc[ApproveTransactionCommand, *MessageResult](s.Approve))
	mediator.Register[ListTransactionsQuery, *PageResult[models.FinancialTransaction]](m, mediator.HandlerFunc[ListTransactionsQuery, *PageResult[models.FinancialTransaction]](s.List))
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalclinic/internal/auth"
	apperrors "dentalclinic/internal/errors"
	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"
	"dentalclinic/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ===========================================================================
// Kiểu dùng chung cho các command handler
// ===========================================================================

// dateLayout định dạng ngày trong request (YYYY-MM-DD)
const dateLayout = "2006-01-02"

// timeLayout giờ hẹn (HH:MM)
const timeLayout = "15:04"

// Nhóm role hay dùng trong AllowedRoles
var (
	allRoles = []models.UserRole{
		models.RoleAdmin, models.RoleOwner, models.RoleDentist,
		models.RoleAssistant, models.RoleReceptionist, models.RolePatient,
	}
	staffRoles          = models.StaffRoles
	staffAndPatient     = append(append([]models.UserRole{}, models.StaffRoles...), models.RolePatient)
	ownerOnly           = []models.UserRole{models.RoleOwner}
	adminOnly           = []models.UserRole{models.RoleAdmin}
	dentistOnly         = []models.UserRole{models.RoleDentist}
	dentistAndAssistant = []models.UserRole{models.RoleDentist, models.RoleAssistant}
)

// MessageResult kết quả của command ghi dữ liệu
type MessageResult struct {
	Code    messages.Code `json:"message_code"`
	Message string        `json:"message"`
	ID      *uuid.UUID    `json:"id,omitempty"`
}

func result(code messages.Code, id *uuid.UUID) *MessageResult {
	return &MessageResult{Code: code, Message: code.Text(), ID: id}
}

// PageResult kết quả của query danh sách
type PageResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ListParams tham số phân trang chung
type ListParams struct {
	Page   int    `form:"page" json:"page" validate:"gte=0"`
	Limit  int    `form:"limit" json:"limit" validate:"gte=0,lte=100"`
	Search string `form:"q" json:"q" validate:"max=100"`
}

func (p ListParams) options() repositories.FindOptions {
	page, limit := p.normalized()
	return repositories.FindOptions{
		Offset: (page - 1) * limit,
		Limit:  limit,
		Search: p.Search,
	}
}

func (p ListParams) normalized() (int, int) {
	page, limit := p.Page, p.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return page, limit
}

func newPage[T any](p ListParams, items []T, total int64) *PageResult[T] {
	page, limit := p.normalized()
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Total: total, Page: page, Limit: limit}
}

// ===========================================================================
// base chứa phụ thuộc chung của mọi service
// ===========================================================================

type base struct {
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
}

func newBase(logger *zap.Logger, loc *time.Location) base {
	if loc == nil {
		loc = time.Local
	}
	return base{logger: logger, now: time.Now, loc: loc}
}

// today 00:00 theo múi giờ phòng khám
func (b base) today() time.Time {
	n := b.now().In(b.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, b.loc)
}

// parseDate đọc ngày YYYY-MM-DD theo múi giờ phòng khám
func (b base) parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, b.loc)
	if err != nil {
		return time.Time{}, apperrors.Invalid(messages.InvalidInput)
	}
	return t, nil
}

// optionalDate trả về ngày trong request hoặc hôm nay nếu bỏ trống
func (b base) optionalDate(s string) (time.Time, error) {
	if s == "" {
		return b.today(), nil
	}
	return b.parseDate(s)
}

// actor lấy người đang gọi từ context
func actor(ctx context.Context) (auth.Principal, error) {
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok {
		return auth.Principal{}, apperrors.WithMessage(apperrors.ErrUnauthorized, messages.Unauthorized)
	}
	return p, nil
}

// notFound đổi ErrNotFound của repository thành lỗi có thông báo riêng
func notFound(err error, code messages.Code) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound(code)
	}
	return err
}

// duplicate đổi ErrDuplicateEntry của repository thành lỗi xung đột có thông báo
func duplicate(err error, code messages.Code) error {
	if errors.Is(err, apperrors.ErrDuplicateEntry) {
		return apperrors.Conflict(code)
	}
	return err
}

// findLive tìm record chưa bị xóa mềm
func findLive[T any, PT interface {
	*T
	Deleted() bool
}](ctx context.Context, repo repositories.Repository[T], id uuid.UUID, code messages.Code) (*T, error) {
	entity, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, code)
	}
	if PT(entity).Deleted() {
		return nil, apperrors.NotFound(code)
	}
	return entity, nil
}

func ptr[T any](v T) *T { return &v }

func wrap(op string, err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

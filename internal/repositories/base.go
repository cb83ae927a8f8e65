package repositories

import (
	"context"
	"errors"

	apperrors "dentalclinic/internal/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ===========================================================================
// Repository Base Interfaces và Types
// Các interface và struct dùng chung cho tất cả repositories
// ===========================================================================

// pgUniqueViolation mã lỗi Postgres khi vi phạm unique constraint
const pgUniqueViolation = "23505"

// FindOptions tùy chọn query cho các method List
type FindOptions struct {
	// Offset vị trí bắt đầu (cho phân trang)
	Offset int

	// Limit số lượng records tối đa
	Limit int

	// OrderBy cột để sắp xếp
	OrderBy string

	// OrderDir hướng sắp xếp: "asc" hoặc "desc"
	OrderDir string

	// Search từ khóa tìm kiếm (mỗi repo tự chọn cột)
	Search string

	// IncludeDeleted lấy cả record đã xóa mềm
	IncludeDeleted bool
}

// SetDefaults thiết lập giá trị mặc định cho FindOptions
func (o *FindOptions) SetDefaults() {
	if o.Limit == 0 {
		o.Limit = 20
	}
	if o.OrderBy == "" {
		o.OrderBy = "created_at"
	}
	if o.OrderDir != "asc" {
		o.OrderDir = "desc"
	}
}

// GetOrderClause trả về chuỗi ORDER BY
func (o *FindOptions) GetOrderClause() string {
	return o.OrderBy + " " + o.OrderDir
}

// ===========================================================================
// Generic Repository
// ===========================================================================

// Repository interface cơ bản cho tất cả repositories
type Repository[T any] interface {
	// FindByID tìm record theo ID (kể cả record đã xóa mềm)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)

	// Create tạo record mới
	Create(ctx context.Context, entity *T) error

	// Update cập nhật toàn bộ record
	Update(ctx context.Context, entity *T) error
}

// baseRepo triển khai CRUD chung bằng GORM, được embed vào các repo cụ thể
type baseRepo[T any] struct {
	db *gorm.DB
}

func (r *baseRepo[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

func (r *baseRepo[T]) Create(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Create(entity).Error)
}

func (r *baseRepo[T]) Update(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Save(entity).Error)
}

// findOne chạy query và lấy record đầu tiên
func findOne[T any](query *gorm.DB) (*T, error) {
	var entity T
	if err := query.First(&entity).Error; err != nil {
		return nil, translateError(err)
	}
	return &entity, nil
}

// paginate đếm tổng rồi lấy một trang theo opts
// preloads chỉ áp dụng cho câu lấy dữ liệu, không áp cho câu đếm
func paginate[T any](query *gorm.DB, opts FindOptions, preloads ...string) ([]T, int64, error) {
	opts.SetDefaults()

	var total int64
	var items []T

	if !opts.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	if err := query.Session(&gorm.Session{}).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	for _, p := range preloads {
		query = query.Preload(p)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}
	if err := query.Order(opts.GetOrderClause()).Find(&items).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return items, total, nil
}

// translateError chuyển lỗi GORM/Postgres sang lỗi chuẩn của ứng dụng
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Wrap(apperrors.ErrDuplicateEntry, err.Error())
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperrors.Wrap(apperrors.ErrDuplicateEntry, pgErr.ConstraintName)
	}
	return err
}

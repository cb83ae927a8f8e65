package repositories

import (
	"context"

	"dentalclinic/internal/models"

	"gorm.io/gorm"
)

// ===========================================================================
// Procedure & Supplies Repository Implementation
// ===========================================================================

type procedureRepo struct {
	baseRepo[models.Procedure]
}

// NewProcedureRepository tạo procedure repository mới
func NewProcedureRepository(db *gorm.DB) ProcedureRepository {
	return &procedureRepo{baseRepo[models.Procedure]{db: db}}
}

func (r *procedureRepo) FindByName(ctx context.Context, name string) (*models.Procedure, error) {
	return findOne[models.Procedure](r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name))
}

func (r *procedureRepo) List(ctx context.Context, opts FindOptions) ([]models.Procedure, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Procedure{})
	if opts.Search != "" {
		query = query.Where("name ILIKE ?", "%"+opts.Search+"%")
	}
	if opts.OrderBy == "" {
		opts.OrderBy, opts.OrderDir = "name", "asc"
	}
	return paginate[models.Procedure](query, opts)
}

type suppliesRepo struct {
	baseRepo[models.Supplies]
}

// NewSuppliesRepository tạo supplies repository mới
func NewSuppliesRepository(db *gorm.DB) SuppliesRepository {
	return &suppliesRepo{baseRepo[models.Supplies]{db: db}}
}

func (r *suppliesRepo) FindByName(ctx context.Context, name string) (*models.Supplies, error) {
	return findOne[models.Supplies](r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name))
}

func (r *suppliesRepo) List(ctx context.Context, opts FindOptions) ([]models.Supplies, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Supplies{})
	if opts.Search != "" {
		query = query.Where("name ILIKE ?", "%"+opts.Search+"%")
	}
	return paginate[models.Supplies](query, opts)
}

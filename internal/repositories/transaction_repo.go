package repositories

import (
	"context"

	"dentalclinic/internal/models"

	"gorm.io/gorm"
)

type financialTransactionRepo struct {
	baseRepo[models.FinancialTransaction]
}

// NewFinancialTransactionRepository tạo financial transaction repository mới
func NewFinancialTransactionRepository(db *gorm.DB) FinancialTransactionRepository {
	return &financialTransactionRepo{baseRepo[models.FinancialTransaction]{db: db}}
}

func (r *financialTransactionRepo) List(ctx context.Context, filter TransactionFilter, opts FindOptions) ([]models.FinancialTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.FinancialTransaction{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date < ?", *filter.To)
	}
	if opts.OrderBy == "" {
		opts.OrderBy = "transaction_date"
	}
	return paginate[models.FinancialTransaction](query, opts)
}

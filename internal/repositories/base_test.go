package repositories

import (
	"fmt"
	"testing"

	apperrors "dentalclinic/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	assert.Nil(t, translateError(nil))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), apperrors.ErrNotFound)
	assert.ErrorIs(t, translateError(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)), apperrors.ErrNotFound)
	assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), apperrors.ErrDuplicateEntry)

	pgErr := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "idx_users_phone"}
	err := translateError(fmt.Errorf("insert: %w", pgErr))
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEntry)
	assert.Contains(t, err.Error(), "idx_users_phone")

	other := &pgconn.PgError{Code: "23503"}
	assert.NotErrorIs(t, translateError(other), apperrors.ErrDuplicateEntry)
}

func TestFindOptions_Defaults(t *testing.T) {
	opts := FindOptions{}
	opts.SetDefaults()

	assert.Equal(t, 20, opts.Limit)
	assert.Equal(t, "created_at desc", opts.GetOrderClause())

	opts = FindOptions{OrderBy: "name", OrderDir: "asc", Limit: 5}
	opts.SetDefaults()
	assert.Equal(t, "name asc", opts.GetOrderClause())
	assert.Equal(t, 5, opts.Limit)
}

package services

import (
	"context"
	"testing"
	"time"

	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePromotion_NotifiesPatients(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)
	pu, _ := env.seedPatient(t)
	proc := env.seedProcedure(t, "Tẩy trắng", 1500000)

	res, err := send[CreatePromotionCommand, *MessageResult](as(owner), env, CreatePromotionCommand{
		Title:     "Ưu đãi mùa hè",
		StartDate: "2025-06-10",
		EndDate:   "2025-06-30",
		Procedures: []PromotionProcedureInput{
			{ProcedureID: proc.ID, DiscountPercent: decimal.NewFromInt(20)},
			{ProcedureID: proc.ID, DiscountPercent: decimal.NewFromInt(30)},
		},
	})
	require.NoError(t, err)

	promo, err := env.promotions.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.True(t, promo.IsActive)
	require.Len(t, promo.Procedures, 1)
	assert.True(t, promo.Procedures[0].DiscountPercent.Equal(decimal.NewFromInt(20)))
	assert.Len(t, env.notificationsFor(pu.ID), 1)
	assert.Empty(t, env.notificationsFor(owner.ID))
}

func TestCreatePromotion_Rules(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)
	proc := env.seedProcedure(t, "Tẩy trắng", 1)
	items := []PromotionProcedureInput{{ProcedureID: proc.ID, DiscountPercent: decimal.NewFromInt(10)}}

	tests := []struct {
		name string
		cmd  CreatePromotionCommand
		code messages.Code
	}{
		{
			name: "discount above 100",
			cmd: CreatePromotionCommand{Title: "x", StartDate: "2025-06-10", EndDate: "2025-06-20",
				Procedures: []PromotionProcedureInput{{ProcedureID: proc.ID, DiscountPercent: decimal.NewFromInt(101)}}},
			code: messages.InvalidDiscount,
		},
		{
			name: "negative discount",
			cmd: CreatePromotionCommand{Title: "x", StartDate: "2025-06-10", EndDate: "2025-06-20",
				Procedures: []PromotionProcedureInput{{ProcedureID: proc.ID, DiscountPercent: decimal.NewFromInt(-1)}}},
			code: messages.InvalidDiscount,
		},
		{
			name: "end before start",
			cmd:  CreatePromotionCommand{Title: "x", StartDate: "2025-06-20", EndDate: "2025-06-15", Procedures: items},
			code: messages.InvalidDateRange,
		},
		{
			name: "already ended",
			cmd:  CreatePromotionCommand{Title: "x", StartDate: "2025-05-01", EndDate: "2025-06-09", Procedures: items},
			code: messages.DateInPast,
		},
		{
			name: "no procedures",
			cmd:  CreatePromotionCommand{Title: "x", StartDate: "2025-06-10", EndDate: "2025-06-20"},
			code: messages.RequiredFields,
		},
		{
			name: "unknown procedure",
			cmd: CreatePromotionCommand{Title: "x", StartDate: "2025-06-10", EndDate: "2025-06-20",
				Procedures: []PromotionProcedureInput{{ProcedureID: uuid.New(), DiscountPercent: decimal.NewFromInt(5)}}},
			code: messages.ProcedureNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := send[CreatePromotionCommand, *MessageResult](as(owner), env, tt.cmd)
			requireCode(t, err, tt.code)
		})
	}
	assert.Zero(t, env.promotions.count())
}

func TestListPromotions_NonOwnerSeesActiveOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)
	pu, _ := env.seedPatient(t)

	ctx := context.Background()
	require.NoError(t, env.promotions.Create(ctx, &models.Promotion{Title: "on", EndDate: testNow, IsActive: true}))
	require.NoError(t, env.promotions.Create(ctx, &models.Promotion{Title: "off", EndDate: testNow, IsActive: false}))

	page, err := send[ListPromotionsQuery, *PageResult[models.Promotion]](as(pu), env, ListPromotionsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = send[ListPromotionsQuery, *PageResult[models.Promotion]](context.Background(), env, ListPromotionsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = send[ListPromotionsQuery, *PageResult[models.Promotion]](as(owner), env, ListPromotionsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestDeactivateExpired_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	yesterday := time.Date(2025, 6, 9, 0, 0, 0, 0, clinicZone)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, clinicZone)
	expired := &models.Promotion{Title: "cũ", EndDate: yesterday, IsActive: true}
	endsToday := &models.Promotion{Title: "hôm nay", EndDate: today, IsActive: true}
	require.NoError(t, env.promotions.Create(ctx, expired))
	require.NoError(t, env.promotions.Create(ctx, endsToday))

	n, err := env.svc.Promotions.DeactivateExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := env.promotions.FindByID(ctx, expired.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	got, err = env.promotions.FindByID(ctx, endsToday.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	n, err = env.svc.Promotions.DeactivateExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTogglePromotion_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)
	receptionist := env.seedUser(t, models.RoleReceptionist)
	promo := &models.Promotion{Title: "x", EndDate: testNow, IsActive: true}
	require.NoError(t, env.promotions.Create(context.Background(), promo))

	_, err := send[TogglePromotionCommand, *MessageResult](as(receptionist), env, TogglePromotionCommand{ID: promo.ID})
	requireCode(t, err, messages.Forbidden)

	_, err = send[TogglePromotionCommand, *MessageResult](as(owner), env, TogglePromotionCommand{ID: promo.ID})
	require.NoError(t, err)
	got, err := env.promotions.FindByID(context.Background(), promo.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestListPromotions_FlagsExpired(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)
	ctx := context.Background()

	ended := &models.Promotion{Title: "cũ", EndDate: time.Date(2025, 6, 9, 0, 0, 0, 0, clinicZone), IsActive: true}
	running := &models.Promotion{Title: "đang chạy", EndDate: time.Date(2025, 6, 10, 0, 0, 0, 0, clinicZone), IsActive: true}
	require.NoError(t, env.promotions.Create(ctx, ended))
	require.NoError(t, env.promotions.Create(ctx, running))

	page, err := send[ListPromotionsQuery, *PageResult[models.Promotion]](as(owner), env, ListPromotionsQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, promo := range page.Items {
		assert.Equal(t, promo.ID == ended.ID, promo.Expired, promo.Title)
	}
}

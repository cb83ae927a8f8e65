package services

import (
	"context"
	"testing"

	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProcedure_UniqueNameAndPrice(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)

	in := ProcedureInput{Name: "Trám răng", Price: decimal.NewFromInt(300000), WarrantyMonths: 6}
	_, err := send[CreateProcedureCommand, *MessageResult](as(owner), env, CreateProcedureCommand{in})
	require.NoError(t, err)

	_, err = send[CreateProcedureCommand, *MessageResult](as(owner), env, CreateProcedureCommand{in})
	requireCode(t, err, messages.ProcedureExists)

	negative := ProcedureInput{Name: "Nhổ răng", Price: decimal.NewFromInt(-1)}
	_, err = send[CreateProcedureCommand, *MessageResult](as(owner), env, CreateProcedureCommand{negative})
	requireCode(t, err, messages.InvalidPrice)

	receptionist := env.seedUser(t, models.RoleReceptionist)
	_, err = send[CreateProcedureCommand, *MessageResult](as(receptionist), env, CreateProcedureCommand{ProcedureInput{Name: "Khác"}})
	requireCode(t, err, messages.Forbidden)
}

func TestToggleProcedure_RecordsActorAndHidesFromPublic(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)
	proc := env.seedProcedure(t, "Cạo vôi", 200000)
	env.seedProcedure(t, "Tẩy trắng", 1500000)

	_, err := send[ToggleProcedureCommand, *MessageResult](as(owner), env, ToggleProcedureCommand{ID: proc.ID})
	require.NoError(t, err)

	stored, err := env.procedures.FindByID(context.Background(), proc.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	require.NotNil(t, stored.UpdatedBy)
	assert.Equal(t, owner.ID, *stored.UpdatedBy)
	assert.Equal(t, testNow, stored.UpdatedAt)

	public, err := send[ListProceduresQuery, *PageResult[models.Procedure]](context.Background(), env, ListProceduresQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, public.Total)

	all, err := send[ListProceduresQuery, *PageResult[models.Procedure]](as(owner), env, ListProceduresQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.Total)

	_, err = send[ToggleProcedureCommand, *MessageResult](as(owner), env, ToggleProcedureCommand{ID: proc.ID})
	require.NoError(t, err)
	stored, err = env.procedures.FindByID(context.Background(), proc.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)
}

func TestSupplies_Rules(t *testing.T) {
	env := newTestEnv(t)
	assistant := env.seedUser(t, models.RoleAssistant)
	dentist, _ := env.seedDentist(t)

	in := SuppliesInput{Name: "Găng tay", Unit: "hộp", Quantity: 10, Price: decimal.NewFromInt(50000), ExpiryDate: "2026-01-01"}
	res, err := send[CreateSuppliesCommand, *MessageResult](as(assistant), env, CreateSuppliesCommand{in})
	require.NoError(t, err)

	item, err := env.supplies.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	require.NotNil(t, item.ExpiryDate)
	assert.Equal(t, 2026, item.ExpiryDate.Year())

	bad := in
	bad.Name = "Khẩu trang"
	bad.Quantity = -1
	_, err = send[CreateSuppliesCommand, *MessageResult](as(assistant), env, CreateSuppliesCommand{bad})
	requireCode(t, err, messages.InvalidQuantity)

	_, err = send[CreateSuppliesCommand, *MessageResult](as(dentist), env, CreateSuppliesCommand{in})
	requireCode(t, err, messages.Forbidden)

	page, err := send[ListSuppliesQuery, *PageResult[models.Supplies]](as(dentist), env, ListSuppliesQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

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

func newIncome(amount int64) CreateTransactionCommand {
	return CreateTransactionCommand{
		Description:   "Thu tiền trám răng",
		Type:          models.TransactionIncome,
		PaymentMethod: models.PaymentCash,
		Amount:        decimal.NewFromInt(amount),
	}
}

func TestCreateTransaction_ReceptionistNeedsApproval(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)
	receptionist := env.seedUser(t, models.RoleReceptionist)

	res, err := send[CreateTransactionCommand, *MessageResult](as(receptionist), env, newIncome(500000))
	require.NoError(t, err)

	tx, err := env.transactions.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.False(t, tx.IsConfirmed)
	assert.Nil(t, tx.ConfirmedBy)
	assert.Len(t, env.notificationsFor(owner.ID), 1)

	approved, err := send[ApproveTransactionCommand, *MessageResult](as(owner), env, ApproveTransactionCommand{ID: tx.ID})
	require.NoError(t, err)
	assert.Equal(t, messages.ApproveSuccess, approved.Code)

	tx, err = env.transactions.FindByID(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.True(t, tx.IsConfirmed)
	require.NotNil(t, tx.ConfirmedBy)
	assert.Equal(t, owner.ID, *tx.ConfirmedBy)

	_, err = send[ApproveTransactionCommand, *MessageResult](as(owner), env, ApproveTransactionCommand{ID: tx.ID})
	requireCode(t, err, messages.TransactionConfirmed)
}

func TestCreateTransaction_OwnerAutoConfirmed(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)

	res, err := send[CreateTransactionCommand, *MessageResult](as(owner), env, newIncome(100000))
	require.NoError(t, err)

	tx, err := env.transactions.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.True(t, tx.IsConfirmed)
	assert.Empty(t, env.notificationsFor(owner.ID))
}

func TestCreateTransaction_Rules(t *testing.T) {
	env := newTestEnv(t)
	receptionist := env.seedUser(t, models.RoleReceptionist)
	dentist, _ := env.seedDentist(t)

	_, err := send[CreateTransactionCommand, *MessageResult](as(receptionist), env, newIncome(0))
	requireCode(t, err, messages.InvalidAmount)

	cmd := newIncome(10)
	cmd.PaymentMethod = "card"
	_, err = send[CreateTransactionCommand, *MessageResult](as(receptionist), env, cmd)
	requireCode(t, err, messages.InvalidInput)

	_, err = send[CreateTransactionCommand, *MessageResult](as(dentist), env, newIncome(10))
	requireCode(t, err, messages.Forbidden)

	_, err = send[ApproveTransactionCommand, *MessageResult](as(receptionist), env, ApproveTransactionCommand{ID: receptionist.ID})
	requireCode(t, err, messages.Forbidden)
}

func TestListTransactions_DateRange(t *testing.T) {
	env := newTestEnv(t)
	owner := env.seedUser(t, models.RoleOwner)

	for _, day := range []string{"2025-06-01", "2025-06-05", "2025-06-10"} {
		cmd := newIncome(1000)
		cmd.TransactionDate = day
		_, err := send[CreateTransactionCommand, *MessageResult](as(owner), env, cmd)
		require.NoError(t, err)
	}

	page, err := send[ListTransactionsQuery, *PageResult[models.FinancialTransaction]](as(owner), env, ListTransactionsQuery{From: "2025-06-05", To: "2025-06-10"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	_, err = send[ListTransactionsQuery, *PageResult[models.FinancialTransaction]](as(owner), env, ListTransactionsQuery{From: "2025-06-10", To: "2025-06-01"})
	requireCode(t, err, messages.InvalidDateRange)
}

package services

import (
	"context"
	"testing"
	"time"

	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTreatmentRecord_TotalAndDefaultPrice(t *testing.T) {
	env := newTestEnv(t)
	du, d := env.seedDentist(t)
	_, p := env.seedPatient(t)
	a := env.seedAppointment(t, p, d)
	proc := env.seedProcedure(t, "Trám răng", 300000)

	res, err := send[CreateTreatmentRecordCommand, *MessageResult](as(du), env, CreateTreatmentRecordCommand{
		AppointmentID:  a.ID,
		ProcedureID:    proc.ID,
		Quantity:       2,
		DiscountAmount: decimal.NewFromInt(100000),
	})
	require.NoError(t, err)

	rec, err := env.records.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.True(t, rec.UnitPrice.Equal(decimal.NewFromInt(300000)))
	assert.True(t, rec.TotalAmount.Equal(decimal.NewFromInt(500000)), rec.TotalAmount.String())
	assert.Equal(t, p.ID, rec.PatientID)
	assert.Equal(t, d.ID, rec.DentistID)
	assert.Equal(t, models.TreatmentPlanned, rec.Status)
}

func TestCreateTreatmentRecord_TotalNeverNegative(t *testing.T) {
	env := newTestEnv(t)
	du, d := env.seedDentist(t)
	_, p := env.seedPatient(t)
	a := env.seedAppointment(t, p, d)
	proc := env.seedProcedure(t, "Khám", 100000)

	res, err := send[CreateTreatmentRecordCommand, *MessageResult](as(du), env, CreateTreatmentRecordCommand{
		AppointmentID:  a.ID,
		ProcedureID:    proc.ID,
		Quantity:       1,
		DiscountAmount: decimal.NewFromInt(250000),
	})
	require.NoError(t, err)

	rec, err := env.records.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.True(t, rec.TotalAmount.IsZero())
}

func TestCreateTreatmentRecord_InvalidQuantity(t *testing.T) {
	env := newTestEnv(t)
	du, d := env.seedDentist(t)
	_, p := env.seedPatient(t)
	a := env.seedAppointment(t, p, d)
	proc := env.seedProcedure(t, "Khám", 100000)

	_, err := send[CreateTreatmentRecordCommand, *MessageResult](as(du), env, CreateTreatmentRecordCommand{
		AppointmentID: a.ID,
		ProcedureID:   proc.ID,
	})
	requireCode(t, err, messages.InvalidQuantity)
}

func TestCreateWarranty_EndDateAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	receptionist := env.seedUser(t, models.RoleReceptionist)
	_, d := env.seedDentist(t)
	_, p := env.seedPatient(t)
	a := env.seedAppointment(t, p, d)
	rec := env.seedRecord(t, a, env.seedProcedure(t, "Bọc sứ", 3000000))

	res, err := send[CreateWarrantyCardCommand, *MessageResult](as(receptionist), env, CreateWarrantyCardCommand{
		TreatmentRecordID: rec.ID,
		StartDate:         "2025-01-31",
		DurationMonths:    12,
	})
	require.NoError(t, err)

	card, err := env.warranties.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, clinicZone), card.EndDate)
	assert.Equal(t, p.ID, card.PatientID)
	assert.True(t, card.IsActive)

	_, err = send[CreateWarrantyCardCommand, *MessageResult](as(receptionist), env, CreateWarrantyCardCommand{
		TreatmentRecordID: rec.ID,
		DurationMonths:    6,
	})
	requireCode(t, err, messages.WarrantyExists)
	assert.Equal(t, 1, env.warranties.count())
}

func TestCreateWarranty_InvalidDuration(t *testing.T) {
	env := newTestEnv(t)
	assistant := env.seedUser(t, models.RoleAssistant)
	_, d := env.seedDentist(t)
	_, p := env.seedPatient(t)
	rec := env.seedRecord(t, env.seedAppointment(t, p, d), env.seedProcedure(t, "Bọc sứ", 1))

	_, err := send[CreateWarrantyCardCommand, *MessageResult](as(assistant), env, CreateWarrantyCardCommand{
		TreatmentRecordID: rec.ID,
		DurationMonths:    0,
	})
	requireCode(t, err, messages.InvalidDuration)
}

func TestToggleWarranty_RecordsActor(t *testing.T) {
	env := newTestEnv(t)
	assistant := env.seedUser(t, models.RoleAssistant)
	_, d := env.seedDentist(t)
	_, p := env.seedPatient(t)
	rec := env.seedRecord(t, env.seedAppointment(t, p, d), env.seedProcedure(t, "Bọc sứ", 1))

	res, err := send[CreateWarrantyCardCommand, *MessageResult](as(assistant), env, CreateWarrantyCardCommand{
		TreatmentRecordID: rec.ID,
		DurationMonths:    3,
	})
	require.NoError(t, err)

	_, err = send[ToggleWarrantyCardCommand, *MessageResult](as(assistant), env, ToggleWarrantyCardCommand{ID: *res.ID})
	require.NoError(t, err)

	card, err := env.warranties.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.False(t, card.IsActive)
	require.NotNil(t, card.UpdatedBy)
	assert.Equal(t, assistant.ID, *card.UpdatedBy)
	assert.Equal(t, time.Date(2025, 9, 10, 0, 0, 0, 0, clinicZone), card.EndDate)
}

func TestCreateProgress_NotifiesPatient(t *testing.T) {
	env := newTestEnv(t)
	du, d := env.seedDentist(t)
	pu, p := env.seedPatient(t)
	rec := env.seedRecord(t, env.seedAppointment(t, p, d), env.seedProcedure(t, "Niềng răng", 1))

	_, err := send[CreateTreatmentProgressCommand, *MessageResult](as(du), env, CreateTreatmentProgressCommand{
		TreatmentRecordID: rec.ID,
		ProgressName:      "Gắn mắc cài",
	})
	require.NoError(t, err)
	assert.Len(t, env.notificationsFor(pu.ID), 1)

	list, err := send[ListTreatmentProgressQuery, []models.TreatmentProgress](as(pu), env, ListTreatmentProgressQuery{TreatmentRecordID: rec.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ProgressPending, list[0].Status)

	stranger, _ := env.seedPatient(t)
	_, err = send[ListTreatmentProgressQuery, []models.TreatmentProgress](as(stranger), env, ListTreatmentProgressQuery{TreatmentRecordID: rec.ID})
	requireCode(t, err, messages.NotOwnResource)
}

func TestListTreatmentRecords_PatientSeesOwn(t *testing.T) {
	env := newTestEnv(t)
	_, d := env.seedDentist(t)
	pu, p := env.seedPatient(t)
	_, other := env.seedPatient(t)
	proc := env.seedProcedure(t, "Khám", 1)
	env.seedRecord(t, env.seedAppointment(t, p, d), proc)
	env.seedRecord(t, env.seedAppointment(t, other, d), proc)

	page, err := send[ListTreatmentRecordsQuery, *PageResult[models.TreatmentRecord]](as(pu), env, ListTreatmentRecordsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, err = send[ListTreatmentRecordsQuery, *PageResult[models.TreatmentRecord]](as(pu), env, ListTreatmentRecordsQuery{PatientID: other.ID})
	requireCode(t, err, messages.NotOwnResource)
}

func TestListWarranties_FlagsExpired(t *testing.T) {
	env := newTestEnv(t)
	receptionist := env.seedUser(t, models.RoleReceptionist)
	_, d := env.seedDentist(t)
	pu, p := env.seedPatient(t)
	proc := env.seedProcedure(t, "Bọc sứ", 1)

	short := env.seedRecord(t, env.seedAppointment(t, p, d), proc)
	long := env.seedRecord(t, env.seedAppointment(t, p, d), proc)
	for _, c := range []CreateWarrantyCardCommand{
		{TreatmentRecordID: short.ID, StartDate: "2025-01-31", DurationMonths: 1},
		{TreatmentRecordID: long.ID, StartDate: "2025-01-31", DurationMonths: 12},
	} {
		_, err := send[CreateWarrantyCardCommand, *MessageResult](as(receptionist), env, c)
		require.NoError(t, err)
	}

	page, err := send[ListWarrantyCardsQuery, *PageResult[models.WarrantyCard]](as(pu), env, ListWarrantyCardsQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, card := range page.Items {
		switch card.TreatmentRecordID {
		case short.ID:
			assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, clinicZone), card.EndDate)
			assert.True(t, card.Expired)
		case long.ID:
			assert.False(t, card.Expired)
		}
	}
}

package services

import (
	"context"
	"testing"

	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointment_PatientBooksForSelf(t *testing.T) {
	env := newTestEnv(t)
	pu, p := env.seedPatient(t)
	_, other := env.seedPatient(t)
	du, d := env.seedDentist(t)

	res, err := send[CreateAppointmentCommand, *MessageResult](as(pu), env, CreateAppointmentCommand{
		PatientID:       other.ID,
		DentistID:       d.ID,
		AppointmentDate: "2025-06-11",
		AppointmentTime: "14:30",
		AppointmentType: models.AppointmentConsultation,
	})
	require.NoError(t, err)

	a, err := env.appointments.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, a.PatientID)
	assert.Equal(t, models.AppointmentConfirmed, a.Status)
	assert.Len(t, env.notificationsFor(du.ID), 1)
}

func TestCreateAppointment_Validation(t *testing.T) {
	env := newTestEnv(t)
	receptionist := env.seedUser(t, models.RoleReceptionist)
	_, p := env.seedPatient(t)
	_, d := env.seedDentist(t)

	base := CreateAppointmentCommand{
		PatientID:       p.ID,
		DentistID:       d.ID,
		AppointmentDate: "2025-06-11",
		AppointmentTime: "08:00",
		AppointmentType: models.AppointmentTreatment,
	}

	badTime := base
	badTime.AppointmentTime = "25:00"
	_, err := send[CreateAppointmentCommand, *MessageResult](as(receptionist), env, badTime)
	requireCode(t, err, messages.InvalidTime)

	past := base
	past.AppointmentDate = "2025-06-01"
	_, err = send[CreateAppointmentCommand, *MessageResult](as(receptionist), env, past)
	requireCode(t, err, messages.DateInPast)

	earlierToday := base
	earlierToday.AppointmentDate = "2025-06-10"
	earlierToday.AppointmentTime = "08:30"
	_, err = send[CreateAppointmentCommand, *MessageResult](as(receptionist), env, earlierToday)
	requireCode(t, err, messages.DateInPast)

	laterToday := earlierToday
	laterToday.AppointmentTime = "09:30"
	_, err = send[CreateAppointmentCommand, *MessageResult](as(receptionist), env, laterToday)
	require.NoError(t, err)

	noPatient := base
	noPatient.PatientID = uuid.Nil
	_, err = send[CreateAppointmentCommand, *MessageResult](as(receptionist), env, noPatient)
	requireCode(t, err, messages.RequiredFields)

	dentist, _ := env.seedDentist(t)
	_, err = send[CreateAppointmentCommand, *MessageResult](as(dentist), env, base)
	requireCode(t, err, messages.Forbidden)

	_, err = send[CreateAppointmentCommand, *MessageResult](as(receptionist), env, base)
	require.NoError(t, err)
}

func TestCancelAppointment_Rules(t *testing.T) {
	env := newTestEnv(t)
	pu, p := env.seedPatient(t)
	strangerUser, _ := env.seedPatient(t)
	_, d := env.seedDentist(t)
	a := env.seedAppointment(t, p, d)

	_, err := send[CancelAppointmentCommand, *MessageResult](as(strangerUser), env, CancelAppointmentCommand{ID: a.ID})
	requireCode(t, err, messages.NotOwnResource)

	reason := "bận việc"
	_, err = send[CancelAppointmentCommand, *MessageResult](as(pu), env, CancelAppointmentCommand{ID: a.ID, Reason: &reason})
	require.NoError(t, err)

	stored, err := env.appointments.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCanceled, stored.Status)
	require.NotNil(t, stored.CancelReason)
	assert.Equal(t, reason, *stored.CancelReason)

	_, err = send[CancelAppointmentCommand, *MessageResult](as(pu), env, CancelAppointmentCommand{ID: a.ID})
	requireCode(t, err, messages.AppointmentNotCancellable)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	env := newTestEnv(t)
	assistant := env.seedUser(t, models.RoleAssistant)
	_, p := env.seedPatient(t)
	_, d := env.seedDentist(t)
	a := env.seedAppointment(t, p, d)

	_, err := send[UpdateAppointmentStatusCommand, *MessageResult](as(assistant), env, UpdateAppointmentStatusCommand{ID: a.ID, Status: models.AppointmentCanceled})
	requireCode(t, err, messages.InvalidInput)

	_, err = send[UpdateAppointmentStatusCommand, *MessageResult](as(assistant), env, UpdateAppointmentStatusCommand{ID: a.ID, Status: models.AppointmentAttended})
	require.NoError(t, err)

	stored, err := env.appointments.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentAttended, stored.Status)
	require.NotNil(t, stored.UpdatedBy)
	assert.Equal(t, assistant.ID, *stored.UpdatedBy)
}

func TestListAppointments_Scoped(t *testing.T) {
	env := newTestEnv(t)
	receptionist := env.seedUser(t, models.RoleReceptionist)
	p1u, p1 := env.seedPatient(t)
	_, p2 := env.seedPatient(t)
	d1u, d1 := env.seedDentist(t)
	_, d2 := env.seedDentist(t)
	env.seedAppointment(t, p1, d1)
	env.seedAppointment(t, p2, d1)
	env.seedAppointment(t, p2, d2)

	count := func(ctx context.Context) int64 {
		page, err := send[ListAppointmentsQuery, *PageResult[models.Appointment]](ctx, env, ListAppointmentsQuery{})
		require.NoError(t, err)
		return page.Total
	}

	assert.EqualValues(t, 1, count(as(p1u)))
	assert.EqualValues(t, 2, count(as(d1u)))
	assert.EqualValues(t, 3, count(as(receptionist)))
}

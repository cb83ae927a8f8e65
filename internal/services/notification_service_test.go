package services

import (
	"context"
	"errors"
	"testing"

	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendNotification_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
		UserID:  uuid.New(),
		Title:   "x",
		Message: "y",
	})

	requireCode(t, err, messages.UserNotFound)
	assert.Zero(t, env.notifications.count())
}

func TestSendNotification_PersistsUnreadAndPushes(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, models.RolePatient)

	res, err := send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
		UserID:  u.ID,
		Title:   "Lịch hẹn",
		Message: "Bạn có lịch hẹn ngày mai",
		Type:    models.NotificationAppointment,
	})
	require.NoError(t, err)
	require.NotNil(t, res.ID)

	stored := env.notificationsFor(u.ID)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsRead)
	assert.Equal(t, testNow, stored[0].SentAt)

	pushed := env.pub.sent()
	require.Len(t, pushed, 1)
	assert.Equal(t, u.ID, pushed[0].UserID)
	assert.Equal(t, *res.ID, pushed[0].Event.NotificationID)
	assert.Equal(t, "appointment", pushed[0].Event.Kind)
}

func TestSendNotification_PushFailureDoesNotFail(t *testing.T) {
	env := newTestEnv(t)
	env.pub.err = errors.New("centrifugo down")
	u := env.seedUser(t, models.RoleOwner)

	_, err := send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
		UserID:  u.ID,
		Title:   "x",
		Message: "y",
	})

	require.NoError(t, err)
	assert.Len(t, env.notificationsFor(u.ID), 1)
}

func TestSendNotification_MissingTitle(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, models.RoleOwner)

	_, err := send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
		UserID:  u.ID,
		Message: "y",
	})
	requireCode(t, err, messages.RequiredFields)
}

func TestSendNotification_UnknownType(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, models.RoleOwner)

	_, err := send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
		UserID:  u.ID,
		Title:   "x",
		Message: "y",
		Type:    "spam",
	})
	requireCode(t, err, messages.InvalidInput)
	assert.Empty(t, env.notificationsFor(u.ID))

	_, err = send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
		UserID:  u.ID,
		Title:   "x",
		Message: "y",
		Type:    models.NotificationFinance,
	})
	require.NoError(t, err)
	require.Len(t, env.notificationsFor(u.ID), 1)
}

// ghostRecipients trả thêm một user không tồn tại khi lấy người nhận
type ghostRecipients struct {
	*fakeUserRepo
}

func (g ghostRecipients) FindActiveByRoles(ctx context.Context, roles ...models.UserRole) ([]models.User, error) {
	users, err := g.fakeUserRepo.FindActiveByRoles(ctx, roles...)
	ghost := models.User{Role: roles[0], IsActive: true}
	ghost.ID = uuid.New()
	return append([]models.User{ghost}, users...), err
}

func TestNotifyRoles_ContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t)
	o1 := env.seedUser(t, models.RoleOwner)
	o2 := env.seedUser(t, models.RoleOwner)
	env.seedUser(t, models.RoleDentist)

	notifier := NewNotifier(env.m, ghostRecipients{env.users}, zap.NewNop())
	sent := notifier.NotifyRoles(context.Background(), []models.UserRole{models.RoleOwner}, SendNotificationCommand{
		Title:   "Phiếu chờ duyệt",
		Message: "abc",
	})

	assert.Equal(t, 2, sent)
	assert.Len(t, env.notificationsFor(o1.ID), 1)
	assert.Len(t, env.notificationsFor(o2.ID), 1)
	assert.Equal(t, 2, env.notifications.count())
}

func TestNotifyRoles_SkipsInactiveUsers(t *testing.T) {
	env := newTestEnv(t)
	active := env.seedUser(t, models.RoleOwner)
	inactive := env.seedUser(t, models.RoleOwner)
	inactive.IsActive = false
	require.NoError(t, env.users.Update(context.Background(), inactive))

	sent := env.svc.Notifier.NotifyRoles(context.Background(), ownerOnly, SendNotificationCommand{Title: "t", Message: "m"})

	assert.Equal(t, 1, sent)
	assert.Len(t, env.notificationsFor(active.ID), 1)
	assert.Empty(t, env.notificationsFor(inactive.ID))
}

func TestNotifications_OwnInboxOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.seedUser(t, models.RolePatient)
	bob := env.seedUser(t, models.RolePatient)

	res, err := send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
		UserID: alice.ID, Title: "t", Message: "m",
	})
	require.NoError(t, err)

	_, err = send[MarkNotificationReadCommand, *MessageResult](as(bob), env, MarkNotificationReadCommand{ID: *res.ID})
	requireCode(t, err, messages.NotificationNotFound)

	count, err := send[CountUnreadNotificationsQuery, *UnreadCount](as(alice), env, CountUnreadNotificationsQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count.Unread)

	_, err = send[MarkNotificationReadCommand, *MessageResult](as(alice), env, MarkNotificationReadCommand{ID: *res.ID})
	require.NoError(t, err)

	stored := env.notificationsFor(alice.ID)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsRead)
	require.NotNil(t, stored[0].ReadAt)
}

func TestNotifications_MarkAllReadAndList(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser(t, models.RoleDentist)
	for i := 0; i < 3; i++ {
		_, err := send[SendNotificationCommand, *MessageResult](context.Background(), env, SendNotificationCommand{
			UserID: u.ID, Title: "t", Message: "m",
		})
		require.NoError(t, err)
	}

	page, err := send[ListNotificationsQuery, *PageResult[models.Notification]](as(u), env, ListNotificationsQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)

	_, err = send[MarkAllNotificationsReadCommand, *MessageResult](as(u), env, MarkAllNotificationsReadCommand{})
	require.NoError(t, err)

	page, err = send[ListNotificationsQuery, *PageResult[models.Notification]](as(u), env, ListNotificationsQuery{UnreadOnly: true})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestNotifications_RequireLogin(t *testing.T) {
	env := newTestEnv(t)

	_, err := send[CountUnreadNotificationsQuery, *UnreadCount](context.Background(), env, CountUnreadNotificationsQuery{})
	requireCode(t, err, messages.Unauthorized)
}

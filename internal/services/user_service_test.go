package services

import (
	"context"
	"testing"

	"dentalclinic/internal/messages"
	"dentalclinic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateStaff_DentistProfile(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.RoleAdmin)
	specialty := "Chỉnh nha"

	res, err := send[CreateStaffCommand, *MessageResult](as(admin), env, CreateStaffCommand{
		FullName:          "BS. Trần Bình",
		Phone:             "0900000001",
		Password:          "secret123",
		Role:              models.RoleDentist,
		Specialty:         &specialty,
		YearsOfExperience: 5,
	})
	require.NoError(t, err)

	user, err := env.users.FindByID(context.Background(), *res.ID)
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("secret123"))
	require.NotNil(t, user.CreatedBy)
	assert.Equal(t, admin.ID, *user.CreatedBy)

	d, err := env.dentists.FindByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, d.YearsOfExperience)
}

func TestCreateStaff_Rules(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.RoleAdmin)
	owner := env.seedUser(t, models.RoleOwner)

	valid := CreateStaffCommand{FullName: "A", Phone: "0900000002", Password: "secret123", Role: models.RoleAssistant}

	cmd := valid
	cmd.Role = models.RolePatient
	_, err := send[CreateStaffCommand, *MessageResult](as(admin), env, cmd)
	requireCode(t, err, messages.InvalidRole)

	cmd = valid
	cmd.Role = "janitor"
	_, err = send[CreateStaffCommand, *MessageResult](as(admin), env, cmd)
	requireCode(t, err, messages.InvalidRole)

	cmd = valid
	cmd.Phone = owner.Phone
	_, err = send[CreateStaffCommand, *MessageResult](as(admin), env, cmd)
	requireCode(t, err, messages.PhoneExists)

	cmd = valid
	cmd.Password = "123"
	_, err = send[CreateStaffCommand, *MessageResult](as(admin), env, cmd)
	requireCode(t, err, messages.InvalidInput)

	_, err = send[CreateStaffCommand, *MessageResult](as(owner), env, valid)
	requireCode(t, err, messages.Forbidden)
}

func TestToggleUserActive(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.RoleAdmin)
	target := env.seedUser(t, models.RoleReceptionist)
	hash := "old-refresh-hash"
	target.RefreshTokenHash = &hash
	require.NoError(t, env.users.Update(context.Background(), target))

	_, err := send[ToggleUserActiveCommand, *MessageResult](as(admin), env, ToggleUserActiveCommand{ID: admin.ID})
	requireCode(t, err, messages.CannotDisableSelf)

	_, err = send[ToggleUserActiveCommand, *MessageResult](as(admin), env, ToggleUserActiveCommand{ID: target.ID})
	require.NoError(t, err)

	got, err := env.users.FindByID(context.Background(), target.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Nil(t, got.RefreshTokenHash)
	require.NotNil(t, got.UpdatedBy)
	assert.Equal(t, admin.ID, *got.UpdatedBy)
}

func TestListUsers_FilterByRole(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, models.RoleAdmin)
	env.seedUser(t, models.RoleAssistant)
	env.seedUser(t, models.RoleAssistant)
	env.seedUser(t, models.RoleOwner)

	page, err := send[ListUsersQuery, *PageResult[models.User]](as(admin), env, ListUsersQuery{Role: models.RoleAssistant})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	_, err = send[ListUsersQuery, *PageResult[models.User]](as(admin), env, ListUsersQuery{Role: "janitor"})
	requireCode(t, err, messages.InvalidRole)
}

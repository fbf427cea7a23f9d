// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cacho-medina/luxbuy-back/internal/apperrors"
	"github.com/cacho-medina/luxbuy-back/internal/models"
	"github.com/cacho-medina/luxbuy-back/internal/utils"
)

func TestUserCreate(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))

	user, err := users.Create(&CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Str0ngPass", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("Str0ngPass"))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))
	createUser(t, db, "ana@example.com")

	_, err := users.Create(&CreateUserRequest{
		Name:     "Ana",
		Email:    "ANA@example.com",
		Password: "Str0ngPass",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestUserCreateWeakPassword(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))

	_, err := users.Create(&CreateUserRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUserUpdatePartial(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "ana@example.com")

	name := "Renamed"
	updated, err := users.Update(user.ID, &UpdateUserRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "ana@example.com", updated.Email)
	assert.True(t, updated.IsActive)
}

func TestUserSoftDeleteHidesFromQueries(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "ana@example.com")

	_, err := users.SoftDelete(user.ID)
	require.NoError(t, err)

	_, err = users.FindOne(user.ID)
	assert.True(t, apperrors.IsNotFound(err))

	result, err := users.FindAll(utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"})
	require.NoError(t, err)
	assert.Zero(t, result.Total)

	// The row itself still exists for a future restore
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserFindAllActive(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))
	createUser(t, db, "active@example.com")
	inactive := createUser(t, db, "inactive@example.com")
	inactive.IsActive = false
	require.NoError(t, db.Save(inactive).Error)

	active, err := users.FindAllActive()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "active@example.com", active[0].Email)
}

func TestUserResetPasswordReplacesOld(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "ana@example.com")

	require.NoError(t, users.ResetPassword(user.ID))

	var updated models.User
	require.NoError(t, db.First(&updated, "id = ?", user.ID).Error)
	assert.Error(t, updated.CheckPassword("Passw0rd!"))
	assert.NotEqual(t, user.PasswordHash, updated.PasswordHash)
}

func TestUserRemovePermanently(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db, NewNotificationService(testConfig()))
	user := createUser(t, db, "ana@example.com")

	require.NoError(t, users.Remove(user.ID))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	err := users.Remove(user.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

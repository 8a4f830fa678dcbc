package repository

import (
	"testing"
	"time"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func createTestUser(t *testing.T, repo UserRepository, email string) *model.User {
	user := &model.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		Name:         "Test Rider",
		PhoneNumber:  "+91-98765-43210",
	}
	require.NoError(t, repo.Create(user))
	return user
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
				Name:         "Test User",
			},
			wantErr: false,
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Email:        "test@example.com",
				PasswordHash: "hashedpassword",
				Name:         "Another User",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, tt.user.ID)
				assert.Nil(t, tt.user.ResetToken)
				assert.Nil(t, tt.user.ResetTokenExpiry)
			}
		})
	}
}

func TestUserRepository_FindByID(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, repo, "test@example.com")

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "Existing user", id: user.ID},
		{name: "Non-existent user", id: "00000000-0000-0000-0000-000000000000", wantErr: gorm.ErrRecordNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user.Email, found.Email)
				assert.Equal(t, user.Name, found.Name)
			}
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, repo, "rider@example.com")

	found, err := repo.FindByEmail("rider@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_FindAll(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	users, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, users)

	createTestUser(t, repo, "a@example.com")
	createTestUser(t, repo, "b@example.com")

	users, err = repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUserRepository_UpdateFields(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, repo, "rider@example.com")

	updated, err := repo.UpdateFields(user.ID, map[string]interface{}{
		"phone_number": "+91-11111-22222",
	})
	require.NoError(t, err)
	assert.Equal(t, "+91-11111-22222", updated.PhoneNumber)
	assert.Equal(t, user.Name, updated.Name)

	_, err = repo.UpdateFields("missing", map[string]interface{}{"phone_number": "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_ResetTokenLifecycle(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, repo, "rider@example.com")
	expiry := time.Now().Add(time.Hour)

	require.NoError(t, repo.SetResetToken(user.ID, "abc123", expiry))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.ResetToken)
	require.NotNil(t, found.ResetTokenExpiry)
	assert.Equal(t, "abc123", *found.ResetToken)
	assert.WithinDuration(t, expiry, *found.ResetTokenExpiry, time.Second)
	assert.True(t, found.HasPendingReset())

	require.NoError(t, repo.UpdatePasswordAndClearReset(user.ID, "newhash"))

	found, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "newhash", found.PasswordHash)
	assert.Nil(t, found.ResetToken)
	assert.Nil(t, found.ResetTokenExpiry)
	assert.False(t, found.HasPendingReset())
}

func TestUserRepository_ResetTokenUnknownUser(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	err := repo.SetResetToken("missing", "abc123", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.UpdatePasswordAndClearReset("missing", "hash")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := createTestUser(t, repo, "rider@example.com")

	deleted, err := repo.Delete(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.ID)
	assert.Equal(t, user.Email, deleted.Email)

	_, err = repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Delete(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

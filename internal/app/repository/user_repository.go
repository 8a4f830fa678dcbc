package repository

import (
	"time"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindAll() ([]model.User, error)
	FindByID(id string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	UpdateFields(id string, fields map[string]interface{}) (*model.User, error)
	SetResetToken(id, token string, expiry time.Time) error
	UpdatePasswordAndClearReset(id, passwordHash string) error
	Delete(id string) (*model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindAll() ([]model.User, error) {
	logger.Debug("Finding all users in database")

	var users []model.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		logger.Error("Failed to find users in database", err)
		return nil, err
	}

	logger.Debug("Users found in database", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}

func (r *userRepository) FindByID(id string) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Debug("User found by ID in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Debug("User not found by email in database", map[string]interface{}{
				"email": email,
			})
		} else {
			logger.Error("Failed to find user by email in database", err, map[string]interface{}{
				"email": email,
			})
		}
		return nil, err
	}

	logger.Debug("User found by email in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return &user, nil
}

// UpdateFields applies a partial update and returns the stored record.
func (r *userRepository) UpdateFields(id string, fields map[string]interface{}) (*model.User, error) {
	logger.Debug("Updating user fields in database", map[string]interface{}{
		"user_id":      id,
		"fields_count": len(fields),
	})

	result := r.db.Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update user fields in database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return nil, result.Error
	}

	// re-read so callers see the merged record, and missing ids surface as not found
	return r.FindByID(id)
}

func (r *userRepository) SetResetToken(id, token string, expiry time.Time) error {
	logger.Debug("Storing reset token in database", map[string]interface{}{
		"user_id":    id,
		"expires_at": expiry,
	})

	result := r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	})
	if result.Error != nil {
		logger.Error("Failed to store reset token in database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePasswordAndClearReset sets the new hash and nulls both reset fields in one statement.
func (r *userRepository) UpdatePasswordAndClearReset(id, passwordHash string) error {
	logger.Debug("Updating password and clearing reset token in database", map[string]interface{}{
		"user_id": id,
	})

	result := r.db.Model(&model.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"password_hash":      passwordHash,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	})
	if result.Error != nil {
		logger.Error("Failed to update password in database", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) Delete(id string) (*model.User, error) {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	var deleted *model.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
		}
		deleted = &user
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Debug("User deleted from database", map[string]interface{}{
		"user_id": id,
	})
	return deleted, nil
}

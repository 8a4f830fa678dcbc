package service

import (
	"errors"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/internal/app/repository"
	"github.com/ikkim/motoparts-backend/pkg/logger"
	"github.com/ikkim/motoparts-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrEmailAlreadyExists = errors.New("email already exists")

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// UpdateUserInput holds the client-writable fields. Email and name are fixed
// at registration; reset token state is managed by the reset flow only.
type UpdateUserInput struct {
	PhoneNumber *string
	Password    *string
}

type UserService interface {
	Register(input RegisterInput) (*model.User, error)
	ListUsers() ([]model.User, error)
	GetUserByID(id string) (*model.User, error)
	UpdateUser(id string, input UpdateUserInput) (*model.User, error)
	DeleteUser(id string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(input RegisterInput) (*model.User, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": input.Email,
		"name":  input.Name,
	})

	existingUser, err := s.userRepo.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		PhoneNumber:  input.PhoneNumber,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

func (s *userService) ListUsers() ([]model.User, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}
	return users, nil
}

func (s *userService) GetUserByID(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(id string, input UpdateUserInput) (*model.User, error) {
	logger.Info("Updating user", map[string]interface{}{
		"user_id": id,
	})

	fields := map[string]interface{}{}
	if input.PhoneNumber != nil {
		fields["phone_number"] = *input.PhoneNumber
	}
	if input.Password != nil {
		hashedPassword, err := util.HashPassword(*input.Password)
		if err != nil {
			logger.Error("Failed to hash password", err, map[string]interface{}{
				"user_id": id,
			})
			return nil, err
		}
		fields["password_hash"] = hashedPassword
	}

	var (
		user *model.User
		err  error
	)
	if len(fields) == 0 {
		user, err = s.userRepo.FindByID(id)
	} else {
		user, err = s.userRepo.UpdateFields(id, fields)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Update failed: user not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to update user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User updated successfully", map[string]interface{}{
		"user_id":        id,
		"updated_fields": len(fields),
	})
	return user, nil
}

func (s *userService) DeleteUser(id string) (*model.User, error) {
	logger.Info("Deleting user", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User deleted successfully", map[string]interface{}{
		"user_id": id,
	})
	return user, nil
}

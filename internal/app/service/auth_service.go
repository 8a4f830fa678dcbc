package service

import (
	"errors"
	"time"

	"github.com/ikkim/motoparts-backend/internal/app/model"
	"github.com/ikkim/motoparts-backend/internal/app/repository"
	"github.com/ikkim/motoparts-backend/internal/messaging"
	"github.com/ikkim/motoparts-backend/pkg/logger"
	"github.com/ikkim/motoparts-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// NotificationSender delivers customer notifications without blocking.
type NotificationSender interface {
	SendNotification(customerID, message string)
}

// AccessToken is a signed session token and its expiry.
type AccessToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthService interface {
	Login(email, password string) (*model.User, *AccessToken, error)
	GetUserByID(id string) (*model.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwt      *util.JWTManager
	notifier NotificationSender
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwt *util.JWTManager,
	notifier NotificationSender,
) AuthService {
	return &authService{
		userRepo: userRepo,
		jwt:      jwt,
		notifier: notifier,
	}
}

func (s *authService) Login(email, password string) (*model.User, *AccessToken, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.Generate(user.ID, user.Name, user.Email)
	if err != nil {
		logger.Error("Failed to generate access token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	if s.notifier != nil {
		s.notifier.SendNotification(user.ID, messaging.LoginMessage(user.Email))
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})

	return user, &AccessToken{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func (s *authService) GetUserByID(id string) (*model.User, error) {
	logger.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}

package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/ikkim/motoparts-backend/internal/app/repository"
	"github.com/ikkim/motoparts-backend/internal/messaging"
	"github.com/ikkim/motoparts-backend/pkg/logger"
	"github.com/ikkim/motoparts-backend/pkg/util"
	"gorm.io/gorm"
)

// ErrInvalidResetToken covers unknown users, token mismatch and expiry alike.
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// EmailSender hands an email to the delivery service without blocking.
type EmailSender interface {
	SendEmail(to, subject, text string)
}

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(userID, token, newPassword string) error
}

type passwordResetService struct {
	userRepo    repository.UserRepository
	mailer      EmailSender
	linkBaseURL string
	now         func() time.Time
}

func NewPasswordResetService(
	userRepo repository.UserRepository,
	mailer EmailSender,
	linkBaseURL string,
) PasswordResetService {
	return newPasswordResetService(userRepo, mailer, linkBaseURL, time.Now)
}

func newPasswordResetService(
	userRepo repository.UserRepository,
	mailer EmailSender,
	linkBaseURL string,
	now func() time.Time,
) *passwordResetService {
	return &passwordResetService{
		userRepo:    userRepo,
		mailer:      mailer,
		linkBaseURL: linkBaseURL,
		now:         now,
	}
}

// RequestReset stores a fresh reset token on the user, replacing any pending
// one, and emails the redemption link. Unknown emails return ErrUserNotFound.
func (s *passwordResetService) RequestReset(email string) error {
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return ErrUserNotFound
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, expiresAt, err := util.GenerateResetToken(s.now())
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.userRepo.SetResetToken(user.ID, token, expiresAt); err != nil {
		logger.Error("Failed to store reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	// issuance is complete once the token is stored; delivery is best-effort
	body, err := messaging.RenderResetPasswordEmail(user.Name, messaging.ResetLink(s.linkBaseURL, user.ID, token))
	if err != nil {
		logger.Error("Failed to render reset email", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil
	}
	if s.mailer != nil {
		s.mailer.SendEmail(user.Email, messaging.ResetPasswordSubject, body)
	}

	logger.Info("Password reset token issued", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": expiresAt,
	})
	return nil
}

// ResetPassword redeems a pending token. Every rejection is ErrInvalidResetToken.
func (s *passwordResetService) ResetPassword(userID, token, newPassword string) error {
	logger.Info("Processing password reset", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset for unknown user", map[string]interface{}{
				"user_id": userID,
			})
			return ErrInvalidResetToken
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if user.ResetToken == nil || user.ResetTokenExpiry == nil ||
		subtle.ConstantTimeCompare([]byte(*user.ResetToken), []byte(token)) != 1 {
		logger.Warn("Password reset with mismatched token", map[string]interface{}{
			"user_id": userID,
		})
		return ErrInvalidResetToken
	}

	if s.now().After(*user.ResetTokenExpiry) {
		logger.Warn("Password reset with expired token", map[string]interface{}{
			"user_id":    userID,
			"expired_at": *user.ResetTokenExpiry,
		})
		return ErrInvalidResetToken
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if err := s.userRepo.UpdatePasswordAndClearReset(user.ID, hashedPassword); err != nil {
		logger.Error("Failed to update password", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Password reset successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

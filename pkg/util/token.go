package util

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

const (
	// ResetTokenLength is the byte length of the reset token before hex encoding
	ResetTokenLength = 32
	// ResetTokenExpiry is how long a reset token stays redeemable
	ResetTokenExpiry = 1 * time.Hour
)

// GenerateResetToken returns a hex encoded random token and its expiry relative to now.
func GenerateResetToken(now time.Time) (string, time.Time, error) {
	bytes := make([]byte, ResetTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(bytes), now.Add(ResetTokenExpiry), nil
}

package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	referralCodeBytes = 4
	// maxCodeAttempts bounds regeneration after referral code collisions.
	maxCodeAttempts = 5
)

// CodeGenerator produces candidate referral codes.
type CodeGenerator func() (string, error)

// RandomReferralCode returns 8 lowercase hex characters (32 bits) from crypto/rand.
func RandomReferralCode() (string, error) {
	b := make([]byte, referralCodeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

package security

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// emailTokenBytes is the entropy of an email verification or reset token.
const emailTokenBytes = 32

// GenerateEmailToken returns a hex-encoded 32-byte random token.
func GenerateEmailToken() (string, error) {
	buf := make([]byte, emailTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("security: generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// redemptionCodeLen is the length of a sale redemption code.
const redemptionCodeLen = 10

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewRedemptionCode returns a short upper-case alphanumeric code for a sale.
func NewRedemptionCode() string {
	id := uuid.New()
	return codeEncoding.EncodeToString(id[:])[:redemptionCodeLen]
}

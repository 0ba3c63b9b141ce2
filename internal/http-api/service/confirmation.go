package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"reviewhub/internal/http-api/models"
)

// confirmation code length in hex characters
const confirmationCodeLen = 40

// ConfirmationCodes derives deterministic per-user confirmation codes.
// The same HMAC is recomputed on issue and on check, so nothing is stored
// server-side and a tampered code can never verify.
type ConfirmationCodes struct {
	secret []byte
}

func NewConfirmationCodes(secret string) *ConfirmationCodes {
	return &ConfirmationCodes{secret: []byte(secret)}
}

// Generate returns the confirmation code for a user. The code is bound to
// both the user id and the registered email.
func (c *ConfirmationCodes) Generate(user *models.User) string {
	mac := hmac.New(sha256.New, c.secret)
	io.WriteString(mac, user.ID)
	io.WriteString(mac, ":")
	io.WriteString(mac, user.Email)
	return hex.EncodeToString(mac.Sum(nil))[:confirmationCodeLen]
}

// Check verifies a supplied code in constant time.
func (c *ConfirmationCodes) Check(user *models.User, code string) bool {
	expected := c.Generate(user)
	return hmac.Equal([]byte(expected), []byte(code))
}

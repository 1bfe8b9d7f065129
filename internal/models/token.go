package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Token statuses.
const (
	TokenStatusEnabled  = 0
	TokenStatusDisabled = 1
)

// Token is an API token. The secret itself is never stored, only its hash.
type Token struct {
	TokenID     string `json:"tokenid"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      string `json:"userid"`
	// ExpiresAt is a unix timestamp; 0 means the token never expires.
	ExpiresAt int64  `json:"expires_at"`
	Status    int    `json:"status"`
	TokenHash string `json:"token"`
	CreatedAt int64  `json:"created_at"`
	CreatorID string `json:"creator_userid"`
	LastUsed  int64  `json:"lastaccess"`
}

// TokenUpdate holds the editable properties of a token.
type TokenUpdate struct {
	TokenID     string `json:"tokenid" binding:"required,numeric"`
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=65535"`
	ExpiresAt   int64  `json:"expires_at" binding:"min=0"`
	Status      int    `json:"status" binding:"oneof=0 1"`
}

// GenerateTokenSecret returns a new random 64-character hex secret.
func GenerateTokenSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashTokenSecret returns the stored form of a secret.
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// IsExpired reports whether the token expired before now.
func (t *Token) IsExpired(now time.Time) bool {
	return t.ExpiresAt != 0 && now.Unix() > t.ExpiresAt
}

// IsValid reports whether the token is enabled and not expired.
func (t *Token) IsValid(now time.Time) bool {
	return t.Status == TokenStatusEnabled && !t.IsExpired(now)
}

// Apply copies the editable properties of u into t.
func (t *Token) Apply(u TokenUpdate) {
	t.Name = u.Name
	t.Description = u.Description
	t.ExpiresAt = u.ExpiresAt
	t.Status = u.Status
}

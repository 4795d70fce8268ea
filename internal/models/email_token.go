package models

import "time"

// Token types stored in email_tokens.
const (
	// TokenTypeVerify proves control of an email address during registration.
	TokenTypeVerify = "verify"
	// TokenTypeReset authorizes a password change without the old password.
	TokenTypeReset = "reset"
)

// EmailToken is a single-use email verification or password reset credential.
// Consumed and expired tokens are deleted, never tombstoned.
type EmailToken struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64   `gorm:"column:user_id;not null;index"` // Owning user.
	User   *Usuario `gorm:"foreignKey:UserID"`

	Token string `gorm:"type:text;not null;index"` // Hex-encoded random value.
	Type  string `gorm:"type:text;not null"`       // "verify" or "reset".

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Issue timestamp.
}

// TableName keeps the legacy table name.
func (EmailToken) TableName() string { return "email_tokens" }

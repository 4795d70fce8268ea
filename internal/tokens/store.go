// Package tokens manages the single-use email verification and password
// reset credentials stored in the email_tokens table. Tokens live for 24
// hours; consumption and expiry both delete the row.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	"gorm.io/gorm"
)

// TTL is how long an issued token stays valid.
const TTL = 24 * time.Hour

// Sentinel errors distinguishing token failure modes.
var (
	// ErrTokenInvalid marks a token that does not exist (unknown, already
	// consumed, or deleted after expiry).
	ErrTokenInvalid = errors.New("tokens: invalid token")
	// ErrTokenExpired marks a token found but older than TTL. The row is
	// deleted as a side effect of detection.
	ErrTokenExpired = errors.New("tokens: expired token")
	// ErrUserNotFound marks a missing owning user.
	ErrUserNotFound = errors.New("tokens: user not found")
)

// Store issues, validates, and expires email tokens.
type Store struct {
	db *gorm.DB
}

// NewStore constructs a Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Issue creates a token of the given type for the user and returns the raw
// value. Nothing derived from the token is stored or transmitted.
func (s *Store) Issue(ctx context.Context, userID uint64, tokenType string) (string, error) {
	if tokenType != models.TokenTypeVerify && tokenType != models.TokenTypeReset {
		return "", fmt.Errorf("tokens: unknown token type %q", tokenType)
	}
	raw, errGenerate := security.GenerateEmailToken()
	if errGenerate != nil {
		return "", errGenerate
	}
	record := models.EmailToken{
		UserID:    userID,
		Token:     raw,
		Type:      tokenType,
		CreatedAt: time.Now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
		return "", fmt.Errorf("tokens: issue: %w", errCreate)
	}
	return raw, nil
}

// ConfirmEmail consumes a verify token: the owning user is marked verified
// and the token row deleted. Confirming an already-confirmed email reports
// success rather than an error; the consumed token value is kept on the user
// row to make that lookup possible. A token older than TTL is deleted and
// reported expired. The whole sequence runs in one transaction so a token is
// consumed at most once.
func (s *Store) ConfirmEmail(ctx context.Context, raw string) error {
	// Returning an error from the transaction closure rolls it back, which
	// would resurrect the lazily deleted expired row. The expiry outcome is
	// carried out of the closure instead so the delete commits.
	var errExpired error
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.EmailToken
		errFind := tx.Where("token = ? AND type = ?", raw, models.TokenTypeVerify).First(&record).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return confirmAlreadyVerified(tx, raw)
		}
		if errFind != nil {
			return fmt.Errorf("tokens: lookup verify token: %w", errFind)
		}

		if time.Since(record.CreatedAt) > TTL {
			if errDelete := tx.Delete(&models.EmailToken{}, record.ID).Error; errDelete != nil {
				return fmt.Errorf("tokens: delete expired token: %w", errDelete)
			}
			errExpired = ErrTokenExpired
			return nil
		}

		result := tx.Model(&models.Usuario{}).
			Where("id = ?", record.UserID).
			Updates(map[string]any{"is_verified": true, "token": raw})
		if result.Error != nil {
			return fmt.Errorf("tokens: mark verified: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if errDelete := tx.Delete(&models.EmailToken{}, record.ID).Error; errDelete != nil {
			return fmt.Errorf("tokens: consume verify token: %w", errDelete)
		}
		return nil
	})
	if errTx != nil {
		return errTx
	}
	return errExpired
}

// confirmAlreadyVerified resolves a missing verify token through the consumed
// token value stored on the user row.
func confirmAlreadyVerified(tx *gorm.DB, raw string) error {
	var user models.Usuario
	errFind := tx.Where("token = ?", raw).First(&user).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return ErrTokenInvalid
	}
	if errFind != nil {
		return fmt.Errorf("tokens: lookup consumed token: %w", errFind)
	}
	if !user.IsVerified {
		return ErrTokenInvalid
	}
	return nil
}

// ResetPassword consumes a reset token and overwrites the user's password
// with a fresh hash of newPassword. Reset tokens honor the same TTL as
// verify tokens.
func (s *Store) ResetPassword(ctx context.Context, raw, newPassword string) error {
	hash, errHash := security.HashPassword(newPassword)
	if errHash != nil {
		return fmt.Errorf("tokens: hash password: %w", errHash)
	}
	// Same shape as ConfirmEmail: the expiry delete must survive the
	// transaction, so the sentinel is returned after it commits.
	var errExpired error
	errTx := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.EmailToken
		errFind := tx.Where("token = ? AND type = ?", raw, models.TokenTypeReset).First(&record).Error
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrTokenInvalid
		}
		if errFind != nil {
			return fmt.Errorf("tokens: lookup reset token: %w", errFind)
		}

		if time.Since(record.CreatedAt) > TTL {
			if errDelete := tx.Delete(&models.EmailToken{}, record.ID).Error; errDelete != nil {
				return fmt.Errorf("tokens: delete expired token: %w", errDelete)
			}
			errExpired = ErrTokenExpired
			return nil
		}

		result := tx.Model(&models.Usuario{}).
			Where("id = ?", record.UserID).
			Update("password", hash)
		if result.Error != nil {
			return fmt.Errorf("tokens: update password: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		if errDelete := tx.Delete(&models.EmailToken{}, record.ID).Error; errDelete != nil {
			return fmt.Errorf("tokens: consume reset token: %w", errDelete)
		}
		return nil
	})
	if errTx != nil {
		return errTx
	}
	return errExpired
}

// Cleanup deletes all tokens older than TTL regardless of type and returns
// how many rows were removed. Maintenance operation; the validate paths do
// their own inline age checks.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-TTL)
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.EmailToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("tokens: cleanup: %w", result.Error)
	}
	return result.RowsAffected, nil
}

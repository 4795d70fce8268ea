package migration

import (
	"fmt"

	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HashPlaintextPasswords rewrites every plaintext usuario password as a
// bcrypt hash and returns how many rows changed. Rows already holding a
// bcrypt hash are untouched, so the migration is safe to re-run.
func HashPlaintextPasswords(conn *gorm.DB) (int, error) {
	if conn == nil {
		return 0, fmt.Errorf("migration: nil connection")
	}

	var users []models.Usuario
	if errFind := conn.Select("id", "password").Find(&users).Error; errFind != nil {
		return 0, fmt.Errorf("migration: read usuarios: %w", errFind)
	}

	changed := 0
	for _, user := range users {
		if security.IsBcryptHash(user.Password) {
			continue
		}
		hash, errHash := security.HashPassword(user.Password)
		if errHash != nil {
			return changed, fmt.Errorf("migration: hash password for usuario %d: %w", user.ID, errHash)
		}
		errUpdate := conn.Model(&models.Usuario{}).
			Where("id = ?", user.ID).
			Update("password", hash).Error
		if errUpdate != nil {
			return changed, fmt.Errorf("migration: update password for usuario %d: %w", user.ID, errUpdate)
		}
		changed++
	}
	log.Infof("hashed %d plaintext passwords", changed)
	return changed, nil
}

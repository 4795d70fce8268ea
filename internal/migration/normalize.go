// Package migration holds the one-shot, re-runnable transformations that
// evolve the storefront database: normalization of the flat legacy shape into
// the relational schema, the backup copy path, and the password hash
// migration. Scripts are meant to run standalone, never concurrently with the
// live server.
package migration

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/playvault/gamestore/internal/db"
	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NormalizeLegacy moves data from the flat games table into the normalized
// schema: juego rows keep their original ids, platform strings become
// plataforma rows plus join rows, the first genre becomes the categoria, and
// inline review objects become calificacion rows owned by found-or-created
// users. Games and their platforms/categories are migrated before any
// ratings, since ratings reference game ids. Running twice duplicates
// nothing.
func NormalizeLegacy(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("migration: nil connection")
	}
	if !conn.Migrator().HasTable(&models.LegacyGame{}) {
		log.Info("no legacy games table, nothing to normalize")
		return nil
	}

	var legacy []models.LegacyGame
	if errFind := conn.Order("id ASC").Find(&legacy).Error; errFind != nil {
		return fmt.Errorf("migration: read legacy games: %w", errFind)
	}

	for _, game := range legacy {
		if errGame := normalizeGame(conn, game); errGame != nil {
			return errGame
		}
	}
	log.Infof("normalized %d legacy games", len(legacy))

	// Ratings last: they reference juego ids created above.
	migrated := 0
	for _, game := range legacy {
		count, errReviews := normalizeReviews(conn, game)
		if errReviews != nil {
			return errReviews
		}
		migrated += count
	}
	log.Infof("normalized %d legacy reviews", migrated)
	return nil
}

// normalizeGame inserts one juego row preserving the legacy id and links its
// platforms and first genre.
func normalizeGame(conn *gorm.DB, game models.LegacyGame) error {
	juego := models.Juego{
		ID:      game.ID,
		Nombre:  game.Title,
		Precio:  game.Price,
		Estado:  true,
		Image:   game.Image,
		Trailer: game.Trailer,
	}
	if errCreate := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&juego).Error; errCreate != nil {
		return fmt.Errorf("migration: insert juego %d: %w", game.ID, errCreate)
	}

	for _, nombre := range decodeStringList(game.Platform) {
		plataforma, errPlataforma := db.EnsurePlataforma(conn, nombre)
		if errPlataforma != nil {
			return errPlataforma
		}
		join := models.JuegoPlataforma{JuegoID: game.ID, PlataformaID: plataforma.ID}
		if errJoin := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&join).Error; errJoin != nil {
			return fmt.Errorf("migration: link juego %d plataforma %s: %w", game.ID, nombre, errJoin)
		}
	}

	// Only the first genre is kept as the category; later genres are dropped.
	genres := decodeStringList(game.Genre)
	if len(genres) > 0 {
		categoria, errCategoria := db.EnsureCategoria(conn, genres[0])
		if errCategoria != nil {
			return errCategoria
		}
		errUpdate := conn.Model(&models.Juego{}).
			Where("id = ?", game.ID).
			Update("categoria_id", categoria.ID).Error
		if errUpdate != nil {
			return fmt.Errorf("migration: set categoria for juego %d: %w", game.ID, errUpdate)
		}
	}
	return nil
}

// normalizeReviews turns one game's inline review objects into calificacion
// rows, creating placeholder users as needed. Returns how many rows were
// inserted.
func normalizeReviews(conn *gorm.DB, game models.LegacyGame) (int, error) {
	reviews := decodeReviews(game.Reviews)
	inserted := 0
	for _, review := range reviews {
		user, errUser := findOrCreateReviewer(conn, review.User)
		if errUser != nil {
			return inserted, errUser
		}

		// Re-running the script must not duplicate ratings.
		var existing int64
		errCount := conn.Model(&models.Calificacion{}).
			Where("juego_id = ? AND usuario_id = ? AND valoracion = ? AND comentario = ?",
				game.ID, user.ID, review.Rating, review.Comment).
			Count(&existing).Error
		if errCount != nil {
			return inserted, fmt.Errorf("migration: check existing rating: %w", errCount)
		}
		if existing > 0 {
			continue
		}

		rating := models.Calificacion{
			Valoracion: review.Rating,
			Comentario: review.Comment,
			JuegoID:    game.ID,
			UsuarioID:  user.ID,
		}
		if errCreate := conn.Create(&rating).Error; errCreate != nil {
			return inserted, fmt.Errorf("migration: insert rating for juego %d: %w", game.ID, errCreate)
		}
		inserted++
	}
	return inserted, nil
}

// placeholderPassword is assigned to users synthesized from legacy reviews.
const placeholderPassword = "1234"

// findOrCreateReviewer resolves a legacy reviewer by display name,
// synthesizing an email and placeholder password when the user is new.
func findOrCreateReviewer(conn *gorm.DB, nombre string) (*models.Usuario, error) {
	var user models.Usuario
	errFind := conn.Where("nombre = ?", nombre).First(&user).Error
	if errFind == nil {
		return &user, nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("migration: query usuario %s: %w", nombre, errFind)
	}

	hash, errHash := security.HashPassword(placeholderPassword)
	if errHash != nil {
		return nil, fmt.Errorf("migration: hash placeholder password: %w", errHash)
	}
	user = models.Usuario{
		Nombre:     nombre,
		Correo:     nombre + "@mail.com",
		Password:   hash,
		Rol:        models.RolUser,
		Estado:     true,
		IsVerified: true,
	}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		return nil, fmt.Errorf("migration: create usuario %s: %w", nombre, errCreate)
	}
	return &user, nil
}

// decodeStringList parses a JSON-encoded string array column. Malformed
// payloads decode to an empty list rather than failing the whole run.
func decodeStringList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if errUnmarshal := json.Unmarshal(raw, &values); errUnmarshal != nil {
		return nil
	}
	return values
}

// decodeReviews parses the JSON-encoded inline review array column.
func decodeReviews(raw []byte) []models.LegacyReview {
	if len(raw) == 0 {
		return nil
	}
	var reviews []models.LegacyReview
	if errUnmarshal := json.Unmarshal(raw, &reviews); errUnmarshal != nil {
		return nil
	}
	return reviews
}

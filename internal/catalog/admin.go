package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/playvault/gamestore/internal/models"
	"gorm.io/gorm"
)

// ErrInvalidPrice rejects a negative sale price.
var ErrInvalidPrice = errors.New("catalog: sale price must not be negative")

// ErrInvalidRating rejects a rating outside 1..5.
var ErrInvalidRating = errors.New("catalog: rating must be between 1 and 5")

// UpdateSalePrecio sets or clears a game's sale price. A price of zero clears
// the offer; a positive price activates it.
func (s *Service) UpdateSalePrecio(ctx context.Context, juegoID uint64, precio float64) error {
	if precio < 0 {
		return ErrInvalidPrice
	}
	var juego models.Juego
	errFind := s.db.WithContext(ctx).First(&juego, juegoID).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errFind != nil {
		return fmt.Errorf("catalog: load game %d: %w", juegoID, errFind)
	}

	updates := map[string]any{}
	if precio == 0 {
		updates["esta_oferta"] = false
		updates["precio_oferta"] = nil
	} else {
		updates["esta_oferta"] = true
		updates["precio_oferta"] = precio
	}
	errUpdate := s.db.WithContext(ctx).Model(&juego).Updates(updates).Error
	if errUpdate != nil {
		return fmt.Errorf("catalog: update sale price: %w", errUpdate)
	}
	return nil
}

// DeleteGame removes a game together with its ratings and platform links.
func (s *Service) DeleteGame(ctx context.Context, juegoID uint64) error {
	var juego models.Juego
	errFind := s.db.WithContext(ctx).First(&juego, juegoID).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errFind != nil {
		return fmt.Errorf("catalog: load game %d: %w", juegoID, errFind)
	}
	errDelete := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if errRatings := tx.Where("juego_id = ?", juegoID).Delete(&models.Calificacion{}).Error; errRatings != nil {
			return errRatings
		}
		if errLinks := tx.Where("juego_id = ?", juegoID).Delete(&models.JuegoPlataforma{}).Error; errLinks != nil {
			return errLinks
		}
		return tx.Delete(&juego).Error
	})
	if errDelete != nil {
		return fmt.Errorf("catalog: delete game %d: %w", juegoID, errDelete)
	}
	return nil
}

// CreateRating records a review for a game.
func (s *Service) CreateRating(ctx context.Context, juegoID, usuarioID uint64, valoracion int, comentario string) (*models.Calificacion, error) {
	if valoracion < models.ValoracionMin || valoracion > models.ValoracionMax {
		return nil, ErrInvalidRating
	}
	var juego models.Juego
	errFind := s.db.WithContext(ctx).First(&juego, juegoID).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if errFind != nil {
		return nil, fmt.Errorf("catalog: load game %d: %w", juegoID, errFind)
	}
	rating := models.Calificacion{
		JuegoID:    juegoID,
		UsuarioID:  usuarioID,
		Valoracion: valoracion,
		Comentario: comentario,
	}
	if errCreate := s.db.WithContext(ctx).Create(&rating).Error; errCreate != nil {
		return nil, fmt.Errorf("catalog: create rating: %w", errCreate)
	}
	return &rating, nil
}

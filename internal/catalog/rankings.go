package catalog

import (
	"context"
	"fmt"

	"github.com/playvault/gamestore/internal/models"
)

const rankingLimit = 4

// RatedGame pairs a game view with its mean rating.
type RatedGame struct {
	GameView
	Valoracion float64 `json:"valoracion"`
}

// TopRated returns the four games with the highest mean rating. Games with no
// ratings never appear.
func (s *Service) TopRated(ctx context.Context) ([]RatedGame, error) {
	type avgRow struct {
		JuegoID uint64
		Media   float64
	}
	var rows []avgRow
	errAvg := s.db.WithContext(ctx).
		Model(&models.Calificacion{}).
		Select("juego_id, AVG(valoracion) AS media").
		Group("juego_id").
		Order("media DESC").
		Limit(rankingLimit).
		Scan(&rows).Error
	if errAvg != nil {
		return nil, fmt.Errorf("catalog: top rated: %w", errAvg)
	}

	rated := make([]RatedGame, 0, len(rows))
	for _, row := range rows {
		view, errView := s.GetGame(ctx, row.JuegoID)
		if errView != nil {
			return nil, errView
		}
		rated = append(rated, RatedGame{GameView: *view, Valoracion: row.Media})
	}
	return rated, nil
}

// TopSellers returns the first four games in table order. Sales volume is not
// consulted yet; the venta table carries the data once a real ranking lands.
func (s *Service) TopSellers(ctx context.Context) ([]GameView, error) {
	var juegos []models.Juego
	errFind := s.db.WithContext(ctx).
		Preload("Categoria").
		Preload("Plataformas").
		Where("estado = ?", true).
		Order("id ASC").
		Limit(rankingLimit).
		Find(&juegos).Error
	if errFind != nil {
		return nil, fmt.Errorf("catalog: top sellers: %w", errFind)
	}
	return s.assembleViews(ctx, juegos)
}

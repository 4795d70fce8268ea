// Package catalog is the read side of the storefront: it joins the
// normalized tables back into the denormalized view models the frontend
// consumes, and computes the ranking and earnings aggregations.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/playvault/gamestore/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound marks a missing game.
var ErrNotFound = errors.New("catalog: game not found")

// ReviewView is one review inside a GameView.
type ReviewView struct {
	ID      uint64 `json:"id"`
	User    string `json:"user"`
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

// GameView is the denormalized shape the frontend consumes: the single
// category as a one-element genre list, platform names, and reviews with the
// rater's display name.
type GameView struct {
	ID           uint64       `json:"id"`
	Title        string       `json:"title"`
	Price        float64      `json:"price"`
	Image        string       `json:"image"`
	Trailer      string       `json:"trailer"`
	Genre        []string     `json:"genre"`
	Platform     []string     `json:"platform"`
	Reviews      []ReviewView `json:"reviews"`
	EstaOferta   bool         `json:"esta_oferta"`
	PrecioOferta *float64     `json:"precio_oferta,omitempty"`
}

// Service exposes the read-side queries.
type Service struct {
	db *gorm.DB
}

// NewService constructs a Service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListGames returns views for every active game.
func (s *Service) ListGames(ctx context.Context) ([]GameView, error) {
	var juegos []models.Juego
	errFind := s.db.WithContext(ctx).
		Preload("Categoria").
		Preload("Plataformas").
		Where("estado = ?", true).
		Order("id ASC").
		Find(&juegos).Error
	if errFind != nil {
		return nil, fmt.Errorf("catalog: list games: %w", errFind)
	}
	return s.assembleViews(ctx, juegos)
}

// GetGame returns the view for one game.
func (s *Service) GetGame(ctx context.Context, id uint64) (*GameView, error) {
	var juego models.Juego
	errFind := s.db.WithContext(ctx).
		Preload("Categoria").
		Preload("Plataformas").
		First(&juego, id).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if errFind != nil {
		return nil, fmt.Errorf("catalog: get game %d: %w", id, errFind)
	}
	views, errAssemble := s.assembleViews(ctx, []models.Juego{juego})
	if errAssemble != nil {
		return nil, errAssemble
	}
	return &views[0], nil
}

// assembleViews shapes rows into views, loading all reviews in one query.
func (s *Service) assembleViews(ctx context.Context, juegos []models.Juego) ([]GameView, error) {
	ids := make([]uint64, 0, len(juegos))
	for _, juego := range juegos {
		ids = append(ids, juego.ID)
	}

	reviewsByGame := map[uint64][]ReviewView{}
	if len(ids) > 0 {
		var ratings []models.Calificacion
		errFind := s.db.WithContext(ctx).
			Preload("Usuario").
			Where("juego_id IN ?", ids).
			Order("id ASC").
			Find(&ratings).Error
		if errFind != nil {
			return nil, fmt.Errorf("catalog: load reviews: %w", errFind)
		}
		for _, rating := range ratings {
			nombre := ""
			if rating.Usuario != nil {
				nombre = rating.Usuario.Nombre
			}
			reviewsByGame[rating.JuegoID] = append(reviewsByGame[rating.JuegoID], ReviewView{
				ID:      rating.ID,
				User:    nombre,
				Comment: rating.Comentario,
				Rating:  rating.Valoracion,
			})
		}
	}

	views := make([]GameView, 0, len(juegos))
	for _, juego := range juegos {
		genre := []string{}
		if juego.Categoria != nil {
			genre = []string{juego.Categoria.Nombre}
		}
		platform := make([]string, 0, len(juego.Plataformas))
		for _, plataforma := range juego.Plataformas {
			platform = append(platform, plataforma.Nombre)
		}
		reviews := reviewsByGame[juego.ID]
		if reviews == nil {
			reviews = []ReviewView{}
		}
		views = append(views, GameView{
			ID:           juego.ID,
			Title:        juego.Nombre,
			Price:        juego.Precio,
			Image:        juego.Image,
			Trailer:      juego.Trailer,
			Genre:        genre,
			Platform:     platform,
			Reviews:      reviews,
			EstaOferta:   juego.EstaOferta,
			PrecioOferta: juego.PrecioOferta,
		})
	}
	return views, nil
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playvault/gamestore/internal/catalog"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GameHandler serves the catalog: listings, detail views, rankings, reviews,
// and the admin mutations.
type GameHandler struct {
	db      *gorm.DB
	catalog *catalog.Service
}

// NewGameHandler constructs a GameHandler.
func NewGameHandler(db *gorm.DB) *GameHandler {
	return &GameHandler{db: db, catalog: catalog.NewService(db)}
}

// parseIDParam reads the :id route parameter.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// List returns every active game.
func (h *GameHandler) List(c *gin.Context) {
	views, errList := h.catalog.ListGames(c.Request.Context())
	if errList != nil {
		log.WithError(errList).Error("list games failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list games failed"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// Get returns one game with genres, platforms, and reviews.
func (h *GameHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	view, errGet := h.catalog.GetGame(c.Request.Context(), id)
	if errors.Is(errGet, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if errGet != nil {
		log.WithError(errGet).Error("get game failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get game failed"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// TopRated returns the four games with the highest mean rating.
func (h *GameHandler) TopRated(c *gin.Context) {
	rated, errTop := h.catalog.TopRated(c.Request.Context())
	if errTop != nil {
		log.WithError(errTop).Error("top rated failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "top rated failed"})
		return
	}
	c.JSON(http.StatusOK, rated)
}

// TopSellers returns the featured sellers list.
func (h *GameHandler) TopSellers(c *gin.Context) {
	views, errTop := h.catalog.TopSellers(c.Request.Context())
	if errTop != nil {
		log.WithError(errTop).Error("top sellers failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "top sellers failed"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// createReviewRequest defines the request body for posting a review.
type createReviewRequest struct {
	Valoracion int    `json:"valoracion"`
	Comentario string `json:"comentario"`
}

// CreateReview records a review by the authenticated, verified user.
func (h *GameHandler) CreateReview(c *gin.Context) {
	usuario := currentUsuario(c)
	if usuario == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	if !usuario.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body createReviewRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	rating, errCreate := h.catalog.CreateRating(c.Request.Context(), id, usuario.ID, body.Valoracion, body.Comentario)
	switch {
	case errors.Is(errCreate, catalog.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
	case errors.Is(errCreate, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errCreate != nil:
		log.WithError(errCreate).Error("create review failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create review failed"})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"id":         rating.ID,
			"valoracion": rating.Valoracion,
			"comentario": rating.Comentario,
		})
	}
}

// Delete removes a game. Admin only.
func (h *GameHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	errDelete := h.catalog.DeleteGame(c.Request.Context(), id)
	if errors.Is(errDelete, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if errDelete != nil {
		log.WithError(errDelete).Error("delete game failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete game failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "game deleted"})
}

// updateOfertaRequest defines the request body for the sale-price update.
type updateOfertaRequest struct {
	Precio float64 `json:"precio"`
}

// UpdateOferta sets or clears a game's sale price. Admin only.
func (h *GameHandler) UpdateOferta(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body updateOfertaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	errUpdate := h.catalog.UpdateSalePrecio(c.Request.Context(), id, body.Precio)
	switch {
	case errors.Is(errUpdate, catalog.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "precio must not be negative"})
	case errors.Is(errUpdate, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
	case errUpdate != nil:
		log.WithError(errUpdate).Error("update oferta failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update oferta failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "oferta updated"})
	}
}

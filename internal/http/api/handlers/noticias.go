package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playvault/gamestore/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NoticiaHandler serves storefront news: public listing plus admin CRUD.
type NoticiaHandler struct {
	db *gorm.DB
}

// NewNoticiaHandler constructs a NoticiaHandler.
func NewNoticiaHandler(db *gorm.DB) *NoticiaHandler {
	return &NoticiaHandler{db: db}
}

// noticiaView is one news item in a response body.
type noticiaView struct {
	ID     uint64 `json:"id"`
	Titulo string `json:"titulo"`
	Texto  string `json:"texto"`
	Activo bool   `json:"activo"`
}

func shapeNoticia(noticia models.Noticia) noticiaView {
	return noticiaView{
		ID:     noticia.ID,
		Titulo: noticia.Titulo,
		Texto:  noticia.Texto,
		Activo: noticia.Activo,
	}
}

// List returns active news items, newest first.
func (h *NoticiaHandler) List(c *gin.Context) {
	var noticias []models.Noticia
	errFind := h.db.WithContext(c.Request.Context()).
		Where("activo = ?", true).
		Order("id DESC").
		Find(&noticias).Error
	if errFind != nil {
		log.WithError(errFind).Error("list noticias failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list noticias failed"})
		return
	}
	views := make([]noticiaView, 0, len(noticias))
	for _, noticia := range noticias {
		views = append(views, shapeNoticia(noticia))
	}
	c.JSON(http.StatusOK, views)
}

// noticiaRequest defines the request body for creating or updating news.
type noticiaRequest struct {
	Titulo string `json:"titulo"`
	Texto  string `json:"texto"`
	Activo *bool  `json:"activo"`
}

// Create adds a news item. Admin only.
func (h *NoticiaHandler) Create(c *gin.Context) {
	var body noticiaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	titulo := strings.TrimSpace(body.Titulo)
	if titulo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing titulo"})
		return
	}

	noticia := models.Noticia{Titulo: titulo, Texto: body.Texto, Activo: true}
	if body.Activo != nil {
		noticia.Activo = *body.Activo
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&noticia).Error; errCreate != nil {
		log.WithError(errCreate).Error("create noticia failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create noticia failed"})
		return
	}
	c.JSON(http.StatusCreated, shapeNoticia(noticia))
}

// Update edits a news item. Admin only.
func (h *NoticiaHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body noticiaRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	var noticia models.Noticia
	errFind := h.db.WithContext(c.Request.Context()).First(&noticia, id).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "noticia not found"})
		return
	}
	if errFind != nil {
		log.WithError(errFind).Error("load noticia failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update noticia failed"})
		return
	}

	updates := map[string]any{}
	if titulo := strings.TrimSpace(body.Titulo); titulo != "" {
		updates["titulo"] = titulo
	}
	if body.Texto != "" {
		updates["texto"] = body.Texto
	}
	if body.Activo != nil {
		updates["activo"] = *body.Activo
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&noticia).Updates(updates).Error; errUpdate != nil {
		log.WithError(errUpdate).Error("update noticia failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update noticia failed"})
		return
	}
	c.JSON(http.StatusOK, shapeNoticia(noticia))
}

// Delete removes a news item. Admin only.
func (h *NoticiaHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	result := h.db.WithContext(c.Request.Context()).Delete(&models.Noticia{}, id)
	if result.Error != nil {
		log.WithError(result.Error).Error("delete noticia failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete noticia failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "noticia not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "noticia deleted"})
}

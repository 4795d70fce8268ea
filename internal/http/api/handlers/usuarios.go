package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	dbutil "github.com/playvault/gamestore/internal/db"
	"github.com/playvault/gamestore/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UsuarioHandler serves the admin account listings.
type UsuarioHandler struct {
	db *gorm.DB
}

// NewUsuarioHandler constructs a UsuarioHandler.
func NewUsuarioHandler(db *gorm.DB) *UsuarioHandler {
	return &UsuarioHandler{db: db}
}

// usuarioView is an account without its password hash.
type usuarioView struct {
	ID         uint64 `json:"id"`
	Nombre     string `json:"nombre"`
	Correo     string `json:"correo"`
	Rol        string `json:"rol"`
	Estado     bool   `json:"estado"`
	IsVerified bool   `json:"is_verified"`
}

// List returns accounts with an optional case-insensitive search over name
// and email.
func (h *UsuarioHandler) List(c *gin.Context) {
	searchQ := strings.TrimSpace(c.Query("search"))

	q := h.db.WithContext(c.Request.Context()).Model(&models.Usuario{})
	if searchQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+searchQ+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "nombre"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "correo"), pattern),
		)
	}

	var usuarios []models.Usuario
	if errFind := q.Order("id ASC").Find(&usuarios).Error; errFind != nil {
		log.WithError(errFind).Error("list usuarios failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list usuarios failed"})
		return
	}

	views := make([]usuarioView, 0, len(usuarios))
	for _, usuario := range usuarios {
		views = append(views, usuarioView{
			ID:         usuario.ID,
			Nombre:     usuario.Nombre,
			Correo:     usuario.Correo,
			Rol:        usuario.Rol,
			Estado:     usuario.Estado,
			IsVerified: usuario.IsVerified,
		})
	}
	c.JSON(http.StatusOK, views)
}

// Count returns the number of registered accounts.
func (h *UsuarioHandler) Count(c *gin.Context) {
	var total int64
	errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.Usuario{}).
		Count(&total).Error
	if errCount != nil {
		log.WithError(errCount).Error("count usuarios failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count usuarios failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": total})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playvault/gamestore/internal/catalog"
	"github.com/playvault/gamestore/internal/mail"
	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VentaHandler serves checkout, purchase history, and the earnings reports.
type VentaHandler struct {
	db      *gorm.DB
	catalog *catalog.Service
	mailer  mail.Mailer
}

// NewVentaHandler constructs a VentaHandler.
func NewVentaHandler(db *gorm.DB, mailer mail.Mailer) *VentaHandler {
	return &VentaHandler{db: db, catalog: catalog.NewService(db), mailer: mailer}
}

// checkoutRequest defines the request body for checkout: the ids of the games
// being bought.
type checkoutRequest struct {
	Juegos []uint64 `json:"juegos"`
}

// ventaResponse is one recorded sale in the checkout response.
type ventaResponse struct {
	ID          uint64  `json:"id"`
	JuegoID     uint64  `json:"juego_id"`
	Titulo      string  `json:"titulo"`
	Codigo      string  `json:"codigo"`
	MontoPagado float64 `json:"monto_pagado"`
}

// Checkout records one sale per game, generating a redemption code for each,
// and mails the buyer a confirmation. The sale price applies when the game is
// on offer.
func (h *VentaHandler) Checkout(c *gin.Context) {
	usuario := currentUsuario(c)
	if usuario == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var body checkoutRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(body.Juegos) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty cart"})
		return
	}

	var (
		responses []ventaResponse
		lines     []mail.PurchaseLine
	)
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		for _, juegoID := range body.Juegos {
			var juego models.Juego
			if errFind := tx.First(&juego, juegoID).Error; errFind != nil {
				return errFind
			}
			monto := juego.Precio
			if juego.EstaOferta && juego.PrecioOferta != nil {
				monto = *juego.PrecioOferta
			}
			venta := models.Venta{
				UsuarioID:   usuario.ID,
				JuegoID:     juego.ID,
				Codigo:      security.NewRedemptionCode(),
				MontoPagado: monto,
			}
			if errCreate := tx.Create(&venta).Error; errCreate != nil {
				return errCreate
			}
			responses = append(responses, ventaResponse{
				ID:          venta.ID,
				JuegoID:     juego.ID,
				Titulo:      juego.Nombre,
				Codigo:      venta.Codigo,
				MontoPagado: venta.MontoPagado,
			})
			lines = append(lines, mail.PurchaseLine{
				Titulo: juego.Nombre,
				Codigo: venta.Codigo,
				Monto:  venta.MontoPagado,
			})
		}
		return nil
	})
	if errors.Is(errTx, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if errTx != nil {
		log.WithError(errTx).Error("checkout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}

	subject, bodyText := mail.PurchaseMessage(lines)
	if errSend := h.mailer.Send(usuario.Correo, subject, bodyText); errSend != nil {
		// The sale is already recorded; mail failure must not undo it.
		log.WithError(errSend).Warn("send purchase mail failed")
	}

	c.JSON(http.StatusCreated, gin.H{"ventas": responses})
}

// ventaListItem is one sale in a history or admin listing.
type ventaListItem struct {
	ID          uint64    `json:"id"`
	Fecha       time.Time `json:"fecha"`
	UsuarioID   uint64    `json:"usuario_id"`
	Usuario     string    `json:"usuario,omitempty"`
	JuegoID     uint64    `json:"juego_id"`
	Titulo      string    `json:"titulo"`
	Codigo      string    `json:"codigo"`
	MontoPagado float64   `json:"monto_pagado"`
}

// shapeVentas maps sale rows into listing items.
func shapeVentas(ventas []models.Venta) []ventaListItem {
	items := make([]ventaListItem, 0, len(ventas))
	for _, venta := range ventas {
		item := ventaListItem{
			ID:          venta.ID,
			Fecha:       venta.Fecha,
			UsuarioID:   venta.UsuarioID,
			JuegoID:     venta.JuegoID,
			Codigo:      venta.Codigo,
			MontoPagado: venta.MontoPagado,
		}
		if venta.Juego != nil {
			item.Titulo = venta.Juego.Nombre
		}
		if venta.Usuario != nil {
			item.Usuario = venta.Usuario.Nombre
		}
		items = append(items, item)
	}
	return items
}

// ListByUser returns a user's purchase history. Users see only their own;
// admins see anyone's.
func (h *VentaHandler) ListByUser(c *gin.Context) {
	usuario := currentUsuario(c)
	if usuario == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	targetID, errParse := strconv.ParseUint(c.Param("usuarioId"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if targetID != usuario.ID && usuario.Rol != models.RolAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	var ventas []models.Venta
	errFind := h.db.WithContext(c.Request.Context()).
		Preload("Juego").
		Where("usuario_id = ?", targetID).
		Order("fecha DESC").
		Find(&ventas).Error
	if errFind != nil {
		log.WithError(errFind).Error("list ventas failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list ventas failed"})
		return
	}
	c.JSON(http.StatusOK, shapeVentas(ventas))
}

// List returns every sale. Admin only.
func (h *VentaHandler) List(c *gin.Context) {
	var ventas []models.Venta
	errFind := h.db.WithContext(c.Request.Context()).
		Preload("Juego").
		Preload("Usuario").
		Order("fecha DESC").
		Find(&ventas).Error
	if errFind != nil {
		log.WithError(errFind).Error("list ventas failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list ventas failed"})
		return
	}
	c.JSON(http.StatusOK, shapeVentas(ventas))
}

// Earnings returns the all-time earnings total. Admin only.
func (h *VentaHandler) Earnings(c *gin.Context) {
	total, errTotal := h.catalog.EarningsTotal(c.Request.Context())
	if errTotal != nil {
		log.WithError(errTotal).Error("earnings failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "earnings failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// EarningsByMonth returns twelve monthly totals, January first. Admin only.
func (h *VentaHandler) EarningsByMonth(c *gin.Context) {
	totals, errTotals := h.catalog.EarningsByMonth(c.Request.Context())
	if errTotals != nil {
		log.WithError(errTotals).Error("earnings by month failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "earnings by month failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": totals[:]})
}

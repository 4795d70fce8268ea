package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playvault/gamestore/internal/models"
)

// Context keys populated by the auth middleware.
const (
	CtxUserID   = "userID"
	CtxUsuario  = "usuario"
	CtxUserRol  = "userRol"
	CtxVerified = "userVerified"
)

// currentUsuario returns the authenticated account, or nil outside an
// authenticated route.
func currentUsuario(c *gin.Context) *models.Usuario {
	value, ok := c.Get(CtxUsuario)
	if !ok {
		return nil
	}
	usuario, ok := value.(*models.Usuario)
	if !ok {
		return nil
	}
	return usuario
}

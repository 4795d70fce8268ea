// Package api wires the storefront's HTTP surface: public catalog and auth
// endpoints, authenticated checkout and reviews, and the admin backoffice.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playvault/gamestore/internal/config"
	"github.com/playvault/gamestore/internal/http/api/handlers"
	"github.com/playvault/gamestore/internal/mail"
	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	"gorm.io/gorm"
)

// RegisterRoutes registers every route, middleware, and handler on r.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, mailer mail.Mailer) {
	if r == nil || db == nil {
		return
	}

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authHandler := handlers.NewAuthHandler(db, cfg, mailer)
	api.POST("/login", authHandler.Login)
	api.POST("/register", authHandler.Register)
	api.POST("/confirm-email", authHandler.ConfirmEmail)
	api.POST("/request-password-reset", authHandler.RequestPasswordReset)
	api.POST("/reset-password", authHandler.ResetPassword)
	api.GET("/validate-token", authHandler.ValidateToken)

	gameHandler := handlers.NewGameHandler(db)
	api.GET("/games", gameHandler.List)
	api.GET("/games/top-rated", gameHandler.TopRated)
	api.GET("/games/top-sellers", gameHandler.TopSellers)
	api.GET("/games/:id", gameHandler.Get)

	noticiaHandler := handlers.NewNoticiaHandler(db)
	api.GET("/noticias", noticiaHandler.List)

	authed := api.Group("")
	authed.Use(authMiddleware(db, cfg.JWT))

	authed.POST("/games/:id/reviews", gameHandler.CreateReview)

	ventaHandler := handlers.NewVentaHandler(db, mailer)
	authed.POST("/ventas", ventaHandler.Checkout)
	authed.GET("/ventas/:usuarioId", ventaHandler.ListByUser)

	admin := api.Group("")
	admin.Use(authMiddleware(db, cfg.JWT))
	admin.Use(adminMiddleware())

	admin.DELETE("/games/:id", gameHandler.Delete)
	admin.PATCH("/games/:id/oferta", gameHandler.UpdateOferta)
	admin.GET("/ventas", ventaHandler.List)

	usuarioHandler := handlers.NewUsuarioHandler(db)
	admin.GET("/usuarios", usuarioHandler.List)
	admin.GET("/usuarios/count", usuarioHandler.Count)

	admin.GET("/admin/earnings", ventaHandler.Earnings)
	admin.GET("/admin/earnings-by-month", ventaHandler.EarningsByMonth)

	admin.POST("/noticias", noticiaHandler.Create)
	admin.PUT("/noticias/:id", noticiaHandler.Update)
	admin.DELETE("/noticias/:id", noticiaHandler.Delete)
}

// authMiddleware validates the bearer token and loads the account it names.
func authMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseUserToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		var usuario models.Usuario
		if errFind := db.WithContext(c.Request.Context()).First(&usuario, claims.UserID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user not found"})
			return
		}
		if !usuario.Estado {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		c.Set(handlers.CtxUserID, usuario.ID)
		c.Set(handlers.CtxUsuario, &usuario)
		c.Set(handlers.CtxUserRol, usuario.Rol)
		c.Set(handlers.CtxVerified, usuario.IsVerified)
		c.Next()
	}
}

// adminMiddleware requires the admin role. Runs after authMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rol, _ := c.Get(handlers.CtxUserRol)
		if rol != models.RolAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playvault/gamestore/internal/config"
	"github.com/playvault/gamestore/internal/mail"
	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	"github.com/playvault/gamestore/internal/tokens"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthHandler manages login, registration, and the email token flows.
type AuthHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer mail.Mailer
	tokens *tokens.Store
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, mailer mail.Mailer) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, mailer: mailer, tokens: tokens.NewStore(db)}
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Nombre   string `json:"nombre"`
	Password string `json:"password"`
}

// Login authenticates by display name and password and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	nombre := strings.TrimSpace(body.Nombre)
	if nombre == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing credentials"})
		return
	}

	var usuario models.Usuario
	errFind := h.db.WithContext(c.Request.Context()).
		Where("nombre = ?", nombre).
		First(&usuario).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if errFind != nil {
		log.WithError(errFind).Error("login lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	if !security.CheckPassword(usuario.Password, body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !usuario.Estado {
		c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
		return
	}

	signed, errSign := security.SignUserToken(h.cfg.JWT.Secret, h.cfg.JWT.Expiry, usuario.ID, usuario.Nombre, usuario.Rol)
	if errSign != nil {
		log.WithError(errSign).Error("sign token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user": gin.H{
			"id":          usuario.ID,
			"nombre":      usuario.Nombre,
			"correo":      usuario.Correo,
			"rol":         usuario.Rol,
			"is_verified": usuario.IsVerified,
		},
	})
}

// registerRequest defines the request body for registration.
type registerRequest struct {
	Nombre   string `json:"nombre"`
	Correo   string `json:"correo"`
	Password string `json:"password"`
}

// Register creates an unverified account and mails a verification link.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	nombre := strings.TrimSpace(body.Nombre)
	correo := strings.TrimSpace(body.Correo)
	if nombre == "" || correo == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}

	var existing int64
	errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.Usuario{}).
		Where("correo = ? OR nombre = ?", correo, nombre).
		Count(&existing).Error
	if errCount != nil {
		log.WithError(errCount).Error("register lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
		return
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		log.WithError(errHash).Error("hash password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}

	usuario := models.Usuario{
		Nombre:     nombre,
		Correo:     correo,
		Password:   hash,
		Rol:        models.RolUser,
		Estado:     true,
		IsVerified: false,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&usuario).Error; errCreate != nil {
		log.WithError(errCreate).Error("create user failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}

	raw, errIssue := h.tokens.Issue(c.Request.Context(), usuario.ID, models.TokenTypeVerify)
	if errIssue != nil {
		log.WithError(errIssue).Error("issue verify token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "register failed"})
		return
	}
	subject, bodyText := mail.VerificationMessage(h.cfg.PublicURL, raw)
	if errSend := h.mailer.Send(usuario.Correo, subject, bodyText); errSend != nil {
		// The account exists; the user can request a new link.
		log.WithError(errSend).Warn("send verification mail failed")
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     usuario.ID,
		"nombre": usuario.Nombre,
		"correo": usuario.Correo,
	})
}

// tokenRequest carries a raw email token.
type tokenRequest struct {
	Token string `json:"token"`
}

// ConfirmEmail marks the account behind a verification token as verified.
// Confirming an already verified account succeeds again.
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var body tokenRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	raw := strings.TrimSpace(body.Token)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	errConfirm := h.tokens.ConfirmEmail(c.Request.Context(), raw)
	switch {
	case errConfirm == nil:
		c.JSON(http.StatusOK, gin.H{"message": "email confirmed"})
	case errors.Is(errConfirm, tokens.ErrTokenExpired):
		c.JSON(http.StatusForbidden, gin.H{"error": "token expired"})
	case errors.Is(errConfirm, tokens.ErrTokenInvalid):
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid token"})
	default:
		log.WithError(errConfirm).Error("confirm email failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "confirm failed"})
	}
}

// resetRequestBody defines the request body for a password reset request.
type resetRequestBody struct {
	Correo string `json:"correo"`
}

// RequestPasswordReset mails a reset link to a registered address.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var body resetRequestBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	correo := strings.TrimSpace(body.Correo)
	if correo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing correo"})
		return
	}

	var usuario models.Usuario
	errFind := h.db.WithContext(c.Request.Context()).
		Where("correo = ?", correo).
		First(&usuario).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if errFind != nil {
		log.WithError(errFind).Error("reset lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset request failed"})
		return
	}

	raw, errIssue := h.tokens.Issue(c.Request.Context(), usuario.ID, models.TokenTypeReset)
	if errIssue != nil {
		log.WithError(errIssue).Error("issue reset token failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset request failed"})
		return
	}
	subject, bodyText := mail.ResetMessage(h.cfg.PublicURL, raw)
	if errSend := h.mailer.Send(usuario.Correo, subject, bodyText); errSend != nil {
		log.WithError(errSend).Error("send reset mail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset request failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reset email sent"})
}

// resetPasswordBody defines the request body for completing a reset.
type resetPasswordBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword sets a new password for the account behind a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var body resetPasswordBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	raw := strings.TrimSpace(body.Token)
	if raw == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing fields"})
		return
	}

	errReset := h.tokens.ResetPassword(c.Request.Context(), raw, body.Password)
	switch {
	case errReset == nil:
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	case errors.Is(errReset, tokens.ErrTokenExpired):
		c.JSON(http.StatusForbidden, gin.H{"error": "token expired"})
	case errors.Is(errReset, tokens.ErrTokenInvalid):
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid token"})
	default:
		log.WithError(errReset).Error("reset password failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
	}
}

// ValidateToken checks the bearer token in the Authorization header and
// returns the claims it carries.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
		return
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if raw == "" || raw == authHeader {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
		return
	}

	claims, errJWT := security.ParseUserToken(h.cfg.JWT.Secret, raw)
	if errJWT != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"uid":    claims.UserID,
		"nombre": claims.Nombre,
		"rol":    claims.Rol,
	})
}

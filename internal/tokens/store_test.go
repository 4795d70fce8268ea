package tokens

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/playvault/gamestore/internal/db"
	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "tokens-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func createTestUser(t *testing.T, conn *gorm.DB, nombre string) *models.Usuario {
	t.Helper()
	hash, errHash := security.HashPassword("secret123")
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	usuario := models.Usuario{
		Nombre:   nombre,
		Correo:   nombre + "@example.com",
		Password: hash,
		Rol:      models.RolUser,
		Estado:   true,
	}
	if errCreate := conn.Create(&usuario).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	return &usuario
}

func TestConfirmEmail_MarksUserVerified(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	usuario := createTestUser(t, conn, "ana")

	raw, errIssue := store.Issue(context.Background(), usuario.ID, models.TokenTypeVerify)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	if errConfirm := store.ConfirmEmail(context.Background(), raw); errConfirm != nil {
		t.Fatalf("confirm: %v", errConfirm)
	}

	var updated models.Usuario
	if errFind := conn.First(&updated, usuario.ID).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if !updated.IsVerified {
		t.Fatalf("expected user to be verified")
	}

	var remaining int64
	if errCount := conn.Model(&models.EmailToken{}).Count(&remaining).Error; errCount != nil {
		t.Fatalf("count tokens: %v", errCount)
	}
	if remaining != 0 {
		t.Fatalf("expected token row to be consumed, %d left", remaining)
	}
}

func TestConfirmEmail_SecondConfirmSucceeds(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	usuario := createTestUser(t, conn, "bruno")

	raw, errIssue := store.Issue(context.Background(), usuario.ID, models.TokenTypeVerify)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	if errFirst := store.ConfirmEmail(context.Background(), raw); errFirst != nil {
		t.Fatalf("first confirm: %v", errFirst)
	}
	if errSecond := store.ConfirmEmail(context.Background(), raw); errSecond != nil {
		t.Fatalf("second confirm with same token: %v", errSecond)
	}
}

func TestConfirmEmail_UnknownTokenInvalid(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)

	errConfirm := store.ConfirmEmail(context.Background(), "no-such-token")
	if errConfirm != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", errConfirm)
	}
}

func TestConfirmEmail_ExpiredTokenDeleted(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	usuario := createTestUser(t, conn, "carla")

	raw, errIssue := store.Issue(context.Background(), usuario.ID, models.TokenTypeVerify)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	stale := time.Now().UTC().Add(-TTL - time.Hour)
	errAge := conn.Model(&models.EmailToken{}).
		Where("token = ?", raw).
		Update("created_at", stale).Error
	if errAge != nil {
		t.Fatalf("age token: %v", errAge)
	}

	if errConfirm := store.ConfirmEmail(context.Background(), raw); errConfirm != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", errConfirm)
	}
	// The expired row is gone; retrying now reports invalid.
	if errRetry := store.ConfirmEmail(context.Background(), raw); errRetry != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid after expiry, got %v", errRetry)
	}

	var usuarioAfter models.Usuario
	if errFind := conn.First(&usuarioAfter, usuario.ID).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if usuarioAfter.IsVerified {
		t.Fatalf("expired token must not verify the user")
	}
}

func TestResetPassword_UpdatesHashAndConsumesToken(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	usuario := createTestUser(t, conn, "diego")

	raw, errIssue := store.Issue(context.Background(), usuario.ID, models.TokenTypeReset)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	if errReset := store.ResetPassword(context.Background(), raw, "newsecret"); errReset != nil {
		t.Fatalf("reset: %v", errReset)
	}

	var updated models.Usuario
	if errFind := conn.First(&updated, usuario.ID).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if !security.CheckPassword(updated.Password, "newsecret") {
		t.Fatalf("new password does not verify")
	}
	if security.CheckPassword(updated.Password, "secret123") {
		t.Fatalf("old password still verifies")
	}

	if errAgain := store.ResetPassword(context.Background(), raw, "thirdsecret"); errAgain != ErrTokenInvalid {
		t.Fatalf("expected consumed token to be invalid, got %v", errAgain)
	}
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	usuario := createTestUser(t, conn, "elena")

	raw, errIssue := store.Issue(context.Background(), usuario.ID, models.TokenTypeReset)
	if errIssue != nil {
		t.Fatalf("issue: %v", errIssue)
	}
	stale := time.Now().UTC().Add(-TTL - time.Minute)
	errAge := conn.Model(&models.EmailToken{}).
		Where("token = ?", raw).
		Update("created_at", stale).Error
	if errAge != nil {
		t.Fatalf("age token: %v", errAge)
	}

	if errReset := store.ResetPassword(context.Background(), raw, "newsecret"); errReset != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", errReset)
	}

	var remaining int64
	if errCount := conn.Model(&models.EmailToken{}).Count(&remaining).Error; errCount != nil {
		t.Fatalf("count tokens: %v", errCount)
	}
	if remaining != 0 {
		t.Fatalf("expected expired row to be deleted, %d left", remaining)
	}
	// The expired row is gone; retrying now reports invalid.
	if errRetry := store.ResetPassword(context.Background(), raw, "newsecret"); errRetry != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid after expiry, got %v", errRetry)
	}

	var updated models.Usuario
	if errFind := conn.First(&updated, usuario.ID).Error; errFind != nil {
		t.Fatalf("find user: %v", errFind)
	}
	if !security.CheckPassword(updated.Password, "secret123") {
		t.Fatalf("expired reset must not change the password")
	}
}

func TestIssue_RejectsUnknownType(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	usuario := createTestUser(t, conn, "fabian")

	if _, errIssue := store.Issue(context.Background(), usuario.ID, "session"); errIssue == nil {
		t.Fatalf("expected unknown token type to be rejected")
	}
}

func TestCleanup_RemovesOnlyExpired(t *testing.T) {
	conn := openTestDB(t)
	store := NewStore(conn)
	usuario := createTestUser(t, conn, "gloria")

	fresh, errFresh := store.Issue(context.Background(), usuario.ID, models.TokenTypeVerify)
	if errFresh != nil {
		t.Fatalf("issue fresh: %v", errFresh)
	}
	staleRaw, errStale := store.Issue(context.Background(), usuario.ID, models.TokenTypeReset)
	if errStale != nil {
		t.Fatalf("issue stale: %v", errStale)
	}
	stale := time.Now().UTC().Add(-TTL - time.Hour)
	errAge := conn.Model(&models.EmailToken{}).
		Where("token = ?", staleRaw).
		Update("created_at", stale).Error
	if errAge != nil {
		t.Fatalf("age token: %v", errAge)
	}

	removed, errCleanup := store.Cleanup(context.Background())
	if errCleanup != nil {
		t.Fatalf("cleanup: %v", errCleanup)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed token, got %d", removed)
	}

	var kept models.EmailToken
	if errFind := conn.Where("token = ?", fresh).First(&kept).Error; errFind != nil {
		t.Fatalf("fresh token should survive cleanup: %v", errFind)
	}
}

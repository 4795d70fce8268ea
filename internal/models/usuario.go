package models

// Roles assignable to a Usuario.
const (
	// RolAdmin grants access to the admin endpoints.
	RolAdmin = "admin"
	// RolUser is the default role for registered accounts.
	RolUser = "user"
)

// Usuario represents a storefront account stored in the database.
type Usuario struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Correo   string `gorm:"type:text;not null;uniqueIndex"` // Unique email address.
	Password string `gorm:"type:text;not null"`             // Bcrypt password hash.
	Nombre   string `gorm:"type:text;not null"`             // Display name.

	// Token holds the last consumed email-confirmation token. It lets a
	// repeated confirmation of an already-verified account succeed after the
	// email_tokens row has been deleted.
	Token *string `gorm:"type:text"`

	Rol        string `gorm:"type:text;not null;default:user"` // Account role.
	Estado     bool   `gorm:"not null;default:true"`           // Active-state flag.
	IsVerified bool   `gorm:"not null;default:false"`          // Email verified flag.
}

// TableName keeps the legacy singular Spanish table name.
func (Usuario) TableName() string { return "usuario" }

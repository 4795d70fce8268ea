package models

// Noticia is a storefront news item managed by admins.
type Noticia struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Titulo string `gorm:"type:text;not null"` // Headline.
	Texto  string `gorm:"type:text;not null"` // Body text.
	// Activo is set explicitly on every insert; a default tag would make GORM
	// drop an explicit false.
	Activo bool `gorm:"not null"`
}

// TableName keeps the legacy singular Spanish table name.
func (Noticia) TableName() string { return "noticia" }

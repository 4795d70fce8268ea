package models

import "gorm.io/datatypes"

// LegacyGame mirrors the flat games table the storefront started with: genre
// and platform lists plus inline review objects persisted as JSON-encoded
// strings. The normalization engine reads this shape and never writes game
// data back to it.
type LegacyGame struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key, preserved during normalization.

	Title   string  `gorm:"type:text;not null"` // Title.
	Price   float64 `gorm:"not null"`           // List price.
	Image   string  `gorm:"type:text"`          // Cover image URL.
	Trailer string  `gorm:"type:text"`          // Trailer URL.

	Genre    datatypes.JSON `gorm:"type:text"` // JSON string array of genres.
	Platform datatypes.JSON `gorm:"type:text"` // JSON string array of platforms.
	Reviews  datatypes.JSON `gorm:"type:text"` // JSON array of inline review objects.
}

// TableName keeps the legacy flat table name.
func (LegacyGame) TableName() string { return "games" }

// LegacyReview is one inline review object from LegacyGame.Reviews.
type LegacyReview struct {
	User    string `json:"user"`
	Comment string `json:"comment"`
	Rating  int    `json:"rating"`
}

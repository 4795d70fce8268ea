package models

// Juego represents a purchasable game in the catalog.
type Juego struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Nombre string  `gorm:"type:text;not null"` // Title.
	Precio float64 `gorm:"not null"`           // List price.

	CategoriaID *uint64    `gorm:"index"`                  // Optional genre reference.
	Categoria   *Categoria `gorm:"foreignKey:CategoriaID"` // Resolved genre.

	EstaOferta   bool     `gorm:"not null;default:false"` // Sale-active flag.
	PrecioOferta *float64 // Sale price; nil when no sale is configured.

	Estado  bool   `gorm:"not null;default:true"` // Active-state flag.
	Image   string `gorm:"type:text"`             // Cover image URL.
	Trailer string `gorm:"type:text"`             // Trailer URL.

	Plataformas []Plataforma `gorm:"many2many:juego_plataforma"` // Linked platforms.
}

// TableName keeps the legacy singular Spanish table name.
func (Juego) TableName() string { return "juego" }

// Categoria is a single-valued game genre.
type Categoria struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.
	Nombre string `gorm:"type:text;not null"`       // Genre name.
}

// TableName keeps the legacy singular Spanish table name.
func (Categoria) TableName() string { return "categoria" }

// Plataforma is a platform a game can be played on.
type Plataforma struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.
	Nombre string `gorm:"type:text;not null"`       // Platform name.
}

// TableName keeps the legacy singular Spanish table name.
func (Plataforma) TableName() string { return "plataforma" }

// JuegoPlataforma is the game/platform join row, unique per pair.
type JuegoPlataforma struct {
	JuegoID      uint64 `gorm:"primaryKey"` // Game reference.
	PlataformaID uint64 `gorm:"primaryKey"` // Platform reference.
}

// TableName keeps the legacy join table name.
func (JuegoPlataforma) TableName() string { return "juego_plataforma" }

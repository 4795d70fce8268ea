package models

// Rating bounds accepted for a Calificacion.
const (
	// ValoracionMin is the lowest accepted score.
	ValoracionMin = 1
	// ValoracionMax is the highest accepted score.
	ValoracionMax = 5
)

// Calificacion is a user review of a game.
type Calificacion struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Valoracion int    `gorm:"not null"`  // Score, 1 to 5 inclusive.
	Comentario string `gorm:"type:text"` // Optional comment.

	JuegoID uint64 `gorm:"not null;index"`    // Reviewed game.
	Juego   *Juego `gorm:"foreignKey:JuegoID"`

	UsuarioID uint64   `gorm:"not null;index"` // Reviewing user.
	Usuario   *Usuario `gorm:"foreignKey:UsuarioID"`
}

// TableName keeps the legacy singular Spanish table name.
func (Calificacion) TableName() string { return "calificacion" }

package models

import "time"

// Venta records one purchased game line item. Rows are immutable after
// creation.
type Venta struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Fecha time.Time `gorm:"not null;autoCreateTime"` // Purchase timestamp.

	UsuarioID uint64   `gorm:"not null;index"` // Buying user.
	Usuario   *Usuario `gorm:"foreignKey:UsuarioID"`

	JuegoID uint64 `gorm:"not null;index"` // Purchased game.
	Juego   *Juego `gorm:"foreignKey:JuegoID"`

	Codigo      string  `gorm:"type:text;not null"` // Redemption code.
	MontoPagado float64 `gorm:"not null"`           // Amount paid.
}

// TableName keeps the legacy singular Spanish table name.
func (Venta) TableName() string { return "venta" }

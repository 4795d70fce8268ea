package db

import (
	"errors"
	"fmt"

	"github.com/playvault/gamestore/internal/models"
	"github.com/playvault/gamestore/internal/security"
	"gorm.io/gorm"
)

// Migrate brings an empty or existing database file to the current schema
// without destroying rows. Safe to run more than once.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errJoin := conn.SetupJoinTable(&models.Juego{}, "Plataformas", &models.JuegoPlataforma{}); errJoin != nil {
		return fmt.Errorf("db: setup join table: %w", errJoin)
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.Usuario{},
		&models.Categoria{},
		&models.Plataforma{},
		&models.Juego{},
		&models.JuegoPlataforma{},
		&models.Calificacion{},
		&models.Venta{},
		&models.Noticia{},
		&models.EmailToken{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// Columns added after the first release; AutoMigrate covers fresh
	// databases, these guard databases created before the columns existed.
	columns := []struct {
		model  any
		column string
	}{
		{&models.Juego{}, "image"},
		{&models.Juego{}, "trailer"},
		{&models.Juego{}, "precio_oferta"},
		{&models.Usuario{}, "is_verified"},
	}
	for _, item := range columns {
		if errColumn := EnsureColumn(conn, item.model, item.column); errColumn != nil {
			return errColumn
		}
	}
	return nil
}

// EnsureColumn adds a column to a model's table when it does not exist yet.
// Adding an already-present column is a no-op, never an error.
func EnsureColumn(conn *gorm.DB, model any, column string) error {
	migrator := conn.Migrator()
	if migrator == nil {
		return fmt.Errorf("db: nil migrator")
	}
	if migrator.HasColumn(model, column) {
		return nil
	}
	if errAdd := migrator.AddColumn(model, column); errAdd != nil {
		return fmt.Errorf("db: add column %s: %w", column, errAdd)
	}
	return nil
}

// MigrateLegacy creates the flat games table used as the source of the
// normalization engine. Only the migration CLI and tests need it.
func MigrateLegacy(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(&models.LegacyGame{}); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate legacy: %w", errAutoMigrate)
	}
	return nil
}

// demoGame is one seeded catalog entry.
type demoGame struct {
	nombre     string
	precio     float64
	image      string
	trailer    string
	categoria  string
	plataforma []string
}

// demoGames are the five storefront entries seeded into an empty catalog.
var demoGames = []demoGame{
	{
		nombre:     "Gran Turismo 7",
		precio:     59.99,
		image:      "/assets/top10/gran-turismo.jpg",
		trailer:    "https://www.youtube.com/watch?v=1tBUsXIkG1A",
		categoria:  "Carreras",
		plataforma: []string{"PS5"},
	},
	{
		nombre:     "Spiderman",
		precio:     49.99,
		image:      "/assets/top10/spiderman.jpg",
		trailer:    "https://www.youtube.com/watch?v=q4GdJVvdxss",
		categoria:  "Acción",
		plataforma: []string{"PS5", "PC"},
	},
	{
		nombre:     "Bloodborne",
		precio:     49.99,
		image:      "/assets/top10/bloodborne.jpg",
		trailer:    "https://www.youtube.com/watch?v=TmZ5MTIu5hU",
		categoria:  "Acción",
		plataforma: []string{"PS4", "PS5"},
	},
	{
		nombre:     "The Last of Us",
		precio:     49.99,
		image:      "/assets/top10/the-last-of-us.jpg",
		trailer:    "https://www.youtube.com/watch?v=Mel8DZBEJTo",
		categoria:  "Aventura",
		plataforma: []string{"PS4", "PS5", "PC"},
	},
	{
		nombre:     "God of War",
		precio:     49.99,
		image:      "/assets/top10/god-of-war.png",
		trailer:    "https://www.youtube.com/watch?v=K0u_kAWLJOA",
		categoria:  "Acción",
		plataforma: []string{"PS4", "PS5", "PC"},
	},
}

// EnsureSeeded inserts the demo accounts and demo catalog into an empty
// database. Precondition for each step is an empty table; on a populated
// table the step is a no-op.
func EnsureSeeded(conn *gorm.DB) error {
	if errUsers := ensureDemoAccounts(conn); errUsers != nil {
		return errUsers
	}
	return ensureDemoCatalog(conn)
}

// ensureDemoAccounts seeds the admin and usuario demo accounts.
func ensureDemoAccounts(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.Usuario{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count usuarios: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	accounts := []struct {
		nombre   string
		correo   string
		password string
		rol      string
	}{
		{"admin", "admin@admin.com", "admin123", models.RolAdmin},
		{"usuario", "usuario@usuario.com", "usuario123", models.RolUser},
	}
	for _, acc := range accounts {
		hash, errHash := security.HashPassword(acc.password)
		if errHash != nil {
			return fmt.Errorf("db: hash demo password: %w", errHash)
		}
		user := models.Usuario{
			Nombre:     acc.nombre,
			Correo:     acc.correo,
			Password:   hash,
			Rol:        acc.rol,
			Estado:     true,
			IsVerified: true,
		}
		if errCreate := conn.Create(&user).Error; errCreate != nil {
			return fmt.Errorf("db: seed account %s: %w", acc.nombre, errCreate)
		}
	}
	return nil
}

// ensureDemoCatalog seeds five demo games with categories and platforms.
func ensureDemoCatalog(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.Juego{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count juegos: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	for _, demo := range demoGames {
		categoria, errCategoria := EnsureCategoria(conn, demo.categoria)
		if errCategoria != nil {
			return errCategoria
		}
		juego := models.Juego{
			Nombre:      demo.nombre,
			Precio:      demo.precio,
			CategoriaID: &categoria.ID,
			Estado:      true,
			Image:       demo.image,
			Trailer:     demo.trailer,
		}
		if errCreate := conn.Create(&juego).Error; errCreate != nil {
			return fmt.Errorf("db: seed game %s: %w", demo.nombre, errCreate)
		}
		for _, nombre := range demo.plataforma {
			plataforma, errPlataforma := EnsurePlataforma(conn, nombre)
			if errPlataforma != nil {
				return errPlataforma
			}
			join := models.JuegoPlataforma{JuegoID: juego.ID, PlataformaID: plataforma.ID}
			if errJoin := conn.Create(&join).Error; errJoin != nil {
				return fmt.Errorf("db: seed platform link %s: %w", nombre, errJoin)
			}
		}
	}
	return nil
}

// EnsureCategoria finds or creates a category by name.
func EnsureCategoria(conn *gorm.DB, nombre string) (*models.Categoria, error) {
	var categoria models.Categoria
	errFind := conn.Where("nombre = ?", nombre).First(&categoria).Error
	if errFind == nil {
		return &categoria, nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("db: query categoria: %w", errFind)
	}
	categoria = models.Categoria{Nombre: nombre}
	if errCreate := conn.Create(&categoria).Error; errCreate != nil {
		return nil, fmt.Errorf("db: create categoria %s: %w", nombre, errCreate)
	}
	return &categoria, nil
}

// EnsurePlataforma finds or creates a platform by name.
func EnsurePlataforma(conn *gorm.DB, nombre string) (*models.Plataforma, error) {
	var plataforma models.Plataforma
	errFind := conn.Where("nombre = ?", nombre).First(&plataforma).Error
	if errFind == nil {
		return &plataforma, nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("db: query plataforma: %w", errFind)
	}
	plataforma = models.Plataforma{Nombre: nombre}
	if errCreate := conn.Create(&plataforma).Error; errCreate != nil {
		return nil, fmt.Errorf("db: create plataforma %s: %w", nombre, errCreate)
	}
	return &plataforma, nil
}

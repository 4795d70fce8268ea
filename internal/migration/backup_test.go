package migration

import (
	"testing"

	"github.com/playvault/gamestore/internal/models"
)

func TestCopyBackupTables(t *testing.T) {
	src := openTestDB(t)
	dst := openTestDB(t)

	categoria := models.Categoria{Nombre: "Deportes"}
	if errCreate := src.Create(&categoria).Error; errCreate != nil {
		t.Fatalf("create categoria: %v", errCreate)
	}
	plataforma := models.Plataforma{Nombre: "Switch"}
	if errCreate := src.Create(&plataforma).Error; errCreate != nil {
		t.Fatalf("create plataforma: %v", errCreate)
	}
	juego := models.Juego{Nombre: "Respaldo", Precio: 19.99, CategoriaID: &categoria.ID, Estado: true}
	if errCreate := src.Create(&juego).Error; errCreate != nil {
		t.Fatalf("create juego: %v", errCreate)
	}
	link := models.JuegoPlataforma{JuegoID: juego.ID, PlataformaID: plataforma.ID}
	if errCreate := src.Create(&link).Error; errCreate != nil {
		t.Fatalf("create link: %v", errCreate)
	}

	// Rating rows are outside the allow-list and must not travel.
	usuario := models.Usuario{Nombre: "backup", Correo: "backup@example.com", Password: "x", Rol: models.RolUser, Estado: true}
	if errCreate := src.Create(&usuario).Error; errCreate != nil {
		t.Fatalf("create usuario: %v", errCreate)
	}
	rating := models.Calificacion{JuegoID: juego.ID, UsuarioID: usuario.ID, Valoracion: 5}
	if errCreate := src.Create(&rating).Error; errCreate != nil {
		t.Fatalf("create rating: %v", errCreate)
	}

	if errCopy := CopyBackupTables(src, dst); errCopy != nil {
		t.Fatalf("copy backup: %v", errCopy)
	}

	var copied models.Juego
	if errFind := dst.Preload("Categoria").Preload("Plataformas").First(&copied, juego.ID).Error; errFind != nil {
		t.Fatalf("find copied juego: %v", errFind)
	}
	if copied.Nombre != "Respaldo" {
		t.Fatalf("unexpected nombre %q", copied.Nombre)
	}
	if copied.Categoria == nil || copied.Categoria.Nombre != "Deportes" {
		t.Fatalf("categoria not copied: %+v", copied.Categoria)
	}
	if len(copied.Plataformas) != 1 || copied.Plataformas[0].Nombre != "Switch" {
		t.Fatalf("platform link not copied: %+v", copied.Plataformas)
	}

	var ratings int64
	if errCount := dst.Model(&models.Calificacion{}).Count(&ratings).Error; errCount != nil {
		t.Fatalf("count ratings: %v", errCount)
	}
	if ratings != 0 {
		t.Fatalf("ratings must not be copied, found %d", ratings)
	}
}

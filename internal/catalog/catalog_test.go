package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/playvault/gamestore/internal/db"
	"github.com/playvault/gamestore/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "catalog-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func createJuego(t *testing.T, conn *gorm.DB, nombre string, precio float64) *models.Juego {
	t.Helper()
	juego := models.Juego{Nombre: nombre, Precio: precio, Estado: true}
	if errCreate := conn.Create(&juego).Error; errCreate != nil {
		t.Fatalf("create juego: %v", errCreate)
	}
	return &juego
}

func createUsuario(t *testing.T, conn *gorm.DB, nombre string) *models.Usuario {
	t.Helper()
	usuario := models.Usuario{
		Nombre:     nombre,
		Correo:     nombre + "@example.com",
		Password:   "x",
		Rol:        models.RolUser,
		Estado:     true,
		IsVerified: true,
	}
	if errCreate := conn.Create(&usuario).Error; errCreate != nil {
		t.Fatalf("create usuario: %v", errCreate)
	}
	return &usuario
}

func rate(t *testing.T, conn *gorm.DB, juegoID, usuarioID uint64, score int) {
	t.Helper()
	rating := models.Calificacion{JuegoID: juegoID, UsuarioID: usuarioID, Valoracion: score}
	if errCreate := conn.Create(&rating).Error; errCreate != nil {
		t.Fatalf("create rating: %v", errCreate)
	}
}

func TestGetGame_AssemblesView(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	categoria := models.Categoria{Nombre: "Carreras"}
	if errCreate := conn.Create(&categoria).Error; errCreate != nil {
		t.Fatalf("create categoria: %v", errCreate)
	}
	plataforma := models.Plataforma{Nombre: "PS5"}
	if errCreate := conn.Create(&plataforma).Error; errCreate != nil {
		t.Fatalf("create plataforma: %v", errCreate)
	}
	juego := models.Juego{Nombre: "Vista", Precio: 49.99, CategoriaID: &categoria.ID, Estado: true}
	if errCreate := conn.Create(&juego).Error; errCreate != nil {
		t.Fatalf("create juego: %v", errCreate)
	}
	link := models.JuegoPlataforma{JuegoID: juego.ID, PlataformaID: plataforma.ID}
	if errCreate := conn.Create(&link).Error; errCreate != nil {
		t.Fatalf("create link: %v", errCreate)
	}
	reviewer := createUsuario(t, conn, "hugo")
	rating := models.Calificacion{JuegoID: juego.ID, UsuarioID: reviewer.ID, Valoracion: 4, Comentario: "muy bueno"}
	if errCreate := conn.Create(&rating).Error; errCreate != nil {
		t.Fatalf("create rating: %v", errCreate)
	}

	view, errGet := svc.GetGame(context.Background(), juego.ID)
	if errGet != nil {
		t.Fatalf("get game: %v", errGet)
	}
	if view.Title != "Vista" {
		t.Fatalf("unexpected title %q", view.Title)
	}
	if len(view.Genre) != 1 || view.Genre[0] != "Carreras" {
		t.Fatalf("unexpected genre %v", view.Genre)
	}
	if len(view.Platform) != 1 || view.Platform[0] != "PS5" {
		t.Fatalf("unexpected platform %v", view.Platform)
	}
	if len(view.Reviews) != 1 || view.Reviews[0].User != "hugo" || view.Reviews[0].Rating != 4 {
		t.Fatalf("unexpected reviews %+v", view.Reviews)
	}
}

func TestGetGame_NotFound(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	if _, errGet := svc.GetGame(context.Background(), 9999); !errors.Is(errGet, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errGet)
	}
}

func TestGetGame_NoCategoryMeansEmptyGenreList(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)
	juego := createJuego(t, conn, "SinGenero", 9.99)

	view, errGet := svc.GetGame(context.Background(), juego.ID)
	if errGet != nil {
		t.Fatalf("get game: %v", errGet)
	}
	if view.Genre == nil || len(view.Genre) != 0 {
		t.Fatalf("expected empty genre list, got %v", view.Genre)
	}
	if view.Reviews == nil || len(view.Reviews) != 0 {
		t.Fatalf("expected empty reviews list, got %v", view.Reviews)
	}
}

func TestTopRated_OrdersByMeanAndExcludesUnrated(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	alto := createJuego(t, conn, "Alto", 10)
	medio := createJuego(t, conn, "Medio", 10)
	bajo := createJuego(t, conn, "Bajo", 10)
	quinto := createJuego(t, conn, "Quinto", 10)
	sinNota := createJuego(t, conn, "SinNota", 10)

	u1 := createUsuario(t, conn, "rita")
	u2 := createUsuario(t, conn, "saul")
	u3 := createUsuario(t, conn, "tania")

	// Alto: mean 5. Medio: mean 4.666. Bajo: mean 3. Quinto: mean 2.
	rate(t, conn, alto.ID, u1.ID, 5)
	rate(t, conn, medio.ID, u1.ID, 5)
	rate(t, conn, medio.ID, u2.ID, 5)
	rate(t, conn, medio.ID, u3.ID, 4)
	rate(t, conn, bajo.ID, u1.ID, 3)
	rate(t, conn, quinto.ID, u2.ID, 2)

	rated, errTop := svc.TopRated(context.Background())
	if errTop != nil {
		t.Fatalf("top rated: %v", errTop)
	}
	if len(rated) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(rated))
	}
	wantOrder := []uint64{alto.ID, medio.ID, bajo.ID, quinto.ID}
	for i, want := range wantOrder {
		if rated[i].ID != want {
			t.Fatalf("position %d: want game %d, got %d", i, want, rated[i].ID)
		}
	}
	if rated[1].Valoracion < 4.66 || rated[1].Valoracion > 4.67 {
		t.Fatalf("unexpected mean %f", rated[1].Valoracion)
	}
	for _, entry := range rated {
		if entry.ID == sinNota.ID {
			t.Fatalf("unrated game must not appear")
		}
	}
}

func TestTopSellers_FirstFourInTableOrder(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	var wantIDs []uint64
	for _, nombre := range []string{"a", "b", "c", "d", "e"} {
		juego := createJuego(t, conn, nombre, 10)
		wantIDs = append(wantIDs, juego.ID)
	}

	views, errTop := svc.TopSellers(context.Background())
	if errTop != nil {
		t.Fatalf("top sellers: %v", errTop)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(views))
	}
	for i := 0; i < 4; i++ {
		if views[i].ID != wantIDs[i] {
			t.Fatalf("position %d: want %d, got %d", i, wantIDs[i], views[i].ID)
		}
	}
}

func sell(t *testing.T, conn *gorm.DB, usuarioID, juegoID uint64, monto float64, fecha time.Time) {
	t.Helper()
	venta := models.Venta{
		Fecha:       fecha,
		UsuarioID:   usuarioID,
		JuegoID:     juegoID,
		Codigo:      "TESTCODE",
		MontoPagado: monto,
	}
	if errCreate := conn.Create(&venta).Error; errCreate != nil {
		t.Fatalf("create venta: %v", errCreate)
	}
}

func TestEarnings(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	juego := createJuego(t, conn, "Vendible", 30)
	comprador := createUsuario(t, conn, "ulises")

	marzo := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	noviembre := time.Date(2025, time.November, 2, 12, 0, 0, 0, time.UTC)
	sell(t, conn, comprador.ID, juego.ID, 30, marzo)
	sell(t, conn, comprador.ID, juego.ID, 20, marzo)
	sell(t, conn, comprador.ID, juego.ID, 15.5, noviembre)

	total, errTotal := svc.EarningsTotal(context.Background())
	if errTotal != nil {
		t.Fatalf("earnings total: %v", errTotal)
	}
	if total != 65.5 {
		t.Fatalf("expected total 65.5, got %f", total)
	}

	months, errMonths := svc.EarningsByMonth(context.Background())
	if errMonths != nil {
		t.Fatalf("earnings by month: %v", errMonths)
	}
	if months[2] != 50 {
		t.Fatalf("expected 50 in March, got %f", months[2])
	}
	if months[10] != 15.5 {
		t.Fatalf("expected 15.5 in November, got %f", months[10])
	}
	var rest float64
	for i, month := range months {
		if i != 2 && i != 10 {
			rest += month
		}
	}
	if rest != 0 {
		t.Fatalf("expected zero-filled months, residual %f", rest)
	}
}

func TestEarningsTotal_EmptyIsZero(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	total, errTotal := svc.EarningsTotal(context.Background())
	if errTotal != nil {
		t.Fatalf("earnings total: %v", errTotal)
	}
	if total != 0 {
		t.Fatalf("expected 0, got %f", total)
	}
}

func TestUpdateSalePrecio(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)
	juego := createJuego(t, conn, "Rebajable", 59.99)

	if errSet := svc.UpdateSalePrecio(context.Background(), juego.ID, 39.99); errSet != nil {
		t.Fatalf("set oferta: %v", errSet)
	}
	var conOferta models.Juego
	if errFind := conn.First(&conOferta, juego.ID).Error; errFind != nil {
		t.Fatalf("find juego: %v", errFind)
	}
	if !conOferta.EstaOferta || conOferta.PrecioOferta == nil || *conOferta.PrecioOferta != 39.99 {
		t.Fatalf("offer not applied: %+v", conOferta)
	}

	if errClear := svc.UpdateSalePrecio(context.Background(), juego.ID, 0); errClear != nil {
		t.Fatalf("clear oferta: %v", errClear)
	}
	var sinOferta models.Juego
	if errFind := conn.First(&sinOferta, juego.ID).Error; errFind != nil {
		t.Fatalf("find juego: %v", errFind)
	}
	if sinOferta.EstaOferta || sinOferta.PrecioOferta != nil {
		t.Fatalf("offer not cleared: %+v", sinOferta)
	}

	if errNeg := svc.UpdateSalePrecio(context.Background(), juego.ID, -5); !errors.Is(errNeg, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", errNeg)
	}
	if errMissing := svc.UpdateSalePrecio(context.Background(), 9999, 10); !errors.Is(errMissing, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errMissing)
	}
}

func TestCreateRating_Bounds(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)
	juego := createJuego(t, conn, "Puntuable", 10)
	usuario := createUsuario(t, conn, "vera")

	if _, errLow := svc.CreateRating(context.Background(), juego.ID, usuario.ID, 0, ""); !errors.Is(errLow, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating for 0, got %v", errLow)
	}
	if _, errHigh := svc.CreateRating(context.Background(), juego.ID, usuario.ID, 6, ""); !errors.Is(errHigh, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating for 6, got %v", errHigh)
	}
	rating, errOK := svc.CreateRating(context.Background(), juego.ID, usuario.ID, 5, "perfecto")
	if errOK != nil {
		t.Fatalf("create rating: %v", errOK)
	}
	if rating.ID == 0 {
		t.Fatalf("expected persisted rating id")
	}
	if _, errMissing := svc.CreateRating(context.Background(), 9999, usuario.ID, 3, ""); !errors.Is(errMissing, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errMissing)
	}
}

func TestDeleteGame_RemovesDependents(t *testing.T) {
	conn := openTestDB(t)
	svc := NewService(conn)

	juego := createJuego(t, conn, "Borrable", 10)
	plataforma := models.Plataforma{Nombre: "PC"}
	if errCreate := conn.Create(&plataforma).Error; errCreate != nil {
		t.Fatalf("create plataforma: %v", errCreate)
	}
	link := models.JuegoPlataforma{JuegoID: juego.ID, PlataformaID: plataforma.ID}
	if errCreate := conn.Create(&link).Error; errCreate != nil {
		t.Fatalf("create link: %v", errCreate)
	}
	usuario := createUsuario(t, conn, "walter")
	rate(t, conn, juego.ID, usuario.ID, 4)

	if errDelete := svc.DeleteGame(context.Background(), juego.ID); errDelete != nil {
		t.Fatalf("delete game: %v", errDelete)
	}

	if _, errGet := svc.GetGame(context.Background(), juego.ID); !errors.Is(errGet, ErrNotFound) {
		t.Fatalf("expected game gone, got %v", errGet)
	}
	var links int64
	if errCount := conn.Model(&models.JuegoPlataforma{}).Where("juego_id = ?", juego.ID).Count(&links).Error; errCount != nil {
		t.Fatalf("count links: %v", errCount)
	}
	if links != 0 {
		t.Fatalf("platform links must be removed")
	}
	var ratings int64
	if errCount := conn.Model(&models.Calificacion{}).Where("juego_id = ?", juego.ID).Count(&ratings).Error; errCount != nil {
		t.Fatalf("count ratings: %v", errCount)
	}
	if ratings != 0 {
		t.Fatalf("ratings must be removed")
	}

	if errMissing := svc.DeleteGame(context.Background(), juego.ID); !errors.Is(errMissing, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", errMissing)
	}
}

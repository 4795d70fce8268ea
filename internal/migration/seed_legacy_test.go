package migration

import (
	"testing"

	"github.com/playvault/gamestore/internal/models"
)

func TestSeedLegacyGames_Idempotent(t *testing.T) {
	conn := openTestDB(t)

	if errSeed := SeedLegacyGames(conn); errSeed != nil {
		t.Fatalf("seed: %v", errSeed)
	}
	var first int64
	if errCount := conn.Model(&models.LegacyGame{}).Count(&first).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if first == 0 {
		t.Fatalf("expected seeded legacy games")
	}

	if errSeed := SeedLegacyGames(conn); errSeed != nil {
		t.Fatalf("second seed: %v", errSeed)
	}
	var second int64
	if errCount := conn.Model(&models.LegacyGame{}).Count(&second).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if second != first {
		t.Fatalf("second seed must not add rows: %d then %d", first, second)
	}
}

func TestSeedThenNormalize(t *testing.T) {
	conn := openTestDB(t)

	if errSeed := SeedLegacyGames(conn); errSeed != nil {
		t.Fatalf("seed: %v", errSeed)
	}
	if errNormalize := NormalizeLegacy(conn); errNormalize != nil {
		t.Fatalf("normalize: %v", errNormalize)
	}

	var juegos, legacy int64
	if errCount := conn.Model(&models.Juego{}).Count(&juegos).Error; errCount != nil {
		t.Fatalf("count juegos: %v", errCount)
	}
	if errCount := conn.Model(&models.LegacyGame{}).Count(&legacy).Error; errCount != nil {
		t.Fatalf("count legacy: %v", errCount)
	}
	if juegos != legacy {
		t.Fatalf("expected %d normalized games, got %d", legacy, juegos)
	}

	var links int64
	if errCount := conn.Model(&models.JuegoPlataforma{}).Count(&links).Error; errCount != nil {
		t.Fatalf("count links: %v", errCount)
	}
	if links == 0 {
		t.Fatalf("expected platform links from seeded data")
	}
}

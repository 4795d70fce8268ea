package migration

import (
	"encoding/json"
	"fmt"

	"github.com/playvault/gamestore/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// legacySeed is one flat games row used to exercise the normalization path.
type legacySeed struct {
	id       uint64
	title    string
	price    float64
	image    string
	trailer  string
	genre    []string
	platform []string
}

// legacySeeds are the ten titles the flat catalog shipped with.
var legacySeeds = []legacySeed{
	{1, "Gran Turismo 7", 59.99, "/assets/top10/gran-turismo.jpg", "https://www.youtube.com/watch?v=1tBUsXIkG1A", []string{"Carreras", "Simulación"}, []string{"PS5"}},
	{2, "Spiderman", 49.99, "/assets/top10/spiderman.jpg", "https://www.youtube.com/watch?v=q4GdJVvdxss", []string{"Acción", "Aventura"}, []string{"PS5", "PC"}},
	{3, "Bloodborne", 49.99, "/assets/top10/bloodborne.jpg", "https://www.youtube.com/watch?v=TmZ5MTIu5hU", []string{"Acción", "RPG"}, []string{"PS4", "PS5"}},
	{4, "The Last of Us", 49.99, "/assets/top10/the-last-of-us.jpg", "https://www.youtube.com/watch?v=Mel8DZBEJTo", []string{"Aventura", "Acción", "Drama"}, []string{"PS4", "PS5", "PC"}},
	{5, "God of War", 49.99, "/assets/top10/god-of-war.png", "https://www.youtube.com/watch?v=K0u_kAWLJOA", []string{"Acción", "Aventura", "Mitología"}, []string{"PS4", "PS5", "PC"}},
	{6, "Uncharted", 49.99, "/assets/top10/uncharted.jpg", "https://www.youtube.com/watch?v=34GJ9ZMAKqA", []string{"Aventura", "Acción"}, []string{"PS4", "PS5"}},
	{7, "Sackboy", 49.99, "/assets/top10/sackboy.jpg", "https://www.youtube.com/watch?v=ymCDdrMKPrY", []string{"Plataformas", "Aventura"}, []string{"PS4", "PS5"}},
	{8, "Ghost of Tsushima", 49.99, "/assets/top10/ghost-of-tsushima.jpg", "https://www.youtube.com/watch?v=RcWk08PBe7k", []string{"Acción", "Aventura", "Mundo Abierto"}, []string{"PS4", "PS5"}},
	{9, "Days Gone", 49.99, "/assets/top10/days-gone.jpg", "https://www.youtube.com/watch?v=NzamskPtd0c", []string{"Acción", "Supervivencia", "Aventura"}, []string{"PS4", "PS5", "PC"}},
	{10, "Death Stranding", 49.99, "/assets/top10/death-stranding.jpg", "https://www.youtube.com/watch?v=Mpn-MC2B6Zc", []string{"Aventura", "Acción", "Misterio"}, []string{"PS4", "PS5", "PC"}},
}

// SeedLegacyGames populates the flat games table with the historical catalog,
// skipping ids that already exist.
func SeedLegacyGames(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("migration: nil connection")
	}
	inserted := 0
	for _, seed := range legacySeeds {
		var count int64
		errCount := conn.Model(&models.LegacyGame{}).Where("id = ?", seed.id).Count(&count).Error
		if errCount != nil {
			return fmt.Errorf("migration: check legacy game %d: %w", seed.id, errCount)
		}
		if count > 0 {
			continue
		}

		genre, errGenre := json.Marshal(seed.genre)
		if errGenre != nil {
			return fmt.Errorf("migration: encode genres for %s: %w", seed.title, errGenre)
		}
		platform, errPlatform := json.Marshal(seed.platform)
		if errPlatform != nil {
			return fmt.Errorf("migration: encode platforms for %s: %w", seed.title, errPlatform)
		}

		game := models.LegacyGame{
			ID:       seed.id,
			Title:    seed.title,
			Price:    seed.price,
			Image:    seed.image,
			Trailer:  seed.trailer,
			Genre:    datatypes.JSON(genre),
			Platform: datatypes.JSON(platform),
		}
		if errCreate := conn.Create(&game).Error; errCreate != nil {
			return fmt.Errorf("migration: insert legacy game %s: %w", seed.title, errCreate)
		}
		inserted++
	}
	log.Infof("seeded %d legacy games", inserted)
	return nil
}

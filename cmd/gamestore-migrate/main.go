// Command gamestore-migrate runs the offline data tooling: schema setup,
// legacy-table normalization, backup copies, and one-off maintenance tasks.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/playvault/gamestore/internal/catalog"
	"github.com/playvault/gamestore/internal/config"
	"github.com/playvault/gamestore/internal/db"
	"github.com/playvault/gamestore/internal/migration"
	"github.com/playvault/gamestore/internal/tokens"

	log "github.com/sirupsen/logrus"
)

const usage = `usage: gamestore-migrate <command> [flags]

commands:
  schema          create or update the normalized schema and seed defaults
  seed-legacy     populate the legacy games table with the demo titles
  normalize       normalize the legacy games table into relational tables
  copy-backup     copy catalog tables from a backup database (-src)
  hash-passwords  bcrypt any remaining plaintext passwords
  cleanup-tokens  delete expired email tokens
  set-oferta      set or clear a game's sale price (-id, -precio)
`

// main dispatches the subcommand and exits on failure.
func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run loads config, opens the database, and executes one subcommand.
func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("missing command")
	}
	command, rest := args[0], args[1:]

	fs := flag.NewFlagSet("gamestore-migrate "+command, flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	srcDSN := fs.String("src", "", "backup source DSN (copy-backup)")
	juegoID := fs.Uint64("id", 0, "game id (set-oferta)")
	precio := fs.Float64("precio", 0, "sale price, 0 clears the offer (set-oferta)")
	if errParse := fs.Parse(rest); errParse != nil {
		return errParse
	}

	_ = godotenv.Load()

	pathOverride := strings.TrimSpace(*cfgPath)
	if pathOverride == "" {
		pathOverride = os.Getenv(config.EnvConfigPath)
	}
	cfg, errLoad := config.Load(config.ResolveConfigPath(pathOverride))
	if errLoad != nil {
		return errLoad
	}

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}

	switch command {
	case "schema":
		if errMigrate := db.Migrate(conn); errMigrate != nil {
			return errMigrate
		}
		if errSeed := db.EnsureSeeded(conn); errSeed != nil {
			return errSeed
		}
		log.Info("schema ready")
		return nil

	case "seed-legacy":
		if errLegacy := db.MigrateLegacy(conn); errLegacy != nil {
			return errLegacy
		}
		if errSeed := migration.SeedLegacyGames(conn); errSeed != nil {
			return errSeed
		}
		log.Info("legacy games seeded")
		return nil

	case "normalize":
		if errMigrate := db.Migrate(conn); errMigrate != nil {
			return errMigrate
		}
		if errNormalize := migration.NormalizeLegacy(conn); errNormalize != nil {
			return errNormalize
		}
		log.Info("legacy data normalized")
		return nil

	case "copy-backup":
		if strings.TrimSpace(*srcDSN) == "" {
			return fmt.Errorf("copy-backup requires -src")
		}
		src, errSrc := db.Open(*srcDSN)
		if errSrc != nil {
			return errSrc
		}
		if errMigrate := db.Migrate(conn); errMigrate != nil {
			return errMigrate
		}
		if errCopy := migration.CopyBackupTables(src, conn); errCopy != nil {
			return errCopy
		}
		log.Info("backup copy complete")
		return nil

	case "hash-passwords":
		changed, errHash := migration.HashPlaintextPasswords(conn)
		if errHash != nil {
			return errHash
		}
		log.WithField("changed", changed).Info("passwords hashed")
		return nil

	case "cleanup-tokens":
		removed, errCleanup := tokens.NewStore(conn).Cleanup(ctx)
		if errCleanup != nil {
			return errCleanup
		}
		log.WithField("removed", removed).Info("expired tokens removed")
		return nil

	case "set-oferta":
		if *juegoID == 0 {
			return fmt.Errorf("set-oferta requires -id")
		}
		errUpdate := catalog.NewService(conn).UpdateSalePrecio(ctx, *juegoID, *precio)
		if errUpdate != nil {
			return errUpdate
		}
		log.WithField("id", *juegoID).Info("oferta updated")
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command: %s", command)
	}
}

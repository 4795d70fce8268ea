// Command gamestore runs the storefront HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playvault/gamestore/internal/config"
	"github.com/playvault/gamestore/internal/db"
	"github.com/playvault/gamestore/internal/http/api"
	"github.com/playvault/gamestore/internal/mail"

	log "github.com/sirupsen/logrus"
)

// main runs the server entrypoint and exits on unrecoverable errors.
func main() {
	if errRun := run(context.Background(), os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, prepares the schema, and serves.
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gamestore", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 0, "server port (overrides config)")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	pathOverride := strings.TrimSpace(*cfgPath)
	if pathOverride == "" {
		pathOverride = os.Getenv(config.EnvConfigPath)
	}
	cfg, errLoad := config.Load(config.ResolveConfigPath(pathOverride))
	if errLoad != nil {
		return errLoad
	}
	if *port > 0 {
		cfg.Port = *port
	}
	if errValidate := validatePort(cfg.Port); errValidate != nil {
		return errValidate
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return fmt.Errorf("jwt secret is required (config jwt.secret or env %s)", config.EnvJWTSecret)
	}

	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := db.EnsureSeeded(conn); errSeed != nil {
		return errSeed
	}

	var mailer mail.Mailer
	if strings.TrimSpace(cfg.SMTP.Host) == "" {
		log.Warn("smtp host not configured, logging mail instead of sending")
		mailer = mail.LogMailer{}
	} else {
		mailer = &mail.SMTPMailer{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, conn, &cfg, mailer)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.WithField("addr", addr).Info("gamestore listening")
	return engine.Run(addr)
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}

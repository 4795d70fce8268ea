package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides recognized by Load.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiry    = "JWT_EXPIRY"
	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUser     = "EMAIL_USER"
	EnvSMTPPass     = "EMAIL_PASS"
)

// defaultJWTExpiry is used when the config omits or invalidates JWT expiry.
const defaultJWTExpiry = 2 * time.Hour

// defaultSQLitePath is the default SQLite database file name.
const defaultSQLitePath = "data.sqlite"

// JWTConfig holds JWT secret and expiry settings. The expiry is written as a
// Go duration string ("2h", "30m") and parsed during Load.
type JWTConfig struct {
	Secret    string        `yaml:"secret"`
	ExpiryRaw string        `yaml:"expiry"`
	Expiry    time.Duration `yaml:"-"`
}

// SMTPConfig holds outbound mail transport settings. An empty host disables
// real delivery.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Config holds resolved application configuration values.
type Config struct {
	Host        string     `yaml:"host"`
	Port        int        `yaml:"port"`
	DatabaseDSN string     `yaml:"database-dsn"`
	PublicURL   string     `yaml:"public-url"`
	Debug       bool       `yaml:"debug"`
	JWT         JWTConfig  `yaml:"jwt"`
	SMTP        SMTPConfig `yaml:"smtp"`
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config file and applies environment overrides. A
// missing file is not an error; defaults and the environment still apply.
func Load(configPath string) (Config, error) {
	cfg := Config{
		Port: 3001,
		JWT:  JWTConfig{Expiry: defaultJWTExpiry},
		SMTP: SMTPConfig{Port: 2525},
	}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", configPath, errUnmarshal)
		}
	} else if !os.IsNotExist(errRead) {
		return Config{}, fmt.Errorf("config: read %s: %w", configPath, errRead)
	}

	if expiryRaw := strings.TrimSpace(cfg.JWT.ExpiryRaw); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}

	applyEnv(&cfg)

	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		cfg.DatabaseDSN = defaultSQLitePath
	}
	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = defaultJWTExpiry
	}
	if strings.TrimSpace(cfg.PublicURL) == "" {
		cfg.PublicURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return cfg, nil
}

// applyEnv overrides config fields from the environment.
func applyEnv(cfg *Config) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		cfg.JWT.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}
	if host := strings.TrimSpace(os.Getenv(EnvSMTPHost)); host != "" {
		cfg.SMTP.Host = host
	}
	if portRaw := strings.TrimSpace(os.Getenv(EnvSMTPPort)); portRaw != "" {
		var port int
		if _, errScan := fmt.Sscanf(portRaw, "%d", &port); errScan == nil && port > 0 {
			cfg.SMTP.Port = port
		}
	}
	if user := strings.TrimSpace(os.Getenv(EnvSMTPUser)); user != "" {
		cfg.SMTP.Username = user
	}
	if pass := strings.TrimSpace(os.Getenv(EnvSMTPPass)); pass != "" {
		cfg.SMTP.Password = pass
	}
}

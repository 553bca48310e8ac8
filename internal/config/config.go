package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment.
type Config struct {
	Addr          string
	DBPath        string
	BackupDir     string
	AdminUsername string
	AdminPassword string
	SessionTTL    time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	return Config{
		Addr:          EnvOrDefault("LAS_ADDR", ":8080"),
		DBPath:        EnvOrDefault("LAS_DB_PATH", "las.db"),
		BackupDir:     EnvOrDefault("LAS_BACKUP_DIR", "backups"),
		AdminUsername: strings.TrimSpace(os.Getenv("LAS_ADMIN_USERNAME")),
		AdminPassword: os.Getenv("LAS_ADMIN_PASSWORD"),
		SessionTTL:    12 * time.Hour,
	}
}

func EnvOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath         string
	JWTSecret      string
	ServerPort     string
	AdminEmail     string
	AdminPassword  string
	BackupLimit    int
	BackupSchedule string // cron spec, empty disables auto-backup
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBPath:         getEnv("DB_PATH", "coursepanel.db"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@coursepanel.local"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin"),
		BackupLimit:    5,
		BackupSchedule: getEnv("BACKUP_SCHEDULE", "@every 6h"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Init loads environment variables from a .env file when one is present.
// Real deployments provide the environment directly, so a missing file is
// not an error.
func Init() {
	_ = godotenv.Load()

	InitLogger()
}

func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

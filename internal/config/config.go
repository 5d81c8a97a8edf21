package config

import (
	"log"
	"os"
)

type Config struct {
	Env        string
	Port       string
	DBPath     string
	APIKey     string
	AdminToken string
	GamesPath  string
}

func Load() *Config {
	cfg := &Config{
		Env:        getEnv("APP_ENV", "prod"),
		Port:       getEnv("PORT", "8080"),
		DBPath:     getEnv("DB_PATH", "casino.sqlite"),
		APIKey:     os.Getenv("API_KEY"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),
		GamesPath:  getEnv("GAMES_CONFIG_PATH", ""),
	}

	if cfg.APIKey == "" || cfg.AdminToken == "" {
		log.Fatal("Missing critical environment variables: API_KEY, ADMIN_TOKEN")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

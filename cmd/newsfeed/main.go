package main

import (
	"log"
	"newsfeed/internal/app"
	"newsfeed/internal/config"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env не обязателен: переменные окружения могут прийти извне.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}
	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: could not init app: %v", err)
	}
	if err := application.Run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/campuskit/enroll/internal/enroll/app"
)

func main() {
	// Missing .env is fine; everything has an env default.
	_ = godotenv.Load()

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}

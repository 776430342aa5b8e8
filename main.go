package main

import (
	"log"

	"gridlens/internal/config"
	"gridlens/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	server := ui.NewServer(*cfg)
	if err := server.Start(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

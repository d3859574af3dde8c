package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"parkinsight/internal/api"
	"parkinsight/internal/config"
	"parkinsight/internal/gemini"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadVideo()

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	analyzer, err := gemini.New(context.Background(), cfg.APIKeys, cfg.Models)
	if err != nil {
		log.Fatalf("Failed to create Gemini analyzer: %v", err)
	}

	r := gin.Default()
	api.RegisterVideoRoutes(r, &api.VideoServer{
		Analyzer:  analyzer,
		UploadDir: cfg.UploadDir,
	})

	log.Printf("Parkinson video API running on :%s (%d keys, %d models)", cfg.Port, len(cfg.APIKeys), len(cfg.Models))
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

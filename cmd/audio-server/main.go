package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"parkinsight/internal/api"
	"parkinsight/internal/config"
	"parkinsight/internal/inference"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadAudio()

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &api.AudioServer{
		Extractor: inference.NewHTTPExtractor(cfg.InferenceURL),
	}

	// A missing or unloadable model artifact disables inference; the
	// service keeps running and answers every request with an error.
	scorer := inference.NewHTTPScorer(cfg.InferenceURL, cfg.ModelPath)
	if err := scorer.Load(context.Background()); err != nil {
		log.Printf("Error loading model: %v", err)
	} else {
		server.Scorer = scorer
	}

	r := gin.Default()
	api.RegisterAudioRoutes(r, server)

	log.Printf("Parkinson's voice API running on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

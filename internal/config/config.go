package config

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// maxAPIKeySlots is the number of API_KEY_N environment variables scanned
// for the video service's credential pool.
const maxAPIKeySlots = 5

// placeholderKey is used only when no API_KEY_N variable is set, so the
// service can still start locally and fail per-request instead of crashing.
const placeholderKey = "PASTE_YOUR_BACKUP_KEY_HERE"

// AudioConfig holds the audio inference service configuration.
type AudioConfig struct {
	Port         string
	ModelPath    string
	InferenceURL string
}

// VideoConfig holds the video analysis service configuration.
type VideoConfig struct {
	Port      string
	UploadDir string
	APIKeys   []string
	Models    []string
}

// LoadAudio loads the audio service configuration from environment variables.
func LoadAudio() *AudioConfig {
	return &AudioConfig{
		Port:         getEnv("PORT", "8000"),
		ModelPath:    getEnv("MODEL_PATH", "parkinsons_mfcc_model.h5"),
		InferenceURL: getEnv("INFERENCE_URL", "http://localhost:8001"),
	}
}

// LoadVideo loads the video service configuration from environment variables.
// Empty API key slots are filtered out; if every slot is empty a hardcoded
// placeholder keeps the process alive for local testing.
func LoadVideo() *VideoConfig {
	cfg := &VideoConfig{
		Port:      getEnv("VIDEO_PORT", "5000"),
		UploadDir: getEnv("UPLOAD_DIR", "uploads"),
		Models:    splitList(getEnv("GEMINI_MODELS", "models/gemini-2.0-flash-exp,models/gemini-1.5-pro")),
	}

	for i := 1; i <= maxAPIKeySlots; i++ {
		if key := os.Getenv(fmt.Sprintf("API_KEY_%d", i)); key != "" {
			cfg.APIKeys = append(cfg.APIKeys, key)
		}
	}
	if len(cfg.APIKeys) == 0 {
		log.Printf("Warning: no API_KEY_1..API_KEY_%d environment variables found, using hardcoded backup", maxAPIKeySlots)
		cfg.APIKeys = []string{placeholderKey}
	}

	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

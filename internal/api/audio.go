package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkinsight/internal/inference"
	"parkinsight/internal/model"
	"parkinsight/internal/storage"
	"parkinsight/internal/utils"
)

// AudioServer serves voice-based Parkinson's predictions. Scorer is nil when
// the model artifact failed to load at startup; requests then get an error
// payload instead of inference.
type AudioServer struct {
	Extractor inference.Extractor
	Scorer    inference.Scorer

	// TempDir overrides the OS temp directory for uploaded clips. Tests
	// point it at a scratch directory.
	TempDir string
}

// RegisterAudioRoutes wires the audio service routes.
func RegisterAudioRoutes(r *gin.Engine, s *AudioServer) {
	r.GET("/health", s.health)
	r.POST("/predict/", s.predict)
}

func (s *AudioServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "parkinsons-voice-api",
	})
}

// predict extracts MFCC features from the uploaded clip, normalizes them with
// the baked-in scaler constants, and thresholds the model probability at 0.5.
// The temporary file is removed on every exit path.
func (s *AudioServer) predict(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "file is required")
		return
	}

	tmpPath, err := storage.SaveTemp(file, s.TempDir)
	if err != nil {
		log.Printf("[Audio] Failed to save upload: %v", err)
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer storage.Remove(tmpPath)

	if s.Scorer == nil {
		utils.Error(c, http.StatusInternalServerError, "Model not loaded")
		return
	}

	ctx := c.Request.Context()

	features, err := s.Extractor.Extract(ctx, tmpPath)
	if err != nil {
		log.Printf("[Audio] Feature extraction failed: %v", err)
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	normalized, err := inference.Normalize(features)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	prob, err := s.Scorer.Score(ctx, normalized)
	if err != nil {
		log.Printf("[Audio] Scoring failed: %v", err)
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	label := "Healthy"
	if prob > 0.5 {
		label = "Parkinson's"
	}

	// First raw coefficients only, debugging info.
	raw := features
	if len(raw) > 5 {
		raw = raw[:5]
	}

	c.JSON(http.StatusOK, model.VoicePrediction{
		Probability: prob,
		Prediction:  label,
		RawFeatures: raw,
	})
}

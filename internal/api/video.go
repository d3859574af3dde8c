package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkinsight/internal/model"
	"parkinsight/internal/storage"
	"parkinsight/internal/utils"
)

// VideoAnalyzer is the video service's upstream collaborator.
type VideoAnalyzer interface {
	AnalyzeVideo(ctx context.Context, videoPath string) (*model.GaitAnalysis, error)
	ListModels(ctx context.Context) ([]string, error)
}

// VideoServer serves gait analysis over uploaded video clips.
type VideoServer struct {
	Analyzer  VideoAnalyzer
	UploadDir string
}

// RegisterVideoRoutes wires the video service routes.
func RegisterVideoRoutes(r *gin.Engine, s *VideoServer) {
	r.GET("/", s.live)
	r.POST("/", s.analyze)
	r.GET("/models", s.listModels)
}

func (s *VideoServer) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "Live",
		"service":   "Parkinson Video API",
		"endpoints": []string{"/models"},
		"message":   "Send a POST request with a 'file' to analyze.",
	})
}

// analyze saves the upload under the client filename, delegates to the
// analyzer, and removes the local file unconditionally afterward.
func (s *VideoServer) analyze(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "No file part")
		return
	}
	if file.Filename == "" {
		utils.Error(c, http.StatusBadRequest, "No selected file")
		return
	}

	path, err := storage.SaveUpload(file, s.UploadDir)
	if err != nil {
		log.Printf("[Video] Failed to save upload: %v", err)
		utils.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer storage.Remove(path)

	result, err := s.Analyzer.AnalyzeVideo(c.Request.Context(), path)
	if err != nil {
		log.Printf("[Video] Analysis failed: %v", err)
		utils.Error(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}

// listModels reports which backend models support content generation.
// Diagnostic route for figuring out which roster entries still work.
func (s *VideoServer) listModels(c *gin.Context) {
	names, err := s.Analyzer.ListModels(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available_models": names,
	})
}

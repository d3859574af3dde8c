package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Scorer runs the loaded classification model over a normalized feature
// vector and returns the positive-class probability.
type Scorer interface {
	Score(ctx context.Context, features []float64) (float64, error)
}

// HTTPScorer delegates model scoring to the inference sidecar, which is asked
// at startup to load the local model artifact.
type HTTPScorer struct {
	baseURL   string
	modelPath string
	client    *http.Client
}

// NewHTTPScorer creates a scorer for the model artifact at modelPath, served
// by the sidecar at baseURL.
func NewHTTPScorer(baseURL, modelPath string) *HTTPScorer {
	return &HTTPScorer{
		baseURL:   baseURL,
		modelPath: modelPath,
		client:    &http.Client{Timeout: 90 * time.Second},
	}
}

// Load checks that the model artifact exists locally and asks the sidecar to
// load it. A missing artifact or a failed load disables inference; the caller
// is expected to keep serving requests with an error payload.
func (s *HTTPScorer) Load(ctx context.Context) error {
	if _, err := os.Stat(s.modelPath); err != nil {
		return fmt.Errorf("model artifact not found at %s: %w", s.modelPath, err)
	}

	payload, err := json.Marshal(map[string]string{"model_path": s.modelPath})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/load", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model load %s: %s", resp.Status, string(body))
	}

	log.Printf("[Inference] Model loaded from %s", s.modelPath)
	return nil
}

type scoreResponse struct {
	Probability float64 `json:"probability"`
	Error       string  `json:"error,omitempty"`
}

// Score sends the normalized features as a single-row batch and returns the
// model's output probability.
func (s *HTTPScorer) Score(ctx context.Context, features []float64) (float64, error) {
	payload, err := json.Marshal(map[string][][]float64{"features": {features}})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/score", bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("model scoring %s: %s", resp.Status, string(body))
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("score decode: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("model scoring: %s", out.Error)
	}
	return out.Probability, nil
}

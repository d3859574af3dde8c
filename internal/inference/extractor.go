package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// MFCC extraction parameters. These match the parameters the model was
// trained with and must not vary per request.
const (
	SampleRate = 22050
	NumMFCC    = 40
	Duration   = 5.0
	Offset     = 0.5
	FFTSize    = 2048
	HopLength  = 512
)

// Extractor produces a fixed-length MFCC feature vector from an audio file.
type Extractor interface {
	Extract(ctx context.Context, audioPath string) ([]float64, error)
}

// HTTPExtractor delegates feature extraction to the inference sidecar's
// /mfcc endpoint.
type HTTPExtractor struct {
	baseURL string
	client  *http.Client
}

// NewHTTPExtractor creates an extractor talking to the sidecar at baseURL.
func NewHTTPExtractor(baseURL string) *HTTPExtractor {
	return &HTTPExtractor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 90 * time.Second},
	}
}

type mfccResponse struct {
	Features []float64 `json:"features"`
	Error    string    `json:"error,omitempty"`
}

// Extract uploads the audio file and the fixed extraction parameters and
// returns the time-averaged MFCC coefficients.
func (e *HTTPExtractor) Extract(ctx context.Context, audioPath string) ([]float64, error) {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	fw, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer fd.Close()

	if _, err = io.Copy(fw, fd); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"sample_rate": strconv.Itoa(SampleRate),
		"n_mfcc":      strconv.Itoa(NumMFCC),
		"duration":    strconv.FormatFloat(Duration, 'f', -1, 64),
		"offset":      strconv.FormatFloat(Offset, 'f', -1, 64),
		"n_fft":       strconv.Itoa(FFTSize),
		"hop_length":  strconv.Itoa(HopLength),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err = w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/mfcc", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mfcc extraction %s: %s", resp.Status, string(body))
	}

	var out mfccResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("mfcc decode: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("mfcc extraction: %s", out.Error)
	}
	return out.Features, nil
}

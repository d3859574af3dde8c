package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"parkinsight/internal/model"
)

type stubAnalyzer struct {
	result *model.GaitAnalysis
	err    error
	calls  int

	// fileExisted records whether the local upload was on disk while the
	// analyzer ran.
	fileExisted bool

	models    []string
	modelsErr error
}

func (s *stubAnalyzer) AnalyzeVideo(_ context.Context, videoPath string) (*model.GaitAnalysis, error) {
	s.calls++
	if _, err := os.Stat(videoPath); err == nil {
		s.fileExisted = true
	}
	return s.result, s.err
}

func (s *stubAnalyzer) ListModels(_ context.Context) ([]string, error) {
	return s.models, s.modelsErr
}

func newVideoRouter(s *VideoServer) *gin.Engine {
	r := gin.New()
	RegisterVideoRoutes(r, s)
	return r
}

func TestLiveness(t *testing.T) {
	r := newVideoRouter(&VideoServer{Analyzer: &stubAnalyzer{}, UploadDir: t.TempDir()})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "Live" {
		t.Fatalf("status field = %v, want Live", resp["status"])
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	analyzer := &stubAnalyzer{}
	r := newVideoRouter(&VideoServer{Analyzer: analyzer, UploadDir: t.TempDir()})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] == "" {
		t.Fatal("expected error field in response")
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer calls = %d, want 0", analyzer.calls)
	}
}

func TestAnalyzeEmptyFilename(t *testing.T) {
	analyzer := &stubAnalyzer{}
	r := newVideoRouter(&VideoServer{Analyzer: analyzer, UploadDir: t.TempDir()})

	body, contentType := multipartUpload(t, "file", "", []byte("mp4"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if analyzer.calls != 0 {
		t.Fatalf("analyzer calls = %d, want 0", analyzer.calls)
	}
}

func TestAnalyzeSuccessPassesResultThrough(t *testing.T) {
	uploads := t.TempDir()
	analysis := &model.GaitAnalysis{
		ParkinsonProbability:   65,
		FreezingPercentage:     8.4,
		BradykinesiaScore:      2,
		FreezingScore:          1,
		VariabilityScore:       2,
		Reasoning:              "Shortened stride with turning hesitation",
		ClinicalInterpretation: "Moderate indicators present",
		Recommendation:         "Follow up with a movement disorder specialist",
	}
	analyzer := &stubAnalyzer{result: analysis}
	r := newVideoRouter(&VideoServer{Analyzer: analyzer, UploadDir: uploads})

	body, contentType := multipartUpload(t, "file", "walk.mp4", []byte("mp4 bytes"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp model.GaitAnalysis
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp != *analysis {
		t.Fatalf("response = %+v, want %+v", resp, *analysis)
	}
	if !analyzer.fileExisted {
		t.Fatal("upload was not on disk while the analyzer ran")
	}
	assertEmptyDir(t, uploads)
}

func TestAnalyzeErrorCleansUp(t *testing.T) {
	uploads := t.TempDir()
	analyzer := &stubAnalyzer{err: errors.New("video processing failed on backend servers")}
	r := newVideoRouter(&VideoServer{Analyzer: analyzer, UploadDir: uploads})

	body, contentType := multipartUpload(t, "file", "walk.mp4", []byte("mp4 bytes"))
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] == "" {
		t.Fatal("expected error field in response")
	}
	assertEmptyDir(t, uploads)
}

func TestListModels(t *testing.T) {
	analyzer := &stubAnalyzer{models: []string{"models/gemini-2.0-flash-exp", "models/gemini-1.5-pro"}}
	r := newVideoRouter(&VideoServer{Analyzer: analyzer, UploadDir: t.TempDir()})

	req := httptest.NewRequest(http.MethodGet, "/models", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp["available_models"]) != 2 {
		t.Fatalf("available_models = %v, want 2 entries", resp["available_models"])
	}
}

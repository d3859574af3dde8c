package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"

	"parkinsight/internal/failover"
	"parkinsight/internal/model"
)

// pollInterval is the fixed pause between processing-status polls.
const pollInterval = 2 * time.Second

// Service owns the video analysis lifecycle: upload, processing wait,
// fail-over generation loop, remote cleanup.
type Service struct {
	backend      backend
	state        *failover.State
	pollInterval time.Duration
}

// New builds a Service with one Gemini client per API key and fresh fail-over
// cursors over the given model roster.
func New(ctx context.Context, apiKeys, models []string) (*Service, error) {
	b, err := newGenaiBackend(ctx, apiKeys)
	if err != nil {
		return nil, err
	}
	return &Service{
		backend:      b,
		state:        failover.NewState(len(apiKeys), models),
		pollInterval: pollInterval,
	}, nil
}

// AnalyzeVideo uploads the local video file, waits for server-side
// processing, and runs the fail-over loop until a structured gait assessment
// is produced. The upload call is never retried; key and model rotation apply
// only to generation attempts.
func (s *Service) AnalyzeVideo(ctx context.Context, videoPath string) (*model.GaitAnalysis, error) {
	log.Printf("[Gemini] Processing: %s", videoPath)

	file, err := s.backend.Upload(ctx, s.state.KeyIndex, videoPath)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %v", err)
	}

	file, err = s.waitForProcessing(ctx, file)
	if err != nil {
		return nil, err
	}

	var result *model.GaitAnalysis
	err = s.state.Run(ctx, func(ctx context.Context, keyIndex int, mdl string) error {
		text, err := s.backend.Generate(ctx, keyIndex, mdl, file)
		if err != nil {
			return err
		}
		var analysis model.GaitAnalysis
		if err := unmarshalRepair([]byte(text), &analysis); err != nil {
			return fmt.Errorf("analysis error: failed to parse response: %v", err)
		}
		result = &analysis
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort remote cleanup; the result is already in hand.
	if err := s.backend.DeleteFile(ctx, s.state.KeyIndex, file.Name); err != nil {
		log.Printf("[Gemini] Failed to delete remote file %s: %v", file.Name, err)
	}

	return result, nil
}

// waitForProcessing polls the uploaded file's state every pollInterval until
// it leaves PROCESSING. There is no total wall-clock cap; cancellation comes
// from the request context.
func (s *Service) waitForProcessing(ctx context.Context, file *genai.File) (*genai.File, error) {
	log.Printf("[Gemini] Waiting for processing...")
	for file.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
		var err error
		file, err = s.backend.GetFile(ctx, s.state.KeyIndex, file.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to poll processing status: %v", err)
		}
	}
	if file.State == genai.FileStateFailed {
		return nil, errors.New("video processing failed on backend servers")
	}
	return file, nil
}

// ListModels returns the backend models that support content generation,
// queried with the current credential. Diagnostic only.
func (s *Service) ListModels(ctx context.Context) ([]string, error) {
	return s.backend.ListModels(ctx, s.state.KeyIndex)
}

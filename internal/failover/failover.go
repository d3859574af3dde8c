package failover

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// ErrBusy is returned once every credential/model combination has been
// exhausted by transient upstream failures.
var ErrBusy = errors.New("server is busy, please try again in 1 minute")

// Class is the closed set of upstream failure classes the loop dispatches on.
type Class int

const (
	// ClassFatal aborts the loop; the error is returned uninterpreted.
	ClassFatal Class = iota
	// ClassRateLimited rotates the credential (and eventually the model).
	ClassRateLimited
	// ClassModelNotFound advances the model roster immediately.
	ClassModelNotFound
)

// Classify maps an upstream error to a failure class by matching indicator
// substrings in the error text. Per-key rate limits and temporary outages
// (429/quota/503) are distinguishable from a rejected model identifier
// (404/not found); everything else is treated as permanent.
func Classify(err error) Class {
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "429"), strings.Contains(lower, "quota"),
		strings.Contains(msg, "503"), strings.Contains(lower, "unavailable"):
		return ClassRateLimited
	case strings.Contains(msg, "404"), strings.Contains(lower, "not found"):
		return ClassModelNotFound
	}
	return ClassFatal
}

// AttemptFunc issues one generation attempt with the given credential index
// and model identifier. A nil return exits the loop.
type AttemptFunc func(ctx context.Context, keyIndex int, model string) error

// State carries the fail-over cursors. One value lives for the whole process
// so the last-known-good key/model pair is remembered across requests and
// load is spread over the credential pool. Cursor mutation is unsynchronized:
// under concurrent requests a stale index costs at most one extra retry.
type State struct {
	Keys   int
	Models []string

	KeyIndex   int
	ModelIndex int

	// RetryDelay is the pause after a rate-limited attempt. Defaults to
	// one second; tests set it to zero.
	RetryDelay time.Duration

	// rotations since the model was last switched; a full credential cycle
	// triggers a model switch
	keysTried int
}

// NewState creates fail-over state over a credential pool of size keys and
// the given model roster.
func NewState(keys int, models []string) *State {
	return &State{
		Keys:       keys,
		Models:     models,
		RetryDelay: time.Second,
	}
}

// Run drives the bounded attempt loop: at most pool size × roster size
// attempts, rotating credentials on rate limits, advancing the model roster
// on a full credential cycle or a model-not-found rejection, and aborting on
// anything else. Returns ErrBusy when the cap is exhausted.
func (s *State) Run(ctx context.Context, fn AttemptFunc) error {
	maxAttempts := s.Keys * len(s.Models)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		model := s.Models[s.ModelIndex]
		log.Printf("[Failover] Attempt %d/%d: key #%d, model %s", attempt+1, maxAttempts, s.KeyIndex+1, model)

		err := fn(ctx, s.KeyIndex, model)
		if err == nil {
			return nil
		}
		log.Printf("[Failover] Attempt %d failed: %v", attempt+1, err)

		switch Classify(err) {
		case ClassRateLimited:
			s.rotateKey()
			if s.keysTried >= s.Keys {
				s.advanceModel()
			}
			if err := s.sleep(ctx, s.RetryDelay); err != nil {
				return err
			}
		case ClassModelNotFound:
			log.Printf("[Failover] Model %s rejected, switching", model)
			s.advanceModel()
		default:
			return err
		}
	}

	return ErrBusy
}

func (s *State) rotateKey() {
	s.KeyIndex = (s.KeyIndex + 1) % s.Keys
	s.keysTried++
	log.Printf("[Failover] Limit hit, switched to key #%d", s.KeyIndex+1)
}

func (s *State) advanceModel() {
	s.ModelIndex = (s.ModelIndex + 1) % len(s.Models)
	s.keysTried = 0
	log.Printf("[Failover] Switching model to %s", s.Models[s.ModelIndex])
}

func (s *State) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

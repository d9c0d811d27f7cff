package detect

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

type stubResampler struct {
	mu    sync.Mutex
	calls []float64 // window centers, order not asserted
	fn    func(start, end float64) (Streams, error)
}

func (s *stubResampler) Resample(_ context.Context, start, end float64) (Streams, error) {
	s.mu.Lock()
	s.calls = append(s.calls, (start+end)/2)
	s.mu.Unlock()
	return s.fn(start, end)
}

func (s *stubResampler) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func verifyConfig() Config {
	cfg := validConfig()
	cfg.MinConfidence = 25
	cfg.Verify = true
	return cfg
}

// strongWindow returns a resample that reproduces a saturated scene event at
// the window center.
func strongWindow(start, end float64) (Streams, error) {
	center := (start + end) / 2
	return Streams{Scene: []Sample{{Timestamp: center, Magnitude: 30}}}, nil
}

func emptyWindow(_, _ float64) (Streams, error) {
	return Streams{}, nil
}

func TestVerifyConfirmsUncertainCandidate(t *testing.T) {
	cfg := verifyConfig()
	resampler := &stubResampler{fn: strongWindow}
	candidates := []Candidate{{Timestamp: 60, Score: 35, Signals: signalScene}}

	kept := Verify(context.Background(), candidates, nil, resampler, cfg, nil)
	if len(kept) != 1 {
		t.Fatalf("kept %d candidates, want 1", len(kept))
	}
	if !kept[0].Verified {
		t.Error("candidate not marked verified")
	}
	if kept[0].Score != 35 {
		t.Errorf("score = %v, want original 35 (verification refines acceptance, not magnitude)", kept[0].Score)
	}
	if resampler.callCount() != 1 {
		t.Errorf("resampler called %d times, want 1", resampler.callCount())
	}
}

func TestVerifyDropsCandidateRefutedByFinerPass(t *testing.T) {
	cfg := verifyConfig()
	resampler := &stubResampler{fn: emptyWindow}
	candidates := []Candidate{{Timestamp: 60, Score: 35, Signals: signalScene}}

	kept := Verify(context.Background(), candidates, nil, resampler, cfg, nil)
	if len(kept) != 0 {
		t.Fatalf("kept %d candidates, want 0: %+v", len(kept), kept)
	}
}

func TestVerifySkipsConfidentCandidates(t *testing.T) {
	cfg := verifyConfig()
	resampler := &stubResampler{fn: emptyWindow}
	// Score 80 is well above MinConfidence(25) + VerifyBand(15).
	candidates := []Candidate{{Timestamp: 60, Score: 80, Signals: signalScene | signalBlack}}

	kept := Verify(context.Background(), candidates, nil, resampler, cfg, nil)
	if len(kept) != 1 {
		t.Fatalf("kept %d candidates, want 1", len(kept))
	}
	if kept[0].Verified {
		t.Error("skipped candidate should not be marked verified")
	}
	if resampler.callCount() != 0 {
		t.Errorf("resampler called %d times for confident candidate, want 0", resampler.callCount())
	}
}

func TestVerifyNoiseZoneForcesCheckDespiteHighScore(t *testing.T) {
	cfg := verifyConfig()
	resampler := &stubResampler{fn: strongWindow}
	zones := []NoiseZone{{Start: 55, End: 70}}
	candidates := []Candidate{{Timestamp: 60, Score: 200, Signals: signalScene}}

	kept := Verify(context.Background(), candidates, zones, resampler, cfg, nil)
	if resampler.callCount() != 1 {
		t.Fatalf("resampler called %d times, want 1 (noise zone forces verification)", resampler.callCount())
	}
	if len(kept) != 1 || !kept[0].Verified {
		t.Errorf("kept = %+v, want one verified candidate", kept)
	}
}

func TestVerifyResampleFailureKeepsCoarseScore(t *testing.T) {
	cfg := verifyConfig()
	resampler := &stubResampler{fn: func(_, _ float64) (Streams, error) {
		return Streams{}, errors.New("tool exited 1")
	}}
	candidates := []Candidate{
		{Timestamp: 60, Score: 35, Signals: signalScene},
		{Timestamp: 120, Score: 38, Signals: signalScene},
	}

	kept := Verify(context.Background(), candidates, nil, resampler, cfg, nil)
	if len(kept) != 2 {
		t.Fatalf("kept %d candidates, want 2 (failure degrades to coarse trust)", len(kept))
	}
	for i, c := range kept {
		if c.Verified {
			t.Errorf("candidate %d marked verified after resample failure", i)
		}
		if c.Score != candidates[i].Score {
			t.Errorf("candidate %d score changed: %v -> %v", i, candidates[i].Score, c.Score)
		}
	}
}

func TestVerifyPreservesInputOrderAcrossWorkers(t *testing.T) {
	cfg := verifyConfig()
	cfg.VerifyWorkers = 8
	var calls atomic.Int64
	resampler := &stubResampler{fn: func(start, end float64) (Streams, error) {
		calls.Add(1)
		return strongWindow(start, end)
	}}

	var candidates []Candidate
	for i := 0; i < 32; i++ {
		candidates = append(candidates, Candidate{Timestamp: float64(20 * (i + 1)), Score: 35, Signals: signalScene})
	}

	kept := Verify(context.Background(), candidates, nil, resampler, cfg, nil)
	if len(kept) != len(candidates) {
		t.Fatalf("kept %d candidates, want %d", len(kept), len(candidates))
	}
	for i, c := range kept {
		if c.Timestamp != candidates[i].Timestamp {
			t.Fatalf("order changed at %d: got %v, want %v", i, c.Timestamp, candidates[i].Timestamp)
		}
		if !c.Verified {
			t.Errorf("candidate %d not verified", i)
		}
	}
	if got := calls.Load(); got != int64(len(candidates)) {
		t.Errorf("resampler called %d times, want %d", got, len(candidates))
	}
}

func TestVerifyDisabledPassesThrough(t *testing.T) {
	cfg := validConfig() // Verify false
	resampler := &stubResampler{fn: emptyWindow}
	candidates := []Candidate{{Timestamp: 60, Score: 35, Signals: signalScene}}

	kept := Verify(context.Background(), candidates, nil, resampler, cfg, nil)
	if len(kept) != 1 || resampler.callCount() != 0 {
		t.Errorf("disabled verification must pass candidates through untouched")
	}
}

func TestVerifyNilResamplerPassesThrough(t *testing.T) {
	cfg := verifyConfig()
	candidates := []Candidate{{Timestamp: 60, Score: 35, Signals: signalScene}}
	kept := Verify(context.Background(), candidates, nil, nil, cfg, nil)
	if len(kept) != 1 {
		t.Errorf("kept %d candidates, want 1", len(kept))
	}
}

package detect

import (
	"context"
	"log/slog"
	"sync"

	"reelcut/internal/logging"
)

// Resampler produces a finer-grained signal sample for an arbitrary window of
// the capture. The media extractor implements this by re-running detection on
// just [start, end] with tighter filter settings.
type Resampler interface {
	Resample(ctx context.Context, start, end float64) (Streams, error)
}

// ResamplerFunc adapts a plain function to the Resampler interface.
type ResamplerFunc func(ctx context.Context, start, end float64) (Streams, error)

func (f ResamplerFunc) Resample(ctx context.Context, start, end float64) (Streams, error) {
	return f(ctx, start, end)
}

type verifyDecision int

const (
	verifySkipped verifyDecision = iota
	verifyConfirmed
	verifyRejected
	verifyUnavailable
)

// Verify re-examines uncertain-confidence candidates against a finer resample
// of a narrow window around each one. Candidates comfortably above threshold
// skip the pass; only the uncertain middle pays for resampling. A resample
// failure keeps the candidate with its coarse score, so verification degrades
// to "trust the coarse signal" rather than dropping a legitimate boundary.
//
// Resample requests for independent candidates run concurrently; decisions are
// reassociated with their candidate by index before anything is applied, so
// output order matches input order.
func Verify(ctx context.Context, candidates []Candidate, zones []NoiseZone, resampler Resampler, cfg Config, logger *slog.Logger) []Candidate {
	cfg = cfg.normalized()
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "verifier")
	if !cfg.Verify || resampler == nil || len(candidates) == 0 {
		return candidates
	}

	decisions := make([]verifyDecision, len(candidates))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := cfg.VerifyWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				decisions[i] = verifyOne(ctx, candidates[i], zones, resampler, cfg, logger)
			}
		}()
	}
	for i, c := range candidates {
		if !needsVerification(c, zones, cfg) {
			decisions[i] = verifySkipped
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	kept := make([]Candidate, 0, len(candidates))
	for i, c := range candidates {
		switch decisions[i] {
		case verifyConfirmed:
			c.Verified = true
		case verifyRejected:
			logger.Info("dropped candidate on closer inspection",
				logging.Float64("timestamp", c.Timestamp),
				logging.Float64("score", c.Score),
				logging.String("signals", c.Signals.String()),
			)
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// needsVerification marks the uncertain middle: scores within VerifyBand above
// the threshold, plus anything sitting near a noise zone regardless of score.
func needsVerification(c Candidate, zones []NoiseZone, cfg Config) bool {
	if c.Score < cfg.MinConfidence+cfg.VerifyBand {
		return true
	}
	return NearNoiseZone(c.Timestamp, zones, 2*cfg.NoiseBoundaryMargin)
}

func verifyOne(ctx context.Context, c Candidate, zones []NoiseZone, resampler Resampler, cfg Config, logger *slog.Logger) verifyDecision {
	start := c.Timestamp - cfg.VerifyWindow/2
	if start < 0 {
		start = 0
	}
	end := c.Timestamp + cfg.VerifyWindow/2

	streams, err := resampler.Resample(ctx, start, end)
	if err != nil {
		logger.Warn("resample failed, keeping coarse score",
			logging.Float64("timestamp", c.Timestamp),
			logging.Error(err),
		)
		return verifyUnavailable
	}

	if localScore(streams, c.Timestamp, cfg) < cfg.MinConfidence {
		return verifyRejected
	}
	return verifyConfirmed
}

// localScore reruns event extraction and clustering on the resampled window
// and returns the score of the strongest cluster near the candidate. The
// original score is deliberately not replaced on success: verification refines
// acceptance, not magnitude, to avoid oscillation between passes.
func localScore(streams Streams, around float64, cfg Config) float64 {
	events := mergeEvents(
		sceneEvents(streams.Scene, cfg),
		blackEvents(streams.Black, cfg),
		audioEvents(streams.Audio, cfg),
	)
	best := 0.0
	for _, cluster := range clusterEvents(events, cfg) {
		if abs(cluster.Timestamp-around) > 2*cfg.ClusterRadius {
			continue
		}
		if cluster.Score > best {
			best = cluster.Score
		}
	}
	return best
}

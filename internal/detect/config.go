package detect

import "fmt"

// Tunable defaults. Zero-valued fields in Config fall back to these so callers
// only need to set the knobs they care about.
const (
	defaultClusterRadius    = 2.0
	defaultMultiSignalBonus = 10.0
	defaultSceneNoiseFloor  = 5.0
	defaultAudioNoiseFloor  = 5.0
	defaultSceneSaturation  = 25.0
	defaultBlackSaturation  = 1.0
	defaultAudioSaturation  = 25.0
	defaultVerifyBand       = 15.0
	defaultVerifyWindow     = 4.0
	defaultVerifyWorkers    = 4

	defaultNoiseWindowSeconds  = 10
	defaultNoiseDensity        = 2.5
	defaultNoiseMinDuration    = 10.0
	defaultNoiseMergeGap       = 5.0
	defaultNoiseBoundaryMargin = 5.0
)

// Config parametrizes one scoring pass. It is an immutable value: construct it
// once, validate it once, and pass it by value to every stage.
type Config struct {
	// MinConfidence is the score below which a candidate is dropped.
	MinConfidence float64
	// MinGap is the enforced minimum spacing in seconds between surviving
	// candidates. Must be positive and larger than ClusterRadius.
	MinGap float64

	// Per-signal weights. A weight of zero disables that signal's
	// contribution; at least one weight must be positive.
	SceneWeight float64
	BlackWeight float64
	AudioWeight float64

	// ClusterRadius is the maximum spacing in seconds between successive
	// events that land in the same cluster. Zero selects the default.
	ClusterRadius float64
	// MultiSignalBonus is added to a cluster's score when more than one
	// signal kind contributes to it.
	MultiSignalBonus float64

	// Noise floors: events below these magnitudes are ignored.
	SceneNoiseFloor float64
	AudioNoiseFloor float64

	// Saturation points: the magnitude at which an event earns its signal's
	// full weight. Weaker events contribute proportionally less.
	SceneSaturation float64
	BlackSaturation float64
	AudioSaturation float64

	// Verify enables the second-pass re-examination of uncertain candidates.
	Verify bool
	// VerifyBand is the score band above MinConfidence inside which
	// candidates are re-examined. Higher scorers skip verification.
	VerifyBand float64
	// VerifyWindow is the width in seconds of the resampled window centered
	// on each uncertain candidate.
	VerifyWindow float64
	// VerifyWorkers bounds concurrent resample requests.
	VerifyWorkers int

	// Noise-zone tunables (sustained bursts of spurious scene detections,
	// typically VHS static).
	NoiseWindowSeconds  int
	NoiseDensity        float64
	NoiseMinDuration    float64
	NoiseMergeGap       float64
	NoiseBoundaryMargin float64
}

// ConfigError reports an unusable detection configuration. It is a distinct
// failure type so callers can tell "refused to run" apart from a legitimate
// empty result.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("detection config: %s %s", e.Field, e.Reason)
}

func configErr(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// normalized returns a copy with zero-valued tunables replaced by defaults.
// MinConfidence, MinGap, and the signal weights are deliberately not
// defaulted: those are deployment decisions the caller must make.
func (c Config) normalized() Config {
	if c.ClusterRadius == 0 {
		c.ClusterRadius = defaultClusterRadius
		// Keep the default usable with tight gap settings.
		if c.MinGap > 0 && c.ClusterRadius >= c.MinGap {
			c.ClusterRadius = c.MinGap / 2
		}
	}
	if c.MultiSignalBonus == 0 {
		c.MultiSignalBonus = defaultMultiSignalBonus
	}
	if c.SceneNoiseFloor == 0 {
		c.SceneNoiseFloor = defaultSceneNoiseFloor
	}
	if c.AudioNoiseFloor == 0 {
		c.AudioNoiseFloor = defaultAudioNoiseFloor
	}
	if c.SceneSaturation == 0 {
		c.SceneSaturation = defaultSceneSaturation
	}
	if c.BlackSaturation == 0 {
		c.BlackSaturation = defaultBlackSaturation
	}
	if c.AudioSaturation == 0 {
		c.AudioSaturation = defaultAudioSaturation
	}
	if c.VerifyBand == 0 {
		c.VerifyBand = defaultVerifyBand
	}
	if c.VerifyWindow == 0 {
		c.VerifyWindow = defaultVerifyWindow
	}
	if c.VerifyWorkers == 0 {
		c.VerifyWorkers = defaultVerifyWorkers
	}
	if c.NoiseWindowSeconds == 0 {
		c.NoiseWindowSeconds = defaultNoiseWindowSeconds
	}
	if c.NoiseDensity == 0 {
		c.NoiseDensity = defaultNoiseDensity
	}
	if c.NoiseMinDuration == 0 {
		c.NoiseMinDuration = defaultNoiseMinDuration
	}
	if c.NoiseMergeGap == 0 {
		c.NoiseMergeGap = defaultNoiseMergeGap
	}
	if c.NoiseBoundaryMargin == 0 {
		c.NoiseBoundaryMargin = defaultNoiseBoundaryMargin
	}
	return c
}

// Validate checks the configuration after defaulting. Score calls this before
// touching any sample, so an unusable config fails fast instead of silently
// producing an empty result.
func (c Config) Validate() error {
	if c.MinConfidence < 0 {
		return configErr("min_confidence", "must be >= 0")
	}
	if c.MinGap <= 0 {
		return configErr("min_gap", "must be positive")
	}
	if c.SceneWeight < 0 || c.BlackWeight < 0 || c.AudioWeight < 0 {
		return configErr("weights", "must be >= 0")
	}
	if c.SceneWeight == 0 && c.BlackWeight == 0 && c.AudioWeight == 0 {
		return configErr("weights", "at least one signal weight must be positive")
	}
	if c.ClusterRadius < 0 {
		return configErr("cluster_radius", "must be >= 0")
	}
	if c.ClusterRadius >= c.MinGap {
		return configErr("cluster_radius", "must be smaller than min_gap")
	}
	if c.MultiSignalBonus < 0 {
		return configErr("multi_signal_bonus", "must be >= 0")
	}
	if c.SceneSaturation < 0 || c.BlackSaturation < 0 || c.AudioSaturation < 0 {
		return configErr("saturation", "must be >= 0")
	}
	if c.VerifyBand < 0 {
		return configErr("verify_band", "must be >= 0")
	}
	if c.VerifyWindow < 0 {
		return configErr("verify_window", "must be >= 0")
	}
	if c.VerifyWorkers < 0 {
		return configErr("verify_workers", "must be >= 0")
	}
	return nil
}

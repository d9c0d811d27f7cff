package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	if err := c.validateGallery(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetection() error {
	d := c.Detection
	if d.MinConfidence < 0 {
		return errors.New("detection.min_confidence must be >= 0")
	}
	if d.MinGapSeconds <= 0 {
		return errors.New("detection.min_gap_seconds must be positive")
	}
	weights := map[string]float64{
		"detection.scene_weight": d.SceneWeight,
		"detection.black_weight": d.BlackWeight,
		"detection.audio_weight": d.AudioWeight,
	}
	anyPositive := false
	for key, value := range weights {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
		if value > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return errors.New("detection: at least one signal weight must be positive")
	}
	if d.BlackPictureThreshold > 1 {
		return errors.New("detection.black_picture_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateSplit() error {
	switch c.Split.Preset {
	case "ultrafast", "superfast", "veryfast", "faster", "fast", "medium", "slow", "slower", "veryslow":
	default:
		return fmt.Errorf("split.preset %q is not a valid x264 preset", c.Split.Preset)
	}
	if c.Split.CRF < 0 || c.Split.CRF > 51 {
		return errors.New("split.crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validateGallery() error {
	if c.Gallery.ThumbsPerClip < 1 {
		return errors.New("gallery.thumbs_per_clip must be >= 1")
	}
	return nil
}

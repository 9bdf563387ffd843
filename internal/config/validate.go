package config

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	validPositions = map[string]bool{"center": true, "bottom": true}
	validColors    = map[string]bool{"white": true, "yellow": true, "cyan": true}
)

// Validate reports the first invalid setting found.
func (c Config) Validate() error {
	if c.MaxClips <= 0 {
		return fmt.Errorf("max_clips must be positive, got %d", c.MaxClips)
	}
	if c.ClipDuration <= 0 {
		return fmt.Errorf("clip_duration must be positive, got %g", c.ClipDuration)
	}
	if c.Highlight.EnergyThreshold < 0 || c.Highlight.EnergyThreshold > 1 {
		return fmt.Errorf("highlight.energy_threshold must be in [0, 1], got %g", c.Highlight.EnergyThreshold)
	}
	if c.Highlight.SilenceThreshold <= 0 {
		return fmt.Errorf("highlight.silence_threshold must be positive, got %g", c.Highlight.SilenceThreshold)
	}
	if c.Highlight.SilenceMinDuration < 0 {
		return fmt.Errorf("highlight.silence_min_duration must not be negative, got %g", c.Highlight.SilenceMinDuration)
	}
	if _, _, err := ParseAspectRatio(c.Crop.AspectRatio); err != nil {
		return fmt.Errorf("crop.aspect_ratio: %w", err)
	}
	if c.Crop.TargetWidth <= 0 || c.Crop.TargetHeight <= 0 {
		return fmt.Errorf("crop target must be positive, got %dx%d", c.Crop.TargetWidth, c.Crop.TargetHeight)
	}
	if c.Face.FrameSkip <= 0 {
		return fmt.Errorf("face_detection.frame_skip must be positive, got %d", c.Face.FrameSkip)
	}
	if c.Face.PresenceThreshold < 0 || c.Face.PresenceThreshold > 1 {
		return fmt.Errorf("face_detection.presence_threshold must be in [0, 1], got %g", c.Face.PresenceThreshold)
	}
	if !validPositions[c.Subtitle.Position] {
		return fmt.Errorf("subtitle.position must be center or bottom, got %q", c.Subtitle.Position)
	}
	if !validColors[c.Subtitle.Color] {
		return fmt.Errorf("subtitle.color must be white, yellow or cyan, got %q", c.Subtitle.Color)
	}
	if c.Subtitle.MaxWordsPerLine <= 0 {
		return fmt.Errorf("subtitle.max_words_per_line must be positive, got %d", c.Subtitle.MaxWordsPerLine)
	}
	if c.FFmpeg.CRF < 0 || c.FFmpeg.CRF > 51 {
		return fmt.Errorf("ffmpeg.crf must be in [0, 51], got %d", c.FFmpeg.CRF)
	}
	return nil
}

// ParseAspectRatio parses a "W:H" ratio string into its two terms.
func ParseAspectRatio(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected W:H, got %q", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("invalid width in ratio %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("invalid height in ratio %q", s)
	}
	return w, h, nil
}

// ApplyQuality maps a named quality preset onto the encode settings.
func (c *Config) ApplyQuality(quality string) error {
	switch quality {
	case "draft":
		c.FFmpeg.CRF = 28
		c.FFmpeg.Preset = "ultrafast"
	case "balanced":
		c.FFmpeg.CRF = 23
		c.FFmpeg.Preset = "fast"
	case "high":
		c.FFmpeg.CRF = 18
		c.FFmpeg.Preset = "slow"
	default:
		return fmt.Errorf("unknown quality %q (want draft, balanced or high)", quality)
	}
	return nil
}

// Package signal runs the three independent highlight detectors over the
// transcript and the audio waveform.
package signal

import (
	"errors"

	"github.com/forPelevin/autoclip/internal/types"
)

// Config carries the detector thresholds. Zero values fall back to the
// documented defaults.
type Config struct {
	// EnergyThreshold is the normalized RMS level a frame must exceed to
	// count as an energy peak. Default 0.8.
	EnergyThreshold float64
	// SilenceThresholdDB is how far below the loudest frame a frame may sit
	// before it counts as silence. Default 20 dB.
	SilenceThresholdDB float64
	// SilenceMinDuration is the minimum gap length, in seconds, that
	// qualifies as a silence-gap candidate. Default 2.0.
	SilenceMinDuration float64
	// ClipDuration caps the span emitted after a silence gap, in seconds.
	// Default 30.
	ClipDuration float64
	// Keywords are matched case-insensitively against segment text.
	Keywords []string
}

func (c Config) withDefaults() Config {
	if c.EnergyThreshold <= 0 {
		c.EnergyThreshold = 0.8
	}
	if c.SilenceThresholdDB <= 0 {
		c.SilenceThresholdDB = 20
	}
	if c.SilenceMinDuration <= 0 {
		c.SilenceMinDuration = 2.0
	}
	if c.ClipDuration <= 0 {
		c.ClipDuration = 30
	}
	if len(c.Keywords) == 0 {
		c.Keywords = []string{"wow", "amazing"}
	}
	return c
}

// Collector produces raw candidate intervals from all three detectors.
type Collector struct {
	cfg Config
}

func NewCollector(cfg Config) Collector {
	return Collector{cfg: cfg.withDefaults()}
}

// Collect concatenates the energy, keyword and silence-gap candidates.
// Candidates overlap freely; the merger reconciles them. A detector failure
// aborts the whole collection.
func (c Collector) Collect(wave types.Waveform, segments []types.TranscriptSegment) ([]types.CandidateInterval, error) {
	if len(wave.Samples) > 0 && wave.SampleRate <= 0 {
		return nil, errors.New("waveform has samples but no sample rate")
	}

	var out []types.CandidateInterval
	out = append(out, detectEnergyPeaks(wave, c.cfg.EnergyThreshold)...)
	out = append(out, detectKeywords(segments, c.cfg.Keywords)...)
	out = append(out, detectSilenceGaps(wave, c.cfg.SilenceThresholdDB, c.cfg.SilenceMinDuration, c.cfg.ClipDuration)...)
	return out, nil
}

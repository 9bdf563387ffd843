// Package faces annotates highlights with face presence and applies the
// whole-set filtering policy.
package faces

import (
	"context"
	"fmt"

	"github.com/forPelevin/autoclip/internal/ports"
	"github.com/forPelevin/autoclip/internal/types"
)

// earlyExitPositives stops per-highlight sampling once this many frames
// contained a face. The cap is independent of highlight length, which
// shrinks the ratio denominator for long highlights; treat it as a tunable
// alongside FrameSkip, not a hidden requirement.
const earlyExitPositives = 3

// Config controls the face presence filter.
type Config struct {
	// Enabled gates both annotation and set-level filtering.
	Enabled bool
	// FrameSkip is the sampling stride in frames. Default 10.
	FrameSkip int
	// PresenceThreshold is the minimum face ratio for a highlight to count
	// as face-present. Default 0.3.
	PresenceThreshold float64
}

func (c Config) withDefaults() Config {
	if c.FrameSkip <= 0 {
		c.FrameSkip = 10
	}
	if c.PresenceThreshold <= 0 {
		c.PresenceThreshold = 0.3
	}
	return c
}

// Filter samples frames per highlight through a ports.FrameProbe.
type Filter struct {
	cfg Config
}

func New(cfg Config) Filter {
	return Filter{cfg: cfg.withDefaults()}
}

// Annotate sets FacePresent and FaceRatio on every highlight by sampling
// frames across its span at the configured stride. It returns a new slice;
// the input is untouched.
func (f Filter) Annotate(ctx context.Context, probe ports.FrameProbe, fps float64, highlights []types.MergedHighlight) ([]types.MergedHighlight, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid fps %v", fps)
	}

	out := make([]types.MergedHighlight, len(highlights))
	copy(out, highlights)
	for i := range out {
		present, ratio, err := f.probeHighlight(ctx, probe, fps, out[i])
		if err != nil {
			return nil, fmt.Errorf("probe highlight %d: %w", i+1, err)
		}
		out[i].FacePresent = present
		out[i].FaceRatio = ratio
	}
	return out, nil
}

func (f Filter) probeHighlight(ctx context.Context, probe ports.FrameProbe, fps float64, h types.MergedHighlight) (bool, float64, error) {
	startFrame := int(h.Start * fps)
	endFrame := int(h.End * fps)

	positives := 0
	sampled := 0
	for frame := startFrame; frame < endFrame; frame += f.cfg.FrameSkip {
		hit, err := probe.DetectAt(ctx, float64(frame)/fps)
		if err != nil {
			return false, 0, err
		}
		if hit {
			positives++
		}
		sampled++
		if positives >= earlyExitPositives {
			break
		}
	}

	denom := sampled
	if denom < 1 {
		denom = 1
	}
	ratio := float64(positives) / float64(denom)
	return ratio > f.cfg.PresenceThreshold, ratio, nil
}

// Apply returns the face-present subset of the annotated highlights. If
// filtering is enabled but would remove every highlight, the full annotated
// set is returned instead: face filtering never zeroes out the run. The
// second return reports whether the fallback fired.
func (f Filter) Apply(annotated []types.MergedHighlight) ([]types.MergedHighlight, bool) {
	if !f.cfg.Enabled {
		return annotated, false
	}
	var kept []types.MergedHighlight
	for _, h := range annotated {
		if h.FacePresent {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 && len(annotated) > 0 {
		return annotated, true
	}
	return kept, false
}

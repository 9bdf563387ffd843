package faces

import (
	"context"
	"testing"

	"github.com/forPelevin/autoclip/internal/types"
)

// scriptedProbe answers true for frames whose timestamp falls inside any of
// the given spans.
type scriptedProbe struct {
	faceSpans [][2]float64
	calls     int
}

func (p *scriptedProbe) DetectAt(_ context.Context, at float64) (bool, error) {
	p.calls++
	for _, s := range p.faceSpans {
		if at >= s[0] && at < s[1] {
			return true, nil
		}
	}
	return false, nil
}

func (p *scriptedProbe) Close() error { return nil }

func TestAnnotate_RatioAndThreshold(t *testing.T) {
	t.Parallel()

	f := New(Config{Enabled: true, FrameSkip: 30})
	probe := &scriptedProbe{faceSpans: [][2]float64{{0, 100}}}

	got, err := f.Annotate(context.Background(), probe, 30, []types.MergedHighlight{
		{Start: 0, End: 10},  // all frames have faces
		{Start: 200, End: 210}, // none do
	})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if !got[0].FacePresent || got[0].FaceRatio != 1 {
		t.Fatalf("expected full presence, got %+v", got[0])
	}
	if got[1].FacePresent || got[1].FaceRatio != 0 {
		t.Fatalf("expected no presence, got %+v", got[1])
	}
}

func TestAnnotate_EarlyExitCapsSampling(t *testing.T) {
	t.Parallel()

	f := New(Config{Enabled: true, FrameSkip: 30})
	probe := &scriptedProbe{faceSpans: [][2]float64{{0, 1000}}}

	// A 100s highlight at 1 frame/step would sample 100 frames; early exit
	// stops after the third positive.
	got, err := f.Annotate(context.Background(), probe, 30, []types.MergedHighlight{{Start: 0, End: 100}})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if probe.calls != 3 {
		t.Fatalf("expected 3 probe calls, got %d", probe.calls)
	}
	// 3 positives / 3 sampled: the shortened denominator yields ratio 1.
	if got[0].FaceRatio != 1 || !got[0].FacePresent {
		t.Fatalf("unexpected annotation: %+v", got[0])
	}
}

func TestAnnotate_ZeroSampleHighlight(t *testing.T) {
	t.Parallel()

	f := New(Config{Enabled: true, FrameSkip: 10})
	probe := &scriptedProbe{}

	// Sub-frame highlight: nothing sampled, denominator floors at 1.
	got, err := f.Annotate(context.Background(), probe, 30, []types.MergedHighlight{{Start: 1.0, End: 1.01}})
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if got[0].FaceRatio != 0 || got[0].FacePresent {
		t.Fatalf("unexpected annotation: %+v", got[0])
	}
}

func TestApply_FiltersAndFallsBack(t *testing.T) {
	t.Parallel()

	f := New(Config{Enabled: true})

	mixed := []types.MergedHighlight{
		{Start: 0, End: 5, FacePresent: true},
		{Start: 10, End: 15},
	}
	kept, fellBack := f.Apply(mixed)
	if fellBack || len(kept) != 1 || kept[0].Start != 0 {
		t.Fatalf("expected only face-present highlight, got %+v (fallback=%v)", kept, fellBack)
	}

	faceless := []types.MergedHighlight{
		{Start: 0, End: 5},
		{Start: 10, End: 15},
	}
	kept, fellBack = f.Apply(faceless)
	if !fellBack || len(kept) != 2 {
		t.Fatalf("expected whole-set fallback, got %+v (fallback=%v)", kept, fellBack)
	}
}

func TestApply_Disabled(t *testing.T) {
	t.Parallel()

	f := New(Config{Enabled: false})
	in := []types.MergedHighlight{{Start: 0, End: 5}}
	kept, fellBack := f.Apply(in)
	if fellBack || len(kept) != 1 {
		t.Fatalf("disabled filter must pass everything through, got %+v", kept)
	}
}

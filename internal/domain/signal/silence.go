package signal

import (
	"math"

	"github.com/forPelevin/autoclip/internal/types"
)

// silenceGapConfidence is fixed: a gap is a structural hint, not a scored
// signal.
const silenceGapConfidence = 0.7

// span is a non-silent stretch of audio in seconds.
type span struct {
	start, end float64
}

// nonSilentSpans splits the waveform into spans whose RMS level is within
// topDB decibels of the loudest frame.
func nonSilentSpans(wave types.Waveform, topDB float64) []span {
	env := rmsEnvelope(wave.Samples)
	if len(env) == 0 {
		return nil
	}
	peak := 0.0
	for _, e := range env {
		if e > peak {
			peak = e
		}
	}
	if peak == 0 {
		return nil
	}

	var spans []span
	open := false
	var firstFrame int
	for i, e := range env {
		loud := 20*math.Log10(e/peak) > -topDB
		switch {
		case loud && !open:
			open = true
			firstFrame = i
		case !loud && open:
			open = false
			spans = append(spans, frameSpan(firstFrame, i-1, wave))
		}
	}
	if open {
		spans = append(spans, frameSpan(firstFrame, len(env)-1, wave))
	}
	return spans
}

func frameSpan(first, last int, wave types.Waveform) span {
	end := frameTime(last, wave.SampleRate) + float64(frameLength)/float64(wave.SampleRate)
	if d := wave.Duration(); end > d {
		end = d
	}
	return span{start: frameTime(first, wave.SampleRate), end: end}
}

// detectSilenceGaps emits a candidate for every gap between adjacent
// non-silent spans that lasts at least minDuration seconds. The candidate
// starts where speech stopped and runs to the next span (capped at
// clipDuration), so the moment after the pause lands inside the clip.
func detectSilenceGaps(wave types.Waveform, topDB, minDuration, clipDuration float64) []types.CandidateInterval {
	spans := nonSilentSpans(wave, topDB)

	var out []types.CandidateInterval
	for i := 0; i+1 < len(spans); i++ {
		gap := spans[i+1].start - spans[i].end
		if gap < minDuration {
			continue
		}
		out = append(out, types.CandidateInterval{
			Start:       spans[i].end,
			End:         math.Min(spans[i+1].start, spans[i].end+clipDuration),
			Kind:        types.KindSilenceGap,
			Confidence:  silenceGapConfidence,
			GapDuration: gap,
		})
	}
	return out
}

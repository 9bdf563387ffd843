package signal

import (
	"math"

	"github.com/forPelevin/autoclip/internal/types"
)

// Short-time analysis frame geometry shared by the energy and silence
// detectors.
const (
	frameLength = 2048
	hopLength   = 512
)

// energyWindow is how far an energy peak extends in each direction, seconds.
const energyWindow = 5.0

// rmsEnvelope computes one RMS value per hop-spaced frame.
func rmsEnvelope(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	n := (len(samples)-1)/hopLength + 1
	env := make([]float64, 0, n)
	for start := 0; start < len(samples); start += hopLength {
		end := start + frameLength
		if end > len(samples) {
			end = len(samples)
		}
		var sum float64
		for _, s := range samples[start:end] {
			sum += s * s
		}
		env = append(env, math.Sqrt(sum/float64(end-start)))
	}
	return env
}

func frameTime(i, sampleRate int) float64 {
	return float64(i*hopLength) / float64(sampleRate)
}

// detectEnergyPeaks emits one candidate per frame whose max-normalized RMS
// energy exceeds the threshold. Adjacent qualifying frames produce
// overlapping candidates on purpose; the merger absorbs them.
func detectEnergyPeaks(wave types.Waveform, threshold float64) []types.CandidateInterval {
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

	var out []types.CandidateInterval
	for i, e := range env {
		norm := e / peak
		if norm <= threshold {
			continue
		}
		t := frameTime(i, wave.SampleRate)
		out = append(out, types.CandidateInterval{
			Start:      math.Max(0, t-energyWindow),
			End:        t + energyWindow,
			Kind:       types.KindEnergy,
			Confidence: norm,
		})
	}
	return out
}

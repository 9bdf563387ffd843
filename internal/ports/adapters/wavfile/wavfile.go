// Package wavfile loads the extracted mono WAV into the waveform the signal
// detectors consume.
package wavfile

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"

	"github.com/forPelevin/autoclip/internal/types"
)

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

// Load decodes the whole file into float64 samples normalized to [-1, 1].
func (a *Adapter) Load(ctx context.Context, wavPath string) (types.Waveform, error) {
	if err := ctx.Err(); err != nil {
		return types.Waveform{}, err
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return types.Waveform{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return types.Waveform{}, fmt.Errorf("%s is not a valid wav file", wavPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return types.Waveform{}, fmt.Errorf("read pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return types.Waveform{}, fmt.Errorf("wav %s has no sample rate", wavPath)
	}
	if buf.Format.NumChannels != 1 {
		return types.Waveform{}, fmt.Errorf("expected mono audio, got %d channels", buf.Format.NumChannels)
	}

	scale := math.Pow(2, float64(dec.BitDepth)-1)
	if scale <= 0 {
		scale = 1 << 15
	}
	samples := make([]float64, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float64(s) / scale
	}
	return types.Waveform{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

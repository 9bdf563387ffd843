package ports

import (
	"context"

	"github.com/forPelevin/autoclip/internal/types"
)

// CropSpec is a center crop plus scale/pad to the target frame, computed by
// the assembler from probed source dimensions.
type CropSpec struct {
	X, Y          int
	Width, Height int
	TargetWidth   int
	TargetHeight  int
}

// BurnStyle carries the subtitle burn knobs passed through to the encoder's
// force_style string.
type BurnStyle struct {
	FontSize int
	Position string
	Color    string
}

// VideoTool is the external encoder. All calls block until the tool exits.
type VideoTool interface {
	ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error
	Probe(ctx context.Context, inVideo string) (types.VideoInfo, error)
	// RenderClip trims [start, start+duration] seconds of inVideo into
	// outVideo. A nil crop renders the source frame unchanged.
	RenderClip(ctx context.Context, inVideo string, start, duration float64, outVideo string, crop *CropSpec) error
	// BurnSubtitles re-encodes inVideo with the SRT file composited into the
	// pixels.
	BurnSubtitles(ctx context.Context, inVideo, outVideo, srtPath string, style BurnStyle) error
	ExtractFrame(ctx context.Context, inVideo string, at float64, outImage string) error
}

// ASR is the transcription collaborator.
type ASR interface {
	Transcribe(ctx context.Context, wavPath, cacheDir string) ([]types.TranscriptSegment, error)
}

// AudioSource loads the sampled waveform the signal detectors run over.
type AudioSource interface {
	Load(ctx context.Context, wavPath string) (types.Waveform, error)
}

// FaceProbe answers whether a face is visible in a single frame of the
// source video. Open fails when the underlying detector is unavailable;
// callers treat that as "disable face filtering for this run".
type FaceProbe interface {
	Open(ctx context.Context, videoPath string) (FrameProbe, error)
}

// FrameProbe is a per-run face probe session over one video.
type FrameProbe interface {
	DetectAt(ctx context.Context, atSeconds float64) (bool, error)
	Close() error
}

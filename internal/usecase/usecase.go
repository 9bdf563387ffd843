package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/forPelevin/autoclip/internal/clip"
	"github.com/forPelevin/autoclip/internal/domain/faces"
	"github.com/forPelevin/autoclip/internal/domain/highlights"
	"github.com/forPelevin/autoclip/internal/domain/signal"
	"github.com/forPelevin/autoclip/internal/domain/subtitles"
	"github.com/forPelevin/autoclip/internal/events"
	"github.com/forPelevin/autoclip/internal/ports"
	"github.com/forPelevin/autoclip/internal/types"
)

type Deps struct {
	Video ports.VideoTool
	ASR   ports.ASR
	Audio ports.AudioSource
	Faces ports.FaceProbe // nil disables face filtering
	Sink  events.Sink
	Log   zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase {
	if d.Sink == nil {
		d.Sink = events.Discard
	}
	return Usecase{d: d}
}

type Input struct {
	InputMP4 string
	OutDir   string
	CacheDir string

	MaxClips int

	Signal   signal.Config
	Face     faces.Config
	Subtitle subtitles.Config
	Assemble clip.Options

	// Order decides which highlights win when there are more than
	// MaxClips. Nil means chronological.
	Order highlights.Less
}

func (u Usecase) Run(ctx context.Context, in Input) (types.RunSummary, error) {
	summary := types.RunSummary{
		Input:          in.InputMP4,
		OutputDir:      in.OutDir,
		ClipsRequested: in.MaxClips,
	}

	events.State(u.d.Sink, "probing")
	info, err := u.d.Video.Probe(ctx, in.InputMP4)
	if err != nil {
		return summary, fmt.Errorf("probe input: %w", err)
	}
	u.d.Log.Info().
		Str("input", in.InputMP4).
		Float64("duration_sec", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Msg("input probed")

	events.State(u.d.Sink, "extracting_audio")
	events.Progress(u.d.Sink, "audio", 5, nil)
	wav := filepath.Join(in.CacheDir, "audio.wav")
	if _, statErr := os.Stat(wav); statErr == nil {
		u.d.Log.Debug().Str("wav", wav).Msg("reusing cached audio")
	} else if err := u.d.Video.ExtractAudioMono16k(ctx, in.InputMP4, wav); err != nil {
		return summary, fmt.Errorf("extract audio: %w", err)
	}

	wave, err := u.d.Audio.Load(ctx, wav)
	if err != nil {
		return summary, fmt.Errorf("load audio: %w", err)
	}

	events.State(u.d.Sink, "transcribing")
	events.Progress(u.d.Sink, "transcribe", 20, nil)
	segments, err := u.d.ASR.Transcribe(ctx, wav, in.CacheDir)
	if err != nil {
		return summary, fmt.Errorf("transcribe: %w", err)
	}
	u.d.Log.Info().Int("segments", len(segments)).Msg("transcription done")
	if err := u.writeTranscript(in.OutDir, segments); err != nil {
		u.d.Log.Warn().Err(err).Msg("transcript sidecar not written")
	}

	events.State(u.d.Sink, "analyzing")
	events.Progress(u.d.Sink, "analyze", 40, nil)
	candidates, err := signal.NewCollector(in.Signal).Collect(wave, segments)
	if err != nil {
		return summary, fmt.Errorf("collect signals: %w", err)
	}
	merged := highlights.Merge(candidates)
	ranked := highlights.Rank(merged, in.MaxClips, in.Order)
	u.d.Log.Info().
		Int("candidates", len(candidates)).
		Int("merged", len(merged)).
		Int("selected", len(ranked)).
		Msg("highlights ranked")

	ranked = u.filterFaces(ctx, in, info, ranked)
	// total_duration in the summary is highlight time, not source time
	for _, h := range ranked {
		summary.TotalDuration += h.Duration()
	}

	events.State(u.d.Sink, "rendering")
	events.Progress(u.d.Sink, "render", 60, nil)
	segmenter := subtitles.NewSegmenter(in.Subtitle)
	assembler := clip.NewAssembler(u.d.Video, segmenter, u.d.Sink, u.d.Log)
	outcomes, err := assembler.Assemble(ctx, in.InputMP4, info, in.Assemble, ranked, segments)
	if err != nil {
		return summary, err
	}

	summary.Outcomes = outcomes
	for _, o := range outcomes {
		if o.Succeeded {
			summary.ClipsProduced++
		}
	}
	summary.Success = true
	events.Complete(u.d.Sink, summary.ClipsProduced, summary.ClipsRequested)
	return summary, nil
}

// filterFaces drops highlights without face presence. Any detector
// trouble keeps the unfiltered set so a missing or broken detector
// never costs clips.
func (u Usecase) filterFaces(ctx context.Context, in Input, info types.VideoInfo, ranked []types.MergedHighlight) []types.MergedHighlight {
	if !in.Face.Enabled || u.d.Faces == nil || len(ranked) == 0 {
		return ranked
	}
	events.State(u.d.Sink, "detecting_faces")

	probe, err := u.d.Faces.Open(ctx, in.InputMP4)
	if err != nil {
		u.d.Log.Warn().Err(err).Msg("face detector unavailable, keeping all highlights")
		return ranked
	}
	defer probe.Close()

	annotated, err := faces.New(in.Face).Annotate(ctx, probe, info.FPS, ranked)
	if err != nil {
		u.d.Log.Warn().Err(err).Msg("face probing failed, keeping all highlights")
		return ranked
	}
	kept, fellBack := faces.New(in.Face).Apply(annotated)
	if fellBack {
		u.d.Log.Warn().Msg("no highlight met the face threshold, keeping all")
	} else {
		u.d.Log.Info().Int("kept", len(kept)).Int("of", len(annotated)).Msg("face filter applied")
	}
	return kept
}

func (u Usecase) writeTranscript(outDir string, segments []types.TranscriptSegment) error {
	if len(segments) == 0 {
		return nil
	}
	path := filepath.Join(outDir, "transcript.srt")
	return os.WriteFile(path, []byte(subtitles.RenderTranscriptSRT(segments)), 0o644)
}

package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forPelevin/autoclip/internal/clip"
	"github.com/forPelevin/autoclip/internal/config"
	"github.com/forPelevin/autoclip/internal/domain/faces"
	"github.com/forPelevin/autoclip/internal/domain/highlights"
	"github.com/forPelevin/autoclip/internal/domain/signal"
	"github.com/forPelevin/autoclip/internal/domain/subtitles"
	"github.com/forPelevin/autoclip/internal/events"
	"github.com/forPelevin/autoclip/internal/ports"
	"github.com/forPelevin/autoclip/internal/ports/adapters/facedet"
	"github.com/forPelevin/autoclip/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/autoclip/internal/ports/adapters/wavfile"
	"github.com/forPelevin/autoclip/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/autoclip/internal/types"
	"github.com/forPelevin/autoclip/internal/usecase"
)

type Config struct {
	Input    string
	Settings config.Config

	// Order decides which highlights survive the clip cap. Nil keeps them
	// chronological.
	Order highlights.Less

	// EventWriter receives IPC_EVENT lines. Nil disables event emission.
	EventWriter io.Writer

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	return c.Settings.Validate()
}

// Run executes one full clipping session and returns its summary. The
// summary is also written to result.json inside the run output directory.
func Run(ctx context.Context, cfg Config) (types.RunSummary, error) {
	if err := cfg.Validate(); err != nil {
		return types.RunSummary{}, err
	}
	log := cfg.Log
	set := cfg.Settings

	sessionID := uuid.NewString()
	log = log.With().Str("session", sessionID).Logger()

	var sink events.Sink = events.Discard
	if cfg.EventWriter != nil {
		sink = events.NewEmitter(cfg.EventWriter, log)
	}

	// the cache is keyed by input path so a rerun of the same video
	// reuses its extracted audio
	cacheDir := filepath.Join(set.TempDir, "runs", hash(cfg.Input))
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return types.RunSummary{}, err
	}

	if err := os.MkdirAll(set.OutputDir, 0o755); err != nil {
		return types.RunSummary{}, err
	}
	lock := flock.New(filepath.Join(set.OutputDir, ".autoclip.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return types.RunSummary{}, fmt.Errorf("lock output dir: %w", err)
	}
	if !locked {
		return types.RunSummary{}, fmt.Errorf("another run is writing to %s", set.OutputDir)
	}
	defer lock.Unlock()

	runOutDir := buildRunOutDir(set.OutputDir, cfg.Input, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return types.RunSummary{}, err
	}
	log.Info().Str("out", runOutDir).Str("cache", cacheDir).Msg("workspace ready")

	video := ffmpeg.New(set.FFmpeg.FFmpegPath, set.FFmpeg.FFprobePath, ffmpeg.Encode{
		VideoCodec: set.FFmpeg.VideoCodec,
		Preset:     set.FFmpeg.Preset,
		CRF:        set.FFmpeg.CRF,
	})
	asr := whispercpp.New(set.Whisper.Bin, set.Whisper.Model)

	deps := usecase.Deps{
		Video: video,
		ASR:   asr,
		Audio: wavfile.New(),
		Sink:  sink,
		Log:   log,
	}
	if set.Face.Enabled {
		deps.Faces = facedet.New(set.Face.DetectorBin, video)
	}

	uc := usecase.New(deps)
	summary, err := uc.Run(ctx, usecase.Input{
		InputMP4: cfg.Input,
		OutDir:   runOutDir,
		CacheDir: cacheDir,
		MaxClips: set.MaxClips,
		Signal: signal.Config{
			EnergyThreshold:    set.Highlight.EnergyThreshold,
			SilenceThresholdDB: set.Highlight.SilenceThreshold,
			SilenceMinDuration: set.Highlight.SilenceMinDuration,
			ClipDuration:       set.ClipDuration,
			Keywords:           set.Highlight.Keywords,
		},
		Face: faces.Config{
			Enabled:           set.Face.Enabled,
			FrameSkip:         set.Face.FrameSkip,
			PresenceThreshold: set.Face.PresenceThreshold,
		},
		Subtitle: subtitles.Config{
			MaxWordsPerLine:   set.Subtitle.MaxWordsPerLine,
			HighlightKeywords: set.Subtitle.HighlightKeywords,
		},
		Assemble: clip.Options{
			ProjectName:      set.ProjectName,
			OutDir:           runOutDir,
			ClipDuration:     set.ClipDuration,
			CropEnabled:      set.EnableCrop,
			AspectRatio:      set.Crop.AspectRatio,
			TargetWidth:      set.Crop.TargetWidth,
			TargetHeight:     set.Crop.TargetHeight,
			SubtitlesEnabled: set.Subtitle.Enabled,
			SubtitleStyle: subtitles.Style{
				Uppercase: set.Subtitle.Uppercase,
				Position:  set.Subtitle.Position,
				Color:     set.Subtitle.Color,
			},
		},
		Order: cfg.Order,
	})
	if err != nil {
		events.Error(sink, err.Error())
		writeSummary(runOutDir, summary, log)
		return summary, err
	}

	writeSummary(runOutDir, summary, log)
	return summary, nil
}

func writeSummary(runOutDir string, summary types.RunSummary, log zerolog.Logger) {
	b, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("result not marshaled")
		return
	}
	path := filepath.Join(runOutDir, "result.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		log.Warn().Err(err).Msg("result not written")
		return
	}
	log.Info().Str("path", path).Msg("result written")
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.AudioSource = (*wavfile.Adapter)(nil)
var _ ports.FaceProbe = (*facedet.Adapter)(nil)

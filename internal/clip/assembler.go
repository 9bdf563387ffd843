// Package clip drives each highlight through the crop/fallback/subtitle
// decision sequence and produces final clip artifacts.
package clip

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forPelevin/autoclip/internal/domain/subtitles"
	"github.com/forPelevin/autoclip/internal/events"
	"github.com/forPelevin/autoclip/internal/ports"
	"github.com/forPelevin/autoclip/internal/types"
)

// Options is the per-run, immutable assembler configuration.
type Options struct {
	ProjectName  string
	OutDir       string
	ClipDuration float64

	CropEnabled  bool
	AspectRatio  string // e.g. "16:9"
	TargetWidth  int
	TargetHeight int

	SubtitlesEnabled bool
	SubtitleStyle    subtitles.Style
}

// Assembler renders one clip per highlight, degrading per item instead of
// aborting the run.
type Assembler struct {
	video     ports.VideoTool
	segmenter subtitles.Segmenter
	sink      events.Sink
	log       zerolog.Logger
}

func NewAssembler(video ports.VideoTool, segmenter subtitles.Segmenter, sink events.Sink, log zerolog.Logger) Assembler {
	if sink == nil {
		sink = events.Discard
	}
	return Assembler{video: video, segmenter: segmenter, sink: sink, log: log}
}

// Assemble processes highlights in order, one at a time. Every highlight
// yields exactly one outcome; a per-item failure is recorded and the loop
// continues.
func (a Assembler) Assemble(ctx context.Context, source string, info types.VideoInfo, opts Options, hs []types.MergedHighlight, segments []types.TranscriptSegment) ([]types.ClipOutcome, error) {
	outcomes := make([]types.ClipOutcome, 0, len(hs))
	for i, h := range hs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, a.assembleOne(ctx, source, info, opts, h, i+1, segments))
		events.Progress(a.sink, "creating_clips", (i+1)*100/len(hs), map[string]any{
			"current_clip": i + 1,
			"total_clips":  len(hs),
		})
	}
	return outcomes, nil
}

func (a Assembler) assembleOne(ctx context.Context, source string, info types.VideoInfo, opts Options, h types.MergedHighlight, number int, segments []types.TranscriptSegment) types.ClipOutcome {
	outcome := types.ClipOutcome{Index: number}

	duration := h.Duration()
	if opts.ClipDuration > 0 && duration > opts.ClipDuration {
		duration = opts.ClipDuration
	}

	filename := clipFilename(opts.ProjectName, number)
	finalPath := filepath.Join(opts.OutDir, filename)
	tempPath := filepath.Join(opts.OutDir, "temp_"+filename)

	rendered := false
	if opts.CropEnabled {
		events.Progress(a.sink, "cropping", 0, map[string]any{"aspect": opts.AspectRatio})
		crop, err := computeCrop(info, opts)
		if err == nil {
			err = a.video.RenderClip(ctx, source, h.Start, duration, tempPath, crop)
		}
		if err != nil {
			a.log.Warn().Int("clip", number).Err(err).Msg("cropped render failed, falling back to uncropped")
		} else {
			rendered = true
			outcome.UsedCrop = true
			events.Progress(a.sink, "cropping", 100, map[string]any{"aspect": opts.AspectRatio})
		}
	}

	if !rendered {
		if err := a.video.RenderClip(ctx, source, h.Start, duration, tempPath, nil); err != nil {
			a.log.Error().Int("clip", number).Err(err).Msg("clip render failed")
			events.Error(a.sink, fmt.Sprintf("Failed to create clip %d: %v", number, err))
			removeIfExists(tempPath)
			return outcome
		}
	}

	if opts.SubtitlesEnabled {
		a.burnOrPromote(ctx, opts, h, duration, number, segments, tempPath, finalPath, &outcome)
	} else {
		if err := os.Rename(tempPath, finalPath); err != nil {
			a.log.Error().Int("clip", number).Err(err).Msg("promote clip failed")
			events.Error(a.sink, fmt.Sprintf("Failed to create clip %d: %v", number, err))
			removeIfExists(tempPath)
			return outcome
		}
	}
	removeIfExists(tempPath)

	if _, err := os.Stat(finalPath); err != nil {
		// Promotion must leave a readable final artifact; anything else is a
		// per-item failure.
		events.Error(a.sink, fmt.Sprintf("Failed to create clip %d: missing artifact", number))
		return outcome
	}

	outcome.Succeeded = true
	outcome.Path = finalPath
	events.Clip(a.sink, finalPath, int(duration))
	return outcome
}

// burnOrPromote runs the subtitle stage: no phrases promotes the temp
// artifact unchanged; a burn failure promotes the un-burned artifact rather
// than dropping the clip.
func (a Assembler) burnOrPromote(ctx context.Context, opts Options, h types.MergedHighlight, duration float64, number int, segments []types.TranscriptSegment, tempPath, finalPath string, outcome *types.ClipOutcome) {
	clipStart := h.Start
	clipEnd := h.Start + duration
	phrases := a.segmenter.PhrasesForClip(segments, clipStart, clipEnd)
	if len(phrases) == 0 {
		if err := os.Rename(tempPath, finalPath); err != nil {
			a.log.Error().Int("clip", number).Err(err).Msg("promote clip failed")
		}
		return
	}

	srtPath := strings.TrimSuffix(finalPath, filepath.Ext(finalPath)) + ".srt"
	srt := subtitles.RenderClipSRT(phrases, clipStart, opts.SubtitleStyle)
	if err := os.WriteFile(srtPath, []byte(srt), 0o644); err != nil {
		a.log.Warn().Int("clip", number).Err(err).Msg("write clip subtitles failed, keeping plain clip")
		_ = os.Rename(tempPath, finalPath)
		return
	}

	burnTemp := filepath.Join(filepath.Dir(finalPath), "temp_sub_"+filepath.Base(finalPath))
	style := ports.BurnStyle{Position: opts.SubtitleStyle.Position, Color: opts.SubtitleStyle.Color}
	if err := a.video.BurnSubtitles(ctx, tempPath, burnTemp, srtPath, style); err != nil {
		a.log.Warn().Int("clip", number).Err(err).Msg("subtitle burn failed, keeping plain clip")
		removeIfExists(burnTemp)
		_ = os.Rename(tempPath, finalPath)
		return
	}
	if err := os.Rename(burnTemp, finalPath); err != nil {
		a.log.Warn().Int("clip", number).Err(err).Msg("promote burned clip failed, keeping plain clip")
		removeIfExists(burnTemp)
		_ = os.Rename(tempPath, finalPath)
		return
	}
	outcome.UsedSubtitles = true
	a.sink.Publish(events.Event{Type: events.TypeSubtitle, Clip: finalPath, Subtitle: srtPath})
}

// computeCrop centers a target-aspect crop inside the source frame: a wider
// source loses width, a taller one loses height.
func computeCrop(info types.VideoInfo, opts Options) (*ports.CropSpec, error) {
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("unknown source dimensions %dx%d", info.Width, info.Height)
	}
	targetRatio, err := parseAspect(opts.AspectRatio)
	if err != nil {
		return nil, err
	}

	w, h := info.Width, info.Height
	cropW, cropH := w, h
	if float64(w)/float64(h) > targetRatio {
		cropW = int(math.Round(float64(h) * targetRatio))
	} else {
		cropH = int(math.Round(float64(w) / targetRatio))
	}
	return &ports.CropSpec{
		X:            (w - cropW) / 2,
		Y:            (h - cropH) / 2,
		Width:        cropW,
		Height:       cropH,
		TargetWidth:  opts.TargetWidth,
		TargetHeight: opts.TargetHeight,
	}, nil
}

func parseAspect(s string) (float64, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid aspect ratio %q: %w", s, err)
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0, fmt.Errorf("invalid aspect ratio %q", s)
	}
	return num / den, nil
}

func removeIfExists(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
}

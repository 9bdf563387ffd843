package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/forPelevin/autoclip/internal/ports"
	"github.com/forPelevin/autoclip/internal/types"
)

// Encode knobs passed straight through to the encoder invocation.
type Encode struct {
	VideoCodec string
	Preset     string
	CRF        int
}

func (e Encode) withDefaults() Encode {
	if e.VideoCodec == "" {
		e.VideoCodec = "libx264"
	}
	if e.Preset == "" {
		e.Preset = "fast"
	}
	if e.CRF <= 0 {
		e.CRF = 23
	}
	return e
}

type Adapter struct {
	ffmpeg  string
	ffprobe string
	enc     Encode
}

func New(ffmpegPath, ffprobePath string, enc Encode) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, enc: enc.withDefaults()}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, inVideo, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inVideo,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// probePayload is the subset of ffprobe -print_format json output we read.
type probePayload struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (a *Adapter) Probe(ctx context.Context, inVideo string) (types.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_streams",
		"-show_format",
		"-print_format", "json",
		inVideo,
	)
	b, err := cmd.Output()
	if err != nil {
		return types.VideoInfo{}, fmt.Errorf("ffprobe %s: %w", inVideo, err)
	}

	var p probePayload
	if err := json.Unmarshal(b, &p); err != nil {
		return types.VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := types.VideoInfo{}
	if p.Format.Duration != "" {
		if d, err := strconv.ParseFloat(p.Format.Duration, 64); err == nil {
			info.Duration = d
		}
	}
	for _, s := range p.Streams {
		if s.CodecType != "video" {
			continue
		}
		info.Width = s.Width
		info.Height = s.Height
		info.FPS = parseFrameRate(s.AvgFrameRate)
		break
	}
	if info.Width == 0 || info.Height == 0 {
		return types.VideoInfo{}, fmt.Errorf("no video stream in %s", inVideo)
	}
	return info, nil
}

func (a *Adapter) RenderClip(ctx context.Context, inVideo string, start, duration float64, outVideo string, crop *ports.CropSpec) error {
	args := []string{
		"-y",
		"-ss", fmtSeconds(start),
		"-t", fmtSeconds(duration),
		"-i", inVideo,
	}
	if crop != nil {
		vf := fmt.Sprintf(
			"crop=%d:%d:%d:%d,scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2",
			crop.Width, crop.Height, crop.X, crop.Y,
			crop.TargetWidth, crop.TargetHeight,
			crop.TargetWidth, crop.TargetHeight,
		)
		args = append(args, "-vf", vf)
	}
	args = append(args, a.encodeArgs()...)
	args = append(args, outVideo)

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg render clip: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) BurnSubtitles(ctx context.Context, inVideo, outVideo, srtPath string, style ports.BurnStyle) error {
	vf := "subtitles=" + escapeFilterPath(srtPath) + ":force_style='" + forceStyle(style) + "'"
	args := []string{
		"-y",
		"-i", inVideo,
		"-vf", vf,
	}
	args = append(args, a.encodeArgs()...)
	args = append(args, outVideo)

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg burn subtitles: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) ExtractFrame(ctx context.Context, inVideo string, at float64, outImage string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(at),
		"-i", inVideo,
		"-frames:v", "1",
		"-q:v", "3",
		outImage,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract frame: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) encodeArgs() []string {
	return []string{
		"-c:v", a.enc.VideoCodec,
		"-preset", a.enc.Preset,
		"-crf", strconv.Itoa(a.enc.CRF),
		"-c:a", "aac",
	}
}

func forceStyle(style ports.BurnStyle) string {
	size := style.FontSize
	if size <= 0 {
		size = 24
	}
	alignment := 2 // bottom center
	if style.Position == "center" {
		alignment = 5
	}
	s := fmt.Sprintf("Fontsize=%d,Alignment=%d,Outline=2", size, alignment)
	if c, ok := styleColors[style.Color]; ok {
		s += ",PrimaryColour=" + c
	}
	return s
}

// ASS BGR colour values for the supported subtitle colours.
var styleColors = map[string]string{
	"white":  "&H00FFFFFF",
	"yellow": "&H0000FFFF",
	"cyan":   "&H00FFFF00",
}

func parseFrameRate(s string) float64 {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}

// Package config holds the validated run configuration. Every recognized
// option lives on an explicit struct with a documented default; unknown
// keys in the config file are rejected at load time.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full configuration surface.
type Config struct {
	ProjectName  string  `toml:"project_name"`
	OutputDir    string  `toml:"output_dir"`
	TempDir      string  `toml:"temp_dir"`
	MaxClips     int     `toml:"max_clips"`
	ClipDuration float64 `toml:"clip_duration"`
	EnableCrop   bool    `toml:"enable_crop"`

	Highlight Highlight `toml:"highlight"`
	Crop      Crop      `toml:"crop"`
	Face      Face      `toml:"face_detection"`
	Subtitle  Subtitle  `toml:"subtitle"`
	FFmpeg    FFmpeg    `toml:"ffmpeg"`
	Whisper   Whisper   `toml:"whisper"`
}

// Highlight holds the detector thresholds.
type Highlight struct {
	EnergyThreshold    float64  `toml:"energy_threshold"`
	SilenceThreshold   float64  `toml:"silence_threshold"`
	SilenceMinDuration float64  `toml:"silence_min_duration"`
	Keywords           []string `toml:"keywords"`
}

// Crop holds the target frame for the enhanced render.
type Crop struct {
	AspectRatio  string `toml:"aspect_ratio"`
	TargetWidth  int    `toml:"target_width"`
	TargetHeight int    `toml:"target_height"`
}

// Face holds the face presence filter settings.
type Face struct {
	Enabled           bool    `toml:"enabled"`
	DetectorBin       string  `toml:"detector_bin"`
	FrameSkip         int     `toml:"frame_skip"`
	PresenceThreshold float64 `toml:"presence_threshold"`
}

// Subtitle holds the phrase construction and burn style knobs.
type Subtitle struct {
	Enabled           bool     `toml:"enabled"`
	Position          string   `toml:"position"`
	Color             string   `toml:"color"`
	Uppercase         bool     `toml:"uppercase"`
	MaxWordsPerLine   int      `toml:"max_words_per_line"`
	HighlightKeywords []string `toml:"highlight_keywords"`
}

// FFmpeg holds tool paths and encode settings.
type FFmpeg struct {
	FFmpegPath  string `toml:"ffmpeg_path"`
	FFprobePath string `toml:"ffprobe_path"`
	VideoCodec  string `toml:"video_codec"`
	Preset      string `toml:"preset"`
	CRF         int    `toml:"crf"`
}

// Whisper holds the transcription tool location.
type Whisper struct {
	Bin   string `toml:"bin"`
	Model string `toml:"model"`
}

// Default returns the configuration used when no file overrides anything.
func Default() Config {
	return Config{
		ProjectName:  "Untitled",
		OutputDir:    "output",
		TempDir:      ".cache",
		MaxClips:     5,
		ClipDuration: 30,
		EnableCrop:   true,
		Highlight: Highlight{
			EnergyThreshold:    0.8,
			SilenceThreshold:   20,
			SilenceMinDuration: 2.0,
			Keywords:           []string{"wow", "amazing", "incredible", "awesome"},
		},
		Crop: Crop{
			AspectRatio:  "16:9",
			TargetWidth:  1920,
			TargetHeight: 1080,
		},
		Face: Face{
			Enabled:           true,
			FrameSkip:         10,
			PresenceThreshold: 0.3,
		},
		Subtitle: Subtitle{
			Enabled:         true,
			Position:        "center",
			Color:           "white",
			Uppercase:       true,
			MaxWordsPerLine: 6,
			HighlightKeywords: []string{
				"wow", "amazing", "incredible", "awesome", "brilliant",
			},
		},
		FFmpeg: FFmpeg{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
			VideoCodec:  "libx264",
			Preset:      "fast",
			CRF:         23,
		},
		Whisper: Whisper{
			Bin:   ".cache/bin/whisper.cpp",
			Model: ".cache/models/ggml-base.bin",
		},
	}
}

// Load reads path over the defaults. A missing file is fine when optional
// is true; unknown keys are always an error.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config %s has unrecognized keys:\n%s", path, strict.String())
		}
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/forPelevin/autoclip/internal/config"
	"github.com/forPelevin/autoclip/internal/domain/highlights"
	"github.com/forPelevin/autoclip/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	applyEnv(&cfg)
	if err := applyFlags(cmd, &cfg); err != nil {
		return err
	}

	order := highlights.Chronological
	if rank, _ := cmd.Flags().GetString("rank"); rank == "confidence" {
		order = highlights.ByConfidence
	} else if rank != "chronological" {
		return fmt.Errorf("unknown rank %q (want chronological or confidence)", rank)
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := newLogger(os.Stderr, verbose)

	var eventWriter io.Writer
	if emit, _ := cmd.Flags().GetBool("events"); emit {
		eventWriter = os.Stdout
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	pcfg := pipeline.Config{
		Input:       absIn,
		Settings:    cfg,
		Order:       order,
		EventWriter: eventWriter,
		Log:         log,
	}
	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	summary, err := pipeline.Run(ctx, pcfg)
	if err != nil {
		return err
	}
	printSummary(os.Stdout, summary)
	return nil
}

func applyEnv(cfg *config.Config) {
	cfg.Whisper.Bin = getenvDefault("AUTOCLIP_WHISPER_BIN", cfg.Whisper.Bin)
	cfg.Whisper.Model = getenvDefault("AUTOCLIP_WHISPER_MODEL", cfg.Whisper.Model)
	cfg.FFmpeg.FFmpegPath = getenvDefault("AUTOCLIP_FFMPEG", cfg.FFmpeg.FFmpegPath)
	cfg.FFmpeg.FFprobePath = getenvDefault("AUTOCLIP_FFPROBE", cfg.FFmpeg.FFprobePath)
	cfg.Face.DetectorBin = getenvDefault("AUTOCLIP_FACE_DETECTOR", cfg.Face.DetectorBin)
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("out") {
		cfg.OutputDir, _ = f.GetString("out")
	}
	if f.Changed("project-name") {
		cfg.ProjectName, _ = f.GetString("project-name")
	}
	if f.Changed("clips") {
		cfg.MaxClips, _ = f.GetInt("clips")
	}
	if f.Changed("clip-duration") {
		cfg.ClipDuration, _ = f.GetFloat64("clip-duration")
	}
	if f.Changed("crop") {
		cfg.EnableCrop, _ = f.GetBool("crop")
	}
	if f.Changed("subtitles") {
		cfg.Subtitle.Enabled, _ = f.GetBool("subtitles")
	}
	if f.Changed("energy-threshold") {
		cfg.Highlight.EnergyThreshold, _ = f.GetFloat64("energy-threshold")
	}
	if f.Changed("frame-skip") {
		cfg.Face.FrameSkip, _ = f.GetInt("frame-skip")
	}
	if f.Changed("quality") {
		quality, _ := f.GetString("quality")
		if err := cfg.ApplyQuality(quality); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(w *os.File, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	var out io.Writer = w
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

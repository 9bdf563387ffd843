package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "autoclip <input>",
		Short:        "Cut highlight clips from a local video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("config", "autoclip.toml", "Config file")
	root.Flags().String("out", "", "Output directory")
	root.Flags().String("project-name", "", "Project name used in clip filenames")
	root.Flags().Int("clips", 0, "Maximum number of clips")
	root.Flags().Float64("clip-duration", 0, "Maximum clip duration seconds")
	root.Flags().Bool("crop", true, "Crop clips to the target aspect ratio")
	root.Flags().Bool("subtitles", true, "Burn subtitles into clips")
	root.Flags().String("quality", "", "Encode quality: draft, balanced or high")
	root.Flags().String("rank", "chronological", "Highlight ranking: chronological or confidence")
	root.Flags().Bool("events", false, "Emit machine-readable progress events on stdout")
	root.Flags().BoolP("verbose", "v", false, "Debug logging")

	// Hidden tuning flags (internal)
	root.Flags().Float64("energy-threshold", 0, "Energy peak threshold")
	_ = root.Flags().MarkHidden("energy-threshold")
	root.Flags().Int("frame-skip", 0, "Face detection frame stride")
	_ = root.Flags().MarkHidden("frame-skip")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

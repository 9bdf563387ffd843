package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"github.com/forPelevin/autoclip/internal/types"
)

func printSummary(w io.Writer, s types.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		t.SetStyle(table.StyleColoredBright)
	} else {
		t.SetStyle(table.StyleLight)
	}

	t.AppendHeader(table.Row{"#", "Clip", "Status", "Crop", "Subtitles"})
	for _, o := range s.Outcomes {
		status := "ok"
		if !o.Succeeded {
			status = "failed"
		}
		name := "-"
		if o.Path != "" {
			name = filepath.Base(o.Path)
		}
		t.AppendRow(table.Row{
			o.Index,
			name,
			status,
			yesNo(o.UsedCrop),
			yesNo(o.UsedSubtitles),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d/%d clips", s.ClipsProduced, s.ClipsRequested), "", "", ""})
	t.Render()

	fmt.Fprintf(w, "output: %s\n", s.OutputDir)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

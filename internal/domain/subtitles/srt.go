package subtitles

import (
	"fmt"
	"strings"

	"github.com/forPelevin/autoclip/internal/types"
)

// Style carries the display options applied when phrases are rendered or
// burned.
type Style struct {
	Uppercase bool
	Position  string // "center" or "bottom"
	Color     string // "white", "yellow" or "cyan"
}

// RenderClipSRT renders phrases as an SRT document rebased to clip-local
// time. The burn step runs on the already-trimmed clip, so event times are
// offsets from clipStart, not source timestamps.
func RenderClipSRT(phrases []types.SubtitlePhrase, clipStart float64, style Style) string {
	var b strings.Builder
	for i, p := range phrases {
		text := sanitize(p.Text)
		if style.Uppercase {
			text = strings.ToUpper(text)
		}
		writeCue(&b, i+1, p.Start-clipStart, p.End-clipStart, text)
	}
	return b.String()
}

// RenderTranscriptSRT renders the full transcript as a sidecar SRT on the
// source timeline.
func RenderTranscriptSRT(segments []types.TranscriptSegment) string {
	var b strings.Builder
	for i, seg := range segments {
		text := sanitize(seg.Text)
		if text == "" {
			continue
		}
		writeCue(&b, i+1, seg.Start, seg.End, text)
	}
	return b.String()
}

func writeCue(b *strings.Builder, index int, start, end float64, text string) {
	b.WriteString(fmt.Sprintf("%d\n", index))
	b.WriteString(srtTime(start))
	b.WriteString(" --> ")
	b.WriteString(srtTime(end))
	b.WriteString("\n")
	b.WriteString(text)
	b.WriteString("\n\n")
}

func srtTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	ms := int(sec*1000 + 0.5)
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}

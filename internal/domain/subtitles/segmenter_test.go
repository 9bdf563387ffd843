package subtitles

import (
	"strings"
	"testing"

	"github.com/forPelevin/autoclip/internal/types"
)

func TestPhrasesForClip_SentenceSplitScenario(t *testing.T) {
	t.Parallel()

	s := NewSegmenter(Config{MaxWordsPerLine: 6, HighlightKeywords: []string{"amazing"}})
	seg := types.TranscriptSegment{Start: 0, End: 6, Text: "This is amazing. It really is."}

	got := s.splitSegment(seg)
	if len(got) != 2 {
		t.Fatalf("expected 2 phrases split at the sentence boundary, got %d: %+v", len(got), got)
	}
	for _, p := range got {
		if n := len(strings.Fields(p.Text)); n > 6 {
			t.Fatalf("phrase exceeds word limit: %q (%d words)", p.Text, n)
		}
	}
	if !strings.Contains(got[0].Text, "amazing") || !s.isHighlightText(got[0].Text) {
		t.Fatalf("first phrase should contain and flag the keyword: %+v", got[0])
	}
	if s.isHighlightText(got[1].Text) {
		t.Fatalf("second phrase should not be flagged: %+v", got[1])
	}
}

func TestPhrasesForClip_LongSentenceChunking(t *testing.T) {
	t.Parallel()

	s := NewSegmenter(Config{MaxWordsPerLine: 3})
	// 9 words > 2*3, so the sentence chunks into groups of 3 with
	// proportional timing: 9 words over 9 seconds is 1s per word.
	seg := types.TranscriptSegment{Start: 10, End: 19, Text: "one two three four five six seven eight nine"}

	got := s.splitSegment(seg)
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(got), got)
	}
	for i, p := range got {
		if n := len(strings.Fields(p.Text)); n != 3 {
			t.Fatalf("chunk %d has %d words: %q", i, n, p.Text)
		}
		if dur := p.End - p.Start; dur < 2.9 || dur > 3.1 {
			t.Fatalf("chunk %d duration %v, want ~3s", i, dur)
		}
	}
	if got[0].Start != 10 {
		t.Fatalf("chunks start at the segment start, got %v", got[0].Start)
	}
	if got[1].Start != got[0].End || got[2].Start != got[1].End {
		t.Fatalf("chunks not back-to-back: %+v", got)
	}
}

func TestPhrasesForClip_WindowBounds(t *testing.T) {
	t.Parallel()

	s := NewSegmenter(Config{})
	segs := []types.TranscriptSegment{
		{Start: 4.8, End: 7, Text: "Inside with tolerance."},
		{Start: 20, End: 25, Text: "Far outside the window."},
		{Start: 9.8, End: 10.1, Text: "Clamps to a sliver."},
	}

	clipStart, clipEnd := 5.0, 10.0
	got := s.PhrasesForClip(segs, clipStart, clipEnd)
	if len(got) == 0 {
		t.Fatalf("expected phrases from the in-window segment")
	}
	for _, p := range got {
		if p.Start < clipStart || p.End > clipEnd {
			t.Fatalf("phrase outside clip window: %+v", p)
		}
		if p.End-p.Start < 0.5 {
			t.Fatalf("phrase shorter than minimum display duration: %+v", p)
		}
		if strings.Contains(p.Text, "outside") || strings.Contains(p.Text, "sliver") {
			t.Fatalf("unexpected phrase selected: %+v", p)
		}
	}
}

func TestPhrasesForClip_MergesClosePhrases(t *testing.T) {
	t.Parallel()

	s := NewSegmenter(Config{HighlightKeywords: []string{"wow"}})
	// Two short sentences in one segment produce adjacent phrases with zero
	// gap; the merge pass joins them and ORs the highlight flags.
	segs := []types.TranscriptSegment{
		{Start: 0, End: 4, Text: "Plain start. Then wow."},
	}

	got := s.PhrasesForClip(segs, 0, 10)
	if len(got) != 1 {
		t.Fatalf("expected near-adjacent phrases to merge, got %d: %+v", len(got), got)
	}
	if !strings.Contains(got[0].Text, "Plain start.") || !strings.Contains(got[0].Text, "wow") {
		t.Fatalf("merged text lost content: %q", got[0].Text)
	}
	if !got[0].IsHighlightText {
		t.Fatalf("merged phrase should inherit the highlight flag")
	}
}

func TestPhrasesForClip_CapsShortSentenceDuration(t *testing.T) {
	t.Parallel()

	s := NewSegmenter(Config{})
	segs := []types.TranscriptSegment{
		{Start: 0, End: 10, Text: "Short line!"},
	}
	got := s.PhrasesForClip(segs, 0, 10)
	if len(got) != 1 {
		t.Fatalf("expected one phrase, got %d", len(got))
	}
	if dur := got[0].End - got[0].Start; dur != 2.5 {
		t.Fatalf("expected 2.5s cap, got %v", dur)
	}
}

func TestRenderClipSRT_RebasesToClipTime(t *testing.T) {
	t.Parallel()

	srt := RenderClipSRT([]types.SubtitlePhrase{
		{Text: "hello there", Start: 62.0, End: 64.5},
	}, 60, Style{Uppercase: true})

	want := "1\n00:00:02,000 --> 00:00:04,500\nHELLO THERE\n\n"
	if srt != want {
		t.Fatalf("unexpected SRT:\n%q\nwant:\n%q", srt, want)
	}
}

func TestRenderTranscriptSRT(t *testing.T) {
	t.Parallel()

	srt := RenderTranscriptSRT([]types.TranscriptSegment{
		{Start: 0, End: 1.25, Text: "first"},
		{Start: 1.5, End: 3, Text: "second"},
	})
	if !strings.HasPrefix(srt, "1\n00:00:00,000 --> 00:00:01,250\nfirst\n") {
		t.Fatalf("unexpected SRT head:\n%q", srt)
	}
	if !strings.Contains(srt, "\n2\n00:00:01,500 --> 00:00:03,000\nsecond\n") {
		t.Fatalf("unexpected SRT body:\n%q", srt)
	}
}

// Package subtitles converts transcript segments into short, timed display
// phrases windowed to a clip, and renders them as SRT.
package subtitles

import (
	"regexp"
	"strings"

	"github.com/forPelevin/autoclip/internal/types"
)

const (
	// selectionTolerance widens the clip window when picking segments, so a
	// sentence straddling the cut by a beat still gets subtitles.
	selectionTolerance = 0.5
	// maxPhraseDuration caps a single short-sentence phrase on screen.
	maxPhraseDuration = 2.5
	// minPhraseDuration drops phrases whose clamped display span is too
	// short to read.
	minPhraseDuration = 0.5
	// mergeGap joins phrases separated by less than this many seconds.
	mergeGap = 0.3
)

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Config holds the display knobs for phrase construction.
type Config struct {
	// MaxWordsPerLine bounds chunk size when long sentences are split.
	// Default 6.
	MaxWordsPerLine int
	// HighlightKeywords flag phrases for emphasized styling.
	HighlightKeywords []string
}

func (c Config) withDefaults() Config {
	if c.MaxWordsPerLine <= 0 {
		c.MaxWordsPerLine = 6
	}
	return c
}

// Segmenter builds the subtitle phrases for one clip window.
type Segmenter struct {
	cfg Config
}

func NewSegmenter(cfg Config) Segmenter {
	return Segmenter{cfg: cfg.withDefaults()}
}

// PhrasesForClip returns the merged phrase list for [clipStart, clipEnd].
// Every returned phrase lies inside the window and displays for at least
// half a second. Phrase times stay on the source timeline; the SRT writer
// rebases them per clip.
func (s Segmenter) PhrasesForClip(segments []types.TranscriptSegment, clipStart, clipEnd float64) []types.SubtitlePhrase {
	var phrases []types.SubtitlePhrase
	for _, seg := range segments {
		if seg.Start < clipStart-selectionTolerance || seg.End > clipEnd+selectionTolerance {
			continue
		}
		for _, p := range s.splitSegment(seg) {
			start := p.Start
			end := p.End
			if start < clipStart {
				start = clipStart
			}
			if end > clipEnd {
				end = clipEnd
			}
			if end-start < minPhraseDuration {
				continue
			}
			phrases = append(phrases, types.SubtitlePhrase{
				Text:            p.Text,
				Start:           start,
				End:             end,
				IsHighlightText: s.isHighlightText(p.Text),
			})
		}
	}
	return mergeClose(phrases)
}

// splitSegment breaks one segment's text into timed phrases: sentences
// first, then word chunks for sentences longer than twice the line limit.
func (s Segmenter) splitSegment(seg types.TranscriptSegment) []types.SubtitlePhrase {
	sentences := splitSentences(seg.Text)
	if len(sentences) == 0 {
		return nil
	}

	var out []types.SubtitlePhrase
	current := seg.Start
	for _, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) > 2*s.cfg.MaxWordsPerLine {
			perWord := (seg.End - seg.Start) / float64(len(words))
			for i := 0; i < len(words); i += s.cfg.MaxWordsPerLine {
				j := i + s.cfg.MaxWordsPerLine
				if j > len(words) {
					j = len(words)
				}
				end := current + float64(j-i)*perWord
				out = append(out, types.SubtitlePhrase{
					Text:  strings.Join(words[i:j], " "),
					Start: current,
					End:   end,
				})
				current = end
			}
			continue
		}

		dur := seg.End - current
		if dur > maxPhraseDuration {
			dur = maxPhraseDuration
		}
		out = append(out, types.SubtitlePhrase{
			Text:  sentence,
			Start: current,
			End:   current + dur,
		})
		current += dur
	}
	return out
}

// splitSentences cuts on sentence-ending punctuation, keeping the
// punctuation attached to its sentence. Trailing text without terminal
// punctuation still forms a sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		sentence := strings.TrimSpace(text[last:loc[1]])
		if strings.Trim(sentence, ".!? ") != "" {
			out = append(out, sentence)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func (s Segmenter) isHighlightText(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range s.cfg.HighlightKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// mergeClose concatenates phrases whose gap to the previous merged phrase is
// under mergeGap seconds. The merged flag is the OR of both.
func mergeClose(phrases []types.SubtitlePhrase) []types.SubtitlePhrase {
	if len(phrases) == 0 {
		return nil
	}
	merged := []types.SubtitlePhrase{phrases[0]}
	for _, cur := range phrases[1:] {
		last := &merged[len(merged)-1]
		if cur.Start-last.End < mergeGap {
			last.Text += " " + cur.Text
			if cur.End > last.End {
				last.End = cur.End
			}
			last.IsHighlightText = last.IsHighlightText || cur.IsHighlightText
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

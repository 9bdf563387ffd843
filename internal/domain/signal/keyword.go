package signal

import (
	"strings"

	"github.com/forPelevin/autoclip/internal/types"
)

// defaultKeywordConfidence is used when the transcription collaborator did
// not report a usable segment confidence.
const defaultKeywordConfidence = 0.8

// detectKeywords emits one candidate per segment whose lowercased text
// contains a configured keyword. Only the first matching keyword counts, so
// a segment never contributes twice.
func detectKeywords(segments []types.TranscriptSegment, keywords []string) []types.CandidateInterval {
	var out []types.CandidateInterval
	for _, seg := range segments {
		text := strings.ToLower(seg.Text)
		for _, kw := range keywords {
			if kw == "" || !strings.Contains(text, strings.ToLower(kw)) {
				continue
			}
			conf := seg.Confidence
			if conf <= 0 || conf > 1 {
				conf = defaultKeywordConfidence
			}
			out = append(out, types.CandidateInterval{
				Start:      seg.Start,
				End:        seg.End,
				Kind:       types.KindKeyword,
				Confidence: conf,
				Keyword:    kw,
			})
			break
		}
	}
	return out
}

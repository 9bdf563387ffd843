package highlights

import (
	"sort"

	"github.com/forPelevin/autoclip/internal/types"
)

// Less orders two highlights for ranking; the "smaller" highlight ranks
// higher.
type Less func(a, b types.MergedHighlight) bool

// Chronological is the default ranking: earlier-occurring highlights win,
// even over later ones with higher confidence. This mirrors how the merged
// set is consumed downstream and is a policy, not an accident.
func Chronological(a, b types.MergedHighlight) bool { return a.Start < b.Start }

// ByConfidence ranks higher-confidence highlights first, breaking ties
// chronologically.
func ByConfidence(a, b types.MergedHighlight) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.Start < b.Start
}

// Rank sorts the merged set by the comparator (Chronological when nil) and
// truncates it to at most maxClips entries.
func Rank(merged []types.MergedHighlight, maxClips int, less Less) []types.MergedHighlight {
	if less == nil {
		less = Chronological
	}
	out := make([]types.MergedHighlight, len(merged))
	copy(out, merged)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if maxClips > 0 && len(out) > maxClips {
		out = out[:maxClips]
	}
	return out
}

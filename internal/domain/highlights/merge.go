// Package highlights reconciles raw detector candidates into the final
// ranked highlight set.
package highlights

import (
	"sort"

	"github.com/forPelevin/autoclip/internal/types"
)

// Merge folds overlapping candidate intervals into a minimal non-overlapping
// set, sorted by start. Touching intervals (candidate.start == last.end)
// merge too; the tie-break is deliberately inclusive so back-to-back
// detector hits become one highlight. A merged highlight carries the max
// confidence over its contributors and their kind tags in arrival order.
func Merge(candidates []types.CandidateInterval) []types.MergedHighlight {
	if len(candidates) == 0 {
		return nil
	}

	sorted := make([]types.CandidateInterval, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []types.MergedHighlight{{
		Start:      sorted[0].Start,
		End:        sorted[0].End,
		Confidence: sorted[0].Confidence,
		Kinds:      []types.Kind{sorted[0].Kind},
	}}

	for _, cand := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cand.Start <= last.End {
			if cand.End > last.End {
				last.End = cand.End
			}
			if cand.Confidence > last.Confidence {
				last.Confidence = cand.Confidence
			}
			last.Kinds = append(last.Kinds, cand.Kind)
			continue
		}
		merged = append(merged, types.MergedHighlight{
			Start:      cand.Start,
			End:        cand.End,
			Confidence: cand.Confidence,
			Kinds:      []types.Kind{cand.Kind},
		})
	}
	return merged
}

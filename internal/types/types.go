package types

// Kind tags which detector contributed a candidate interval.
type Kind string

const (
	KindEnergy     Kind = "energy"
	KindKeyword    Kind = "keyword"
	KindSilenceGap Kind = "silence_gap"
)

// TranscriptSegment is one timed line of the transcription collaborator's
// output. Times are seconds from the start of the source video.
type TranscriptSegment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// CandidateInterval is a raw, single-detector time span before merging.
type CandidateInterval struct {
	Start      float64
	End        float64
	Kind       Kind
	Confidence float64

	// Keyword is set only for keyword candidates: the first configured
	// keyword that matched the segment.
	Keyword string
	// GapDuration is set only for silence-gap candidates.
	GapDuration float64
}

// MergedHighlight is a merged, ranked, possibly face-annotated interval
// selected for clip production. Within one merged set, highlights are
// pairwise non-overlapping and sorted by start.
type MergedHighlight struct {
	Start      float64
	End        float64
	Confidence float64
	Kinds      []Kind

	FacePresent bool
	FaceRatio   float64
}

func (h MergedHighlight) Duration() float64 { return h.End - h.Start }

// SubtitlePhrase is one timed, displayable subtitle unit windowed to a
// single clip.
type SubtitlePhrase struct {
	Text            string
	Start           float64
	End             float64
	IsHighlightText bool
}

// ClipOutcome records the terminal state of one highlight in the assembler.
// A succeeded outcome always points at an existing final artifact; a failed
// one has no path.
type ClipOutcome struct {
	Index         int    `json:"index"`
	Path          string `json:"path,omitempty"`
	Succeeded     bool   `json:"succeeded"`
	UsedCrop      bool   `json:"used_crop"`
	UsedSubtitles bool   `json:"used_subtitles"`
}

// Waveform is the sampled audio the signal detectors run over, as produced
// by the audio feature source.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// VideoInfo is what the encoder's probe reports about a source file.
type VideoInfo struct {
	Duration float64
	Width    int
	Height   int
	FPS      float64
}

// RunSummary is the run-level artifact written next to the clips.
type RunSummary struct {
	Success        bool          `json:"success"`
	Input          string        `json:"input"`
	OutputDir      string        `json:"output_dir"`
	ClipsRequested int           `json:"clips_requested"`
	ClipsProduced  int           `json:"clips_produced"`
	TotalDuration  float64       `json:"total_duration"`
	Outcomes       []ClipOutcome `json:"outcomes"`
}

// Package events is the pipeline's sole reporting channel: stages publish
// typed records to a Sink instead of writing to a shared output stream.
package events

import "encoding/json"

// Type discriminates event records on the wire.
type Type string

const (
	TypeProgress Type = "progress"
	TypeLog      Type = "log"
	TypeError    Type = "error"
	TypeClip     Type = "clip"
	TypeSubtitle Type = "subtitle"
	TypeState    Type = "state"
	TypeComplete Type = "complete"
)

// Event is one structured progress/log/error/state record.
type Event struct {
	Type Type `json:"type"`

	// Progress fields.
	Stage   string `json:"step,omitempty"`
	Percent int    `json:"percent,omitempty"`

	// Log / error fields.
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`

	// Clip fields.
	File     string `json:"file,omitempty"`
	Duration int    `json:"duration,omitempty"`

	// Subtitle fields.
	Clip     string `json:"clip,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`

	// State / complete fields.
	Status     string `json:"status,omitempty"`
	TotalClips int    `json:"total_clips,omitempty"`

	// Stage-specific extras (aspect ratio, current clip, counts, ...).
	// Serialized as top-level keys, not as a nested object.
	Fields map[string]any `json:"-"`
}

// MarshalJSON flattens Fields into the top-level object. Named struct
// fields win on key collisions.
func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	b, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	if len(e.Fields) == 0 {
		return b, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for k, v := range e.Fields {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// Sink receives every event the pipeline emits.
type Sink interface {
	Publish(Event)
}

// Progress reports a stage checkpoint.
func Progress(s Sink, stage string, percent int, fields map[string]any) {
	s.Publish(Event{Type: TypeProgress, Stage: stage, Percent: percent, Fields: fields})
}

// Error reports a human-readable failure.
func Error(s Sink, message string) {
	s.Publish(Event{Type: TypeError, Message: message})
}

// Clip reports one produced clip artifact.
func Clip(s Sink, file string, durationSec int) {
	s.Publish(Event{Type: TypeClip, File: file, Duration: durationSec})
}

// State reports a run state transition (started, completed, ...).
func State(s Sink, status string) {
	s.Publish(Event{Type: TypeState, Status: status})
}

// Complete reports the final produced-vs-requested clip count.
func Complete(s Sink, produced, requested int) {
	s.Publish(Event{
		Type:       TypeComplete,
		TotalClips: produced,
		Fields:     map[string]any{"clips_requested": requested},
	})
}

// Discard is a Sink that drops everything; useful in tests and as a default.
var Discard Sink = discard{}

type discard struct{}

func (discard) Publish(Event) {}

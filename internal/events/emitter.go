package events

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// ipcPrefix marks machine-readable lines so a wrapping UI can split them
// from ordinary output.
const ipcPrefix = "IPC_EVENT:"

// Emitter writes events as prefixed JSON lines, one per event.
type Emitter struct {
	mu  sync.Mutex
	w   io.Writer
	log zerolog.Logger
}

// NewEmitter returns a Sink writing IPC_EVENT lines to w and mirroring
// errors to log.
func NewEmitter(w io.Writer, log zerolog.Logger) *Emitter {
	return &Emitter{w: w, log: log}
}

func (e *Emitter) Publish(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		e.log.Error().Err(err).Msg("marshal event")
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(append(append([]byte(ipcPrefix), b...), '\n')); err != nil {
		e.log.Error().Err(err).Msg("write event")
	}
	if ev.Type == TypeError {
		e.log.Warn().Str("message", ev.Message).Msg("pipeline error event")
	}
}

var _ Sink = (*Emitter)(nil)

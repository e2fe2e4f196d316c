package trace

import (
	"fmt"
	"io"
)

// Sink receives destruction events in the order they occur.
type Sink interface {
	Emit(e Event)
}

// LineWriter is a Sink that writes each event as one line of text.
type LineWriter struct {
	w io.Writer
}

// NewLineWriter returns a Sink writing events to w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// Emit writes the event's canonical line form followed by a newline.
func (lw *LineWriter) Emit(e Event) {
	fmt.Fprintln(lw.w, e.String())
}

// Recorder is a Sink that collects events in memory, primarily for tests.
type Recorder struct {
	Events []Event
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit appends the event to the recording.
func (r *Recorder) Emit(e Event) {
	r.Events = append(r.Events, e)
}

// Lines returns the canonical line form of every recorded event.
func (r *Recorder) Lines() []string {
	lines := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		lines = append(lines, e.String())
	}
	return lines
}

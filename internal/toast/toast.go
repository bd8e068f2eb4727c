// Package toast delivers short user-facing notices about plot state changes.
package toast

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Type is the severity of a toast.
type Type string

const (
	Error   Type = "error"
	Warning Type = "warning"
	Success Type = "success"
	Info    Type = "info"
)

// Delimiter cannot appear inside a toast message.
const Delimiter = "`"

// Message is a single delivered toast.
type Message struct {
	Text string    `json:"message"`
	Type Type      `json:"type"`
	At   time.Time `json:"-"`
}

// Sink receives toasts.
type Sink interface {
	Notify(Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Message)

// Notify calls f.
func (f SinkFunc) Notify(m Message) { f(m) }

// Multi fans a toast out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(m Message) {
		for _, s := range sinks {
			if s != nil {
				s.Notify(m)
			}
		}
	})
}

// Toast formats and dispatches notices.
type Toast struct {
	sink   Sink
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Toast writing to sink. A nil logger discards log output.
func New(sink Sink, logger *slog.Logger) *Toast {
	if sink == nil {
		sink = SinkFunc(func(Message) {})
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Toast{sink: sink, logger: logger, now: time.Now}
}

// Show delivers message with the given type. The reserved delimiter is
// replaced with a single quote.
func (t *Toast) Show(message string, typ Type) {
	if strings.Contains(message, Delimiter) {
		t.logger.Warn("toast message contains reserved delimiter", "message", message)
		message = strings.ReplaceAll(message, Delimiter, "'")
	}
	t.logger.Debug("toast", "type", string(typ), "message", message)
	t.sink.Notify(Message{Text: message, Type: typ, At: t.now()})
}

// --- Canonical Notices ---

// DownsampleWarning tells the user a series is now shown downsampled.
func (t *Toast) DownsampleWarning(name string, oldSize, newSize int) {
	t.Show(fmt.Sprintf("Time series '%s' has %d data points, thus has been downsampled to %d points.", name, oldSize, newSize), Warning)
}

// NoDownsampleInfo tells the user a series is back to full resolution.
func (t *Toast) NoDownsampleInfo(name string) {
	t.Show(fmt.Sprintf("Time series '%s' is now being displayed in full.", name), Info)
}

// InvalidColour reports a colour that could not be parsed.
func (t *Toast) InvalidColour(c string) {
	t.Show(fmt.Sprintf("'%s' is not a valid colour.", c), Error)
}

// InvalidMaxLength reports a negative downsampling threshold.
func (t *Toast) InvalidMaxLength(n int) {
	t.Show(fmt.Sprintf("Maximum series length before downsampling must be >= 0, not '%d'. Set to 0 for no downsampling.", n), Error)
}

// UnrecognisedVariable reports a command naming an unknown variable.
func (t *Toast) UnrecognisedVariable(name string) {
	t.Show(fmt.Sprintf("Cannot find variable '%s'. Make sure you are using its actual name, not its legend label.", name), Error)
}

// Unsupported reports a command the active view does not implement.
func (t *Toast) Unsupported(view, operation string) {
	t.Show(fmt.Sprintf("%s does not implement %s", view, operation), Warning)
}

// --- Sinks ---

// Recorder keeps every toast in memory.
type Recorder struct {
	mu   sync.Mutex
	msgs []Message
}

// Notify records m.
func (r *Recorder) Notify(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Drain returns the recorded messages and forgets them.
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.msgs
	r.msgs = nil
	return out
}

// Texts returns the recorded message texts of the given type, or of every
// type when typ is empty.
func (r *Recorder) Texts(typ Type) []string {
	var out []string
	for _, m := range r.Messages() {
		if typ == "" || m.Type == typ {
			out = append(out, m.Text)
		}
	}
	return out
}

// EventWriter writes each toast as one JSON line.
type EventWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewEventWriter creates an EventWriter.
func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{w: w}
}

type event struct {
	Event  string  `json:"event"`
	Detail Message `json:"detail"`
}

// Notify encodes m. Write failures are dropped.
func (e *EventWriter) Notify(m Message) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = json.NewEncoder(e.w).Encode(event{Event: "autoplot-toast", Detail: m})
}

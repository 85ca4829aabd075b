package recognizer

import (
	"context"
	"fmt"
	"sort"
)

// EventType identifies a recognizer notification.
type EventType string

const (
	// Started means the session is now actively capturing speech.
	Started EventType = "started"
	// Result carries the current segment list plus the boundary index.
	Result EventType = "result"
	// Error reports a recognizer failure; the stream is considered ended.
	Error EventType = "error"
	// Ended means the stream terminated normally.
	Ended EventType = "ended"
)

// Segment is a single recognition hypothesis.
// Confidence is nil when the recognizer did not report a score.
type Segment struct {
	Text       string
	IsFinal    bool
	Confidence *float64
}

// Event is one notification from the recognizer stream.
//
// For Result events, Segments holds the full current segment list for the
// session and ResultIndex is the monotonically nondecreasing boundary marking
// where segments new since the previous event begin. Code and Message are set
// on Error events only.
type Event struct {
	Type        EventType
	Segments    []Segment
	ResultIndex int
	Code        string
	Message     string
}

// NewSegments returns the segments of a Result event that were not delivered
// by a previous event, guarding against an out-of-range boundary.
func (e Event) NewSegments() []Segment {
	if e.ResultIndex < 0 {
		return e.Segments
	}
	if e.ResultIndex >= len(e.Segments) {
		return nil
	}
	return e.Segments[e.ResultIndex:]
}

// Recognizer is one bound instance of the external recognition capability,
// constructed for a fixed language. Start opens a fresh stream and returns the
// event channel for that run; the channel is closed after a terminal Ended or
// Error event. Stop requests termination of the current run - it is advisory,
// completion is signaled by the Ended event, never by Stop returning. Close
// releases the binding entirely and must be called on every exit path.
type Recognizer interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop()
	Close() error
}

// Config holds the settings a provider needs to construct a binding.
type Config struct {
	Language   string // BCP-47 locale tag, immutable for the binding's lifetime
	APIKey     string
	Model      string
	BaseURL    string
	SampleRate int
	Device     string
}

// Factory constructs a Recognizer bound to cfg.Language.
type Factory func(cfg Config) (Recognizer, error)

var registry = make(map[string]Factory)

func init() {
	Register("deepgram", func(cfg Config) (Recognizer, error) {
		return NewDeepgram(cfg)
	})
	Register("script", func(cfg Config) (Recognizer, error) {
		return NewScript(DemoScript(cfg.Language)), nil
	})
}

// Register adds a provider factory to the registry.
func Register(name string, f Factory) {
	registry[name] = f
}

// New constructs a recognizer binding for the named provider.
func New(provider string, cfg Config) (Recognizer, error) {
	f, ok := registry[provider]
	if !ok {
		return nil, fmt.Errorf("unknown recognizer provider: %s", provider)
	}
	return f(cfg)
}

// Supported returns true if the named provider is registered.
func Supported(provider string) bool {
	_, ok := registry[provider]
	return ok
}

// Providers returns all registered provider names, sorted.
func Providers() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

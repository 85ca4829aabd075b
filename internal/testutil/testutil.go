package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SidoJain/speech-to-text/internal/language"
	"github.com/SidoJain/speech-to-text/internal/recognizer"
)

// MockRecognizer is a hand-driven recognizer binding: tests push events with
// Push/End and observe the lifecycle through the call counters.
type MockRecognizer struct {
	StartErr error
	// EndOnStop makes Stop behave like a real binding that acknowledges a
	// stop request with an Ended event.
	EndOnStop bool

	mu         sync.Mutex
	events     chan recognizer.Event
	startCalls int
	stopCalls  int
	closeCalls int
}

func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

func (m *MockRecognizer) Start(ctx context.Context) (<-chan recognizer.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startCalls++
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	m.events = make(chan recognizer.Event, 32)
	return m.events, nil
}

func (m *MockRecognizer) Stop() {
	m.mu.Lock()
	m.stopCalls++
	endOnStop := m.EndOnStop && m.events != nil
	m.mu.Unlock()

	if endOnStop {
		m.End()
	}
}

func (m *MockRecognizer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	if m.events != nil {
		close(m.events)
		m.events = nil
	}
	return nil
}

func (m *MockRecognizer) StartCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startCalls
}

func (m *MockRecognizer) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *MockRecognizer) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// Push delivers one event on the current run's channel.
func (m *MockRecognizer) Push(ev recognizer.Event) {
	m.mu.Lock()
	events := m.events
	m.mu.Unlock()
	if events != nil {
		events <- ev
	}
}

// End emits Ended and closes the current run's channel.
func (m *MockRecognizer) End() {
	m.mu.Lock()
	events := m.events
	m.events = nil
	m.mu.Unlock()
	if events != nil {
		events <- recognizer.Event{Type: recognizer.Ended}
		close(events)
	}
}

// Fail emits an Error event and closes the current run's channel.
func (m *MockRecognizer) Fail(code, message string) {
	m.mu.Lock()
	events := m.events
	m.events = nil
	m.mu.Unlock()
	if events != nil {
		events <- recognizer.Event{Type: recognizer.Error, Code: code, Message: message}
		close(events)
	}
}

// RecognizerFactory hands out MockRecognizers and records which language each
// binding was constructed with.
type RecognizerFactory struct {
	NewErr error

	mu      sync.Mutex
	created []string
	recs    []*MockRecognizer
}

func NewRecognizerFactory() *RecognizerFactory {
	return &RecognizerFactory{}
}

// Factory returns a constructor assignable to session.Factory.
func (f *RecognizerFactory) Factory() func(language.Language) (recognizer.Recognizer, error) {
	return func(lang language.Language) (recognizer.Recognizer, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.NewErr != nil {
			return nil, f.NewErr
		}
		rec := NewMockRecognizer()
		f.created = append(f.created, lang.Tag)
		f.recs = append(f.recs, rec)
		return rec, nil
	}
}

// CreatedTags returns the language tags of all constructed bindings, in order.
func (f *RecognizerFactory) CreatedTags() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	tags := make([]string, len(f.created))
	copy(tags, f.created)
	return tags
}

// Last returns the most recently constructed binding, or nil.
func (f *RecognizerFactory) Last() *MockRecognizer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.recs) == 0 {
		return nil
	}
	return f.recs[len(f.recs)-1]
}

// Count returns how many bindings were constructed.
func (f *RecognizerFactory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs)
}

// TotalStarts sums the start calls across every constructed binding.
func (f *RecognizerFactory) TotalStarts() int {
	f.mu.Lock()
	recs := make([]*MockRecognizer, len(f.recs))
	copy(recs, f.recs)
	f.mu.Unlock()

	total := 0
	for _, rec := range recs {
		total += rec.StartCount()
	}
	return total
}

// GatedPermission blocks every request until the test releases it, modeling a
// host prompt the user has not answered yet.
type GatedPermission struct {
	Release chan error
}

func NewGatedPermission() *GatedPermission {
	return &GatedPermission{Release: make(chan error)}
}

func (g *GatedPermission) Request(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-g.Release:
		return err
	}
}

// RecordingNotifier records notification calls for assertions.
type RecordingNotifier struct {
	mu        sync.Mutex
	Listening []bool
	Errors    []string
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) ListeningChanged(on bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Listening = append(n.Listening, on)
}

func (n *RecordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Errors = append(n.Errors, msg)
}

func (n *RecordingNotifier) LastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Errors) == 0 {
		return ""
	}
	return n.Errors[len(n.Errors)-1]
}

// WaitForCondition waits for a condition to be true or times out.
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("Condition not met within %v", timeout)
		default:
			if condition() {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

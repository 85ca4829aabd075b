package recognizer

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ScriptStep is one timed event in a scripted run.
type ScriptStep struct {
	Delay time.Duration
	Event Event
}

// Script replays a fixed event sequence. It backs the "script" provider used
// by demo mode and keeps the full session lifecycle exercisable without a
// microphone or network.
type Script struct {
	steps []ScriptStep

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	closed  bool
	wg      sync.WaitGroup
}

func NewScript(steps []ScriptStep) *Script {
	return &Script{steps: steps}
}

func (s *Script) Start(ctx context.Context) (<-chan Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("recognizer closed")
	}
	if s.running {
		return nil, fmt.Errorf("recognizer already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	events := make(chan Event, len(s.steps)+1)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(events)
		defer func() {
			s.mu.Lock()
			s.running = false
			s.cancel = nil
			s.mu.Unlock()
		}()

		for _, step := range s.steps {
			select {
			case <-runCtx.Done():
				events <- Event{Type: Ended}
				return
			case <-time.After(step.Delay):
			}

			events <- step.Event
			if step.Event.Type == Ended || step.Event.Type == Error {
				return
			}
		}
		events <- Event{Type: Ended}
	}()

	return events, nil
}

// Stop cuts the replay short; the Ended event still arrives asynchronously.
func (s *Script) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Script) Close() error {
	s.mu.Lock()
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	return nil
}

// DemoScript builds the canned dictation played by `s2t serve --demo`.
func DemoScript(lang string) []ScriptStep {
	conf := 0.94
	interim := func(text string, finals ...Segment) Event {
		segs := append(append([]Segment{}, finals...), Segment{Text: text})
		return Event{Type: Result, Segments: segs, ResultIndex: len(finals)}
	}

	hello := Segment{Text: fmt.Sprintf("Hello, this is a scripted %s dictation.", lang), IsFinal: true, Confidence: &conf}

	return []ScriptStep{
		{Delay: 50 * time.Millisecond, Event: Event{Type: Started}},
		{Delay: 200 * time.Millisecond, Event: interim("Hello,")},
		{Delay: 200 * time.Millisecond, Event: interim("Hello, this is a scripted")},
		{Delay: 300 * time.Millisecond, Event: Event{Type: Result, Segments: []Segment{hello}, ResultIndex: 0}},
		{Delay: 300 * time.Millisecond, Event: interim("Nothing is saved", hello)},
		{Delay: 400 * time.Millisecond, Event: Event{Type: Ended}},
	}
}

// Package session owns the lifecycle of one recognition session against the
// external recognizer: capability probing, microphone authorization, start,
// stop, language reconfiguration, and error classification.
package session

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/SidoJain/speech-to-text/internal/language"
	"github.com/SidoJain/speech-to-text/internal/notify"
	"github.com/SidoJain/speech-to-text/internal/permission"
	"github.com/SidoJain/speech-to-text/internal/recognizer"
	"github.com/SidoJain/speech-to-text/internal/transcript"
)

type State string

const (
	Idle                State = "idle"
	AcquiringPermission State = "acquiring-permission"
	Listening           State = "listening"
	Stopped             State = "stopped"
	Failed              State = "failed"
)

// Factory constructs a recognizer binding for the given language.
type Factory func(lang language.Language) (recognizer.Recognizer, error)

// Probe checks once, at construction, whether the external recognition
// capability is present at all.
type Probe func() error

type Options struct {
	Factory     Factory
	Permissions permission.Provider
	Transcript  *transcript.Reconciler
	Notifier    notify.Notifier
	Probe       Probe
}

// Controller mediates access to the external recognition capability. Exactly
// one session is active at a time; the recognizer binding is an owned
// resource, constructed on demand and released on teardown or language
// change, never a process-wide singleton.
type Controller struct {
	factory    Factory
	perms      permission.Provider
	transcript *transcript.Reconciler
	notifier   notify.Notifier

	mu          sync.Mutex
	state       State
	language    language.Language
	lastErr     *Error
	unsupported *Error

	rec         recognizer.Recognizer
	boundTag    string
	pendingStop bool
	closed      bool

	wg sync.WaitGroup
}

func New(opts Options) *Controller {
	c := &Controller{
		factory:    opts.Factory,
		perms:      opts.Permissions,
		transcript: opts.Transcript,
		notifier:   opts.Notifier,
		state:      Idle,
		language:   language.Default,
	}
	if c.transcript == nil {
		c.transcript = transcript.New()
	}
	if c.notifier == nil {
		c.notifier = notify.Nop{}
	}

	// The probe runs exactly once per controller lifetime; an unsupported
	// outcome permanently disables every other operation.
	if opts.Probe != nil {
		if err := opts.Probe(); err != nil {
			c.unsupported = &Error{Kind: Unsupported, Detail: err.Error()}
			log.Printf("session: capability probe failed: %v", err)
		}
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Language() language.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// LastError returns the classified error of the most recent failure, or nil.
func (c *Controller) LastError() *Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsupported != nil {
		return c.unsupported
	}
	return c.lastErr
}

// Available returns the static diagnostic if the capability probe failed.
func (c *Controller) Available() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsupported != nil {
		return c.unsupported
	}
	return nil
}

// Transcript exposes the reconciler fed by this controller.
func (c *Controller) Transcript() *transcript.Reconciler {
	return c.transcript
}

// Configure sets the language for the next session. A live session is never
// mutated: the binding is torn down and recreated on the next Start when the
// language differs from the one it was constructed with.
func (c *Controller) Configure(lang language.Language) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsupported != nil {
		return c.unsupported
	}
	c.language = lang
	return nil
}

// Start requests a new listening session. It returns once the permission
// request is underway; the Listening transition happens when the external
// Started event arrives. Calling Start while a session is already starting or
// listening is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.unsupported != nil {
		c.mu.Unlock()
		return c.unsupported
	}
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("session controller closed")
	}
	switch c.state {
	case Listening, AcquiringPermission:
		c.mu.Unlock()
		return nil
	}
	c.state = AcquiringPermission
	c.pendingStop = false
	c.lastErr = nil
	c.mu.Unlock()

	c.wg.Add(1)
	go c.acquire(ctx)
	return nil
}

// acquire runs the fallible half of Start: the asynchronous permission
// request, binding (re)construction, and the recognizer start primitive.
func (c *Controller) acquire(ctx context.Context) {
	defer c.wg.Done()

	if err := c.perms.Request(ctx); err != nil {
		c.fail(classifyPermission(err))
		return
	}

	c.mu.Lock()
	if c.pendingStop || c.closed {
		c.state = Stopped
		c.mu.Unlock()
		return
	}

	if c.rec != nil && c.boundTag != c.language.Tag {
		old := c.rec
		c.rec = nil
		c.mu.Unlock()
		// Release the stale binding before constructing the new one so
		// two bindings never emit interleaved events.
		old.Stop()
		if err := old.Close(); err != nil {
			log.Printf("session: close stale binding: %v", err)
		}
		c.mu.Lock()
	}

	if c.rec == nil {
		rec, err := c.factory(c.language)
		if err != nil {
			c.state = Failed
			c.lastErr = &Error{Kind: Unknown, Detail: err.Error()}
			c.mu.Unlock()
			c.notifier.Error(c.lastErr.Error())
			return
		}
		c.rec = rec
		c.boundTag = c.language.Tag
	}
	rec := c.rec
	c.mu.Unlock()

	events, err := rec.Start(ctx)
	if err != nil {
		c.fail(&Error{Kind: Unknown, Detail: err.Error()})
		return
	}

	// A stop request may have arrived while the start primitive ran;
	// honor it now that there is a live stream to stop.
	c.mu.Lock()
	stopNow := c.pendingStop || c.closed
	c.mu.Unlock()
	if stopNow {
		rec.Stop()
	}

	c.wg.Add(1)
	go c.consume(events)
}

// consume processes the session's event stream as a single cooperative
// sequence: no event is handled concurrently with another.
func (c *Controller) consume(events <-chan recognizer.Event) {
	defer c.wg.Done()

	terminal := false
	for ev := range events {
		switch ev.Type {
		case recognizer.Started:
			c.mu.Lock()
			c.state = Listening
			c.lastErr = nil
			c.mu.Unlock()
			c.transcript.Apply(ev)
			c.notifier.ListeningChanged(true)

		case recognizer.Result:
			c.transcript.Apply(ev)

		case recognizer.Error:
			serr := classify(ev.Code, ev.Message)
			c.mu.Lock()
			c.state = Failed
			c.lastErr = serr
			c.mu.Unlock()
			c.transcript.Apply(ev)
			c.notifier.Error(serr.Error())
			terminal = true

		case recognizer.Ended:
			c.mu.Lock()
			if c.state != Failed {
				c.state = Stopped
			}
			c.mu.Unlock()
			c.transcript.Apply(ev)
			c.notifier.ListeningChanged(false)
			terminal = true
		}
	}

	if terminal {
		return
	}

	// Stream closed without a terminal event; treat it as ended.
	c.mu.Lock()
	if c.state == Listening || c.state == AcquiringPermission {
		c.state = Stopped
	}
	c.mu.Unlock()
	c.transcript.Apply(recognizer.Event{Type: recognizer.Ended})
	c.notifier.ListeningChanged(false)
}

func (c *Controller) fail(serr *Error) {
	c.mu.Lock()
	c.state = Failed
	c.lastErr = serr
	c.mu.Unlock()
	c.notifier.Error(serr.Error())
}

// Stop requests termination of the active session. It is advisory: the
// Stopped transition happens only when the external Ended event arrives.
// Calling Stop outside Listening/AcquiringPermission is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	switch c.state {
	case Listening, AcquiringPermission:
		c.pendingStop = true
		rec := c.rec
		c.mu.Unlock()
		if rec != nil {
			rec.Stop()
		}
	default:
		c.mu.Unlock()
	}
}

// Close tears the controller down, releasing any still-active binding on
// every exit path. The caller should cancel the context passed to Start
// first so a hanging permission request unblocks.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	rec := c.rec
	c.rec = nil
	c.mu.Unlock()

	if rec != nil {
		rec.Stop()
		if err := rec.Close(); err != nil {
			log.Printf("session: close binding: %v", err)
		}
	}
	c.wg.Wait()
}

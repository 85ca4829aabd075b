// Package transcript folds the ordered recognizer event stream into a stable,
// user-correctable transcript.
//
// The reconciled text at any instant is the concatenation of the committed
// fragments, each followed by one separating space, plus the current tentative
// text. Final segments are committed exactly once, in arrival order, and are
// never mutated afterwards. Tentative text is replaced wholesale on every
// result event because the recognizer resends the full current interim text,
// not a delta.
package transcript

import (
	"strings"
	"sync"

	"github.com/SidoJain/speech-to-text/internal/recognizer"
)

// Snapshot is a point-in-time copy of the reconciled state.
type Snapshot struct {
	Finalized  []string
	Tentative  string
	Confidence *float64
}

// Reconciler accumulates the transcript. Events are applied from a single
// goroutine; the mutex only guards reads from command handlers.
type Reconciler struct {
	mu         sync.Mutex
	finalized  []string
	tentative  string
	confidence *float64
}

func New() *Reconciler {
	return &Reconciler{}
}

// Apply folds one recognizer event into the transcript.
func (r *Reconciler) Apply(ev recognizer.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Type {
	case recognizer.Started:
		r.tentative = ""

	case recognizer.Result:
		// Commit finals before the tentative text is replaced, so the
		// materialized output never pairs stale tentative text with a
		// segment that already superseded it.
		var interim strings.Builder
		for _, seg := range ev.NewSegments() {
			if seg.IsFinal {
				r.finalized = append(r.finalized, seg.Text)
				if seg.Confidence != nil {
					conf := *seg.Confidence
					r.confidence = &conf
				} else {
					r.confidence = nil
				}
				continue
			}
			interim.WriteString(seg.Text)
		}
		r.tentative = interim.String()

	case recognizer.Ended, recognizer.Error:
		// Trailing interim text that never finalized is discarded; that
		// is the recognizer's contract, not a loss to repair.
		r.tentative = ""
	}
}

// Text returns the materialized transcript.
func (r *Reconciler) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textLocked()
}

func (r *Reconciler) textLocked() string {
	var b strings.Builder
	for _, frag := range r.finalized {
		b.WriteString(frag)
		b.WriteString(" ")
	}
	b.WriteString(r.tentative)
	return b.String()
}

// Confidence returns the score of the most recently committed final segment.
// ok is false when no scored segment was committed yet.
func (r *Reconciler) Confidence() (conf float64, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.confidence == nil {
		return 0, false
	}
	return *r.confidence, true
}

// Snapshot returns a copy of the full reconciled state.
func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Finalized: make([]string, len(r.finalized)),
		Tentative: r.tentative,
	}
	copy(snap.Finalized, r.finalized)
	if r.confidence != nil {
		conf := *r.confidence
		snap.Confidence = &conf
	}
	return snap
}

// SetText replaces the whole transcript with a manual user edit. The edit is
// folded back in as a single committed fragment so that later recognition
// appends to it instead of silently discarding it on the next interim update.
func (r *Reconciler) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tentative = ""
	text = strings.TrimRight(text, " ")
	if text == "" {
		r.finalized = nil
		return
	}
	r.finalized = []string{text}
}

// Clear resets the transcript entirely, including the confidence score. Valid
// in any session state.
func (r *Reconciler) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalized = nil
	r.tentative = ""
	r.confidence = nil
}

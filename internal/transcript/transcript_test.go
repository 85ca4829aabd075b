package transcript

import (
	"testing"

	"github.com/SidoJain/speech-to-text/internal/recognizer"
)

func conf(v float64) *float64 {
	return &v
}

func interimEvent(finals []recognizer.Segment, text string) recognizer.Event {
	segs := append(append([]recognizer.Segment{}, finals...), recognizer.Segment{Text: text})
	return recognizer.Event{Type: recognizer.Result, Segments: segs, ResultIndex: len(finals)}
}

func TestInterimThenFinal(t *testing.T) {
	r := New()

	r.Apply(recognizer.Event{Type: recognizer.Started})
	r.Apply(interimEvent(nil, "hello"))

	if got := r.Text(); got != "hello" {
		t.Fatalf("after interim, Text() = %q, want %q", got, "hello")
	}

	final := recognizer.Segment{Text: "hello world", IsFinal: true, Confidence: conf(0.92)}
	r.Apply(recognizer.Event{Type: recognizer.Result, Segments: []recognizer.Segment{final}, ResultIndex: 0})

	snap := r.Snapshot()
	if len(snap.Finalized) != 1 || snap.Finalized[0] != "hello world" {
		t.Errorf("Finalized = %v, want [hello world]", snap.Finalized)
	}
	if snap.Tentative != "" {
		t.Errorf("Tentative = %q, want empty", snap.Tentative)
	}
	if snap.Confidence == nil || *snap.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", snap.Confidence)
	}
	if got := r.Text(); got != "hello world " {
		t.Errorf("Text() = %q, want %q", got, "hello world ")
	}
}

// A text finalized across two events must commit exactly once, even though the
// first event already showed it as interim.
func TestFinalizationDoesNotDuplicate(t *testing.T) {
	r := New()

	r.Apply(recognizer.Event{Type: recognizer.Started})
	r.Apply(interimEvent(nil, "good morning"))
	r.Apply(recognizer.Event{
		Type:        recognizer.Result,
		Segments:    []recognizer.Segment{{Text: "good morning", IsFinal: true, Confidence: conf(0.8)}},
		ResultIndex: 0,
	})

	snap := r.Snapshot()
	if len(snap.Finalized) != 1 {
		t.Fatalf("Finalized = %v, want exactly one commit", snap.Finalized)
	}
	if got := r.Text(); got != "good morning " {
		t.Errorf("Text() = %q, want %q", got, "good morning ")
	}
}

// Materialized text must equal join(finalized, " ")+" "+tentative after every
// single event of an arbitrary sequence.
func TestTextMatchesSnapshotAfterEveryEvent(t *testing.T) {
	finals := []recognizer.Segment{
		{Text: "first sentence.", IsFinal: true, Confidence: conf(0.9)},
		{Text: "second one.", IsFinal: true, Confidence: conf(0.7)},
	}

	events := []recognizer.Event{
		{Type: recognizer.Started},
		interimEvent(nil, "fir"),
		interimEvent(nil, "first sen"),
		{Type: recognizer.Result, Segments: finals[:1], ResultIndex: 0},
		interimEvent(finals[:1], "sec"),
		interimEvent(finals[:1], "second o"),
		{Type: recognizer.Result, Segments: finals, ResultIndex: 1},
		interimEvent(finals, "never finalized"),
		{Type: recognizer.Ended},
	}

	r := New()
	for i, ev := range events {
		r.Apply(ev)

		snap := r.Snapshot()
		want := ""
		for _, frag := range snap.Finalized {
			want += frag + " "
		}
		want += snap.Tentative

		if got := r.Text(); got != want {
			t.Fatalf("after event %d (%s): Text() = %q, want %q", i, ev.Type, got, want)
		}
	}

	snap := r.Snapshot()
	if len(snap.Finalized) != 2 {
		t.Errorf("Finalized = %v, want two fragments", snap.Finalized)
	}
	if snap.Tentative != "" {
		t.Errorf("Tentative = %q, want empty after Ended", snap.Tentative)
	}
	if snap.Confidence == nil || *snap.Confidence != 0.7 {
		t.Errorf("Confidence = %v, want score of last committed final (0.7)", snap.Confidence)
	}
}

// Finals in one event commit before the event's interim portion replaces the
// tentative text, and the interim portion still lands as the new tentative.
func TestFinalAndInterimInOneEvent(t *testing.T) {
	r := New()

	final := recognizer.Segment{Text: "done part", IsFinal: true, Confidence: conf(0.85)}
	r.Apply(recognizer.Event{
		Type:        recognizer.Result,
		Segments:    []recognizer.Segment{final, {Text: "next part"}},
		ResultIndex: 0,
	})

	if got := r.Text(); got != "done part next part" {
		t.Errorf("Text() = %q, want %q", got, "done part next part")
	}
}

func TestEndedIsIdempotentOnEmptyTentative(t *testing.T) {
	for _, terminal := range []recognizer.EventType{recognizer.Ended, recognizer.Error} {
		t.Run(string(terminal), func(t *testing.T) {
			r := New()
			r.Apply(recognizer.Event{
				Type:        recognizer.Result,
				Segments:    []recognizer.Segment{{Text: "kept", IsFinal: true, Confidence: conf(0.5)}},
				ResultIndex: 0,
			})
			r.Apply(recognizer.Event{Type: recognizer.Ended})

			before := r.Snapshot()
			r.Apply(recognizer.Event{Type: terminal})
			after := r.Snapshot()

			if after.Tentative != before.Tentative || len(after.Finalized) != len(before.Finalized) {
				t.Errorf("terminal event on empty tentative changed the transcript: %+v -> %+v", before, after)
			}
			if after.Confidence == nil || *after.Confidence != 0.5 {
				t.Errorf("Confidence = %v, want 0.5 untouched", after.Confidence)
			}
		})
	}
}

func TestErrorClearsTentativeOnly(t *testing.T) {
	r := New()

	r.Apply(recognizer.Event{
		Type:        recognizer.Result,
		Segments:    []recognizer.Segment{{Text: "committed", IsFinal: true, Confidence: conf(0.6)}},
		ResultIndex: 0,
	})
	r.Apply(interimEvent([]recognizer.Segment{{Text: "committed", IsFinal: true}}, "in flight"))
	r.Apply(recognizer.Event{Type: recognizer.Error, Code: "no-speech"})

	snap := r.Snapshot()
	if snap.Tentative != "" {
		t.Errorf("Tentative = %q, want cleared on error", snap.Tentative)
	}
	if len(snap.Finalized) != 1 || snap.Finalized[0] != "committed" {
		t.Errorf("Finalized = %v, want [committed] untouched", snap.Finalized)
	}
}

func TestClearResetsEverything(t *testing.T) {
	r := New()

	r.Apply(recognizer.Event{Type: recognizer.Started})
	r.Apply(recognizer.Event{
		Type:        recognizer.Result,
		Segments:    []recognizer.Segment{{Text: "something", IsFinal: true, Confidence: conf(0.99)}},
		ResultIndex: 0,
	})
	r.Apply(interimEvent([]recognizer.Segment{{Text: "something", IsFinal: true}}, "more"))

	r.Clear()

	snap := r.Snapshot()
	if len(snap.Finalized) != 0 || snap.Tentative != "" || snap.Confidence != nil {
		t.Errorf("after Clear(), Snapshot() = %+v, want empty", snap)
	}
	if _, ok := r.Confidence(); ok {
		t.Error("Confidence() reported a score after Clear()")
	}
}

// A manual edit becomes a single committed fragment, so the next interim
// update appends instead of discarding it.
func TestSetTextSurvivesNextInterim(t *testing.T) {
	r := New()

	r.Apply(recognizer.Event{
		Type:        recognizer.Result,
		Segments:    []recognizer.Segment{{Text: "dictated text", IsFinal: true, Confidence: conf(0.9)}},
		ResultIndex: 0,
	})

	r.SetText("dictated text, hand corrected")

	r.Apply(recognizer.Event{
		Type:        recognizer.Result,
		Segments:    []recognizer.Segment{{Text: "and more"}},
		ResultIndex: 0,
	})

	if got := r.Text(); got != "dictated text, hand corrected and more" {
		t.Errorf("Text() = %q, want manual edit preserved before new interim", got)
	}
}

func TestSetTextEmpty(t *testing.T) {
	r := New()
	r.SetText("something")
	r.SetText("")
	if got := r.Text(); got != "" {
		t.Errorf("Text() = %q, want empty after editing to empty", got)
	}
}

func TestOutOfRangeBoundaryIsIgnored(t *testing.T) {
	r := New()
	r.Apply(recognizer.Event{
		Type:        recognizer.Result,
		Segments:    []recognizer.Segment{{Text: "old", IsFinal: true}},
		ResultIndex: 5,
	})
	if got := r.Text(); got != "" {
		t.Errorf("Text() = %q, want empty when boundary is past the segment list", got)
	}
}

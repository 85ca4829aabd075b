package notify

import (
	"log"
	"os/exec"
)

type Notifier interface {
	ListeningChanged(on bool)
	Error(msg string)
}

// Desktop sends notifications via notify-send.
type Desktop struct{}

func (Desktop) ListeningChanged(on bool) {
	body := "Stopped listening"
	if on {
		body = "Listening..."
	}
	cmd := exec.Command("notify-send", "-a", "s2t", body)
	if err := cmd.Run(); err != nil {
		log.Printf("notify: failed to send notification: %v", err)
	}
}

func (Desktop) Error(msg string) {
	cmd := exec.Command("notify-send", "-a", "s2t", "-u", "critical", msg)
	if err := cmd.Run(); err != nil {
		log.Printf("notify: failed to send error notification: %v", err)
	}
}

// Log writes notifications to the daemon log instead of the desktop.
type Log struct{}

func (Log) ListeningChanged(on bool) {
	if on {
		log.Printf("notify: listening started")
		return
	}
	log.Printf("notify: listening stopped")
}

func (Log) Error(msg string) {
	log.Printf("notify: error: %s", msg)
}

// Nop is a Notifier that does absolutely nothing.
// Useful in unit tests or headless builds.
type Nop struct{}

func (Nop) ListeningChanged(on bool) {}
func (Nop) Error(msg string)         {}

// New picks a notifier implementation by configured type.
func New(enabled bool, kind string) Notifier {
	if !enabled {
		return Nop{}
	}
	switch kind {
	case "log":
		return Log{}
	case "none":
		return Nop{}
	default:
		return Desktop{}
	}
}

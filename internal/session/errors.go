package session

import (
	"errors"
	"strings"

	"github.com/SidoJain/speech-to-text/internal/permission"
)

// ErrorKind is the user-facing error category for a failed session.
type ErrorKind string

const (
	// Unsupported means the capability probe failed; the whole controller
	// is permanently disabled.
	Unsupported ErrorKind = "unsupported"
	// PermissionDenied means the user must re-grant microphone access.
	PermissionDenied ErrorKind = "permission-denied"
	// NoSpeechDetected is transient: the session ended but a fresh start
	// is all it takes to retry.
	NoSpeechDetected ErrorKind = "no-speech"
	// Unknown carries the recognizer-reported detail verbatim.
	Unknown ErrorKind = "unknown"
)

// Error is a classified session failure with a displayable message.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	switch e.Kind {
	case Unsupported:
		return "speech recognition is not available on this system: " + e.Detail
	case PermissionDenied:
		return "microphone access denied - please re-grant microphone access and try again"
	case NoSpeechDetected:
		return "no speech detected - try again"
	default:
		if e.Detail == "" {
			return "recognition error"
		}
		return "recognition error: " + e.Detail
	}
}

// classify maps a recognizer-reported error to its user-facing category.
func classify(code, message string) *Error {
	switch strings.ToLower(code) {
	case "not-allowed", "permission-denied":
		return &Error{Kind: PermissionDenied, Detail: message}
	case "no-speech":
		return &Error{Kind: NoSpeechDetected, Detail: message}
	default:
		detail := message
		if detail == "" {
			detail = code
		}
		return &Error{Kind: Unknown, Detail: detail}
	}
}

// classifyPermission wraps a permission request failure. Probe breakage
// (missing tooling, cancelled context) is not a denial.
func classifyPermission(err error) *Error {
	if errors.Is(err, permission.ErrDenied) {
		return &Error{Kind: PermissionDenied, Detail: err.Error()}
	}
	return &Error{Kind: Unknown, Detail: err.Error()}
}

// Package permission models microphone authorization as a single async
// grant-or-deny request. There are no partial or revocable states: the
// request either resolves or fails, and a hanging host prompt simply keeps
// the request pending until its context is cancelled.
package permission

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrDenied marks a deny outcome, as opposed to a probe failure.
var ErrDenied = errors.New("microphone access denied")

// Provider performs one grant-or-deny request for microphone access.
type Provider interface {
	Request(ctx context.Context) error
}

// Microphone asks the host audio stack whether a capture source is usable.
// There is no interactive prompt on a plain PipeWire desktop, so "granted"
// means the default source exists and is reachable.
type Microphone struct {
	Timeout time.Duration
}

func NewMicrophone() Microphone {
	return Microphone{Timeout: 3 * time.Second}
}

func (m Microphone) Request(ctx context.Context) error {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := exec.LookPath("pactl"); err != nil {
		return fmt.Errorf("pactl not found: %w (install pulseaudio-utils)", err)
	}

	cmd := exec.CommandContext(ctx, "pactl", "get-default-source")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDenied, err)
	}

	source := strings.TrimSpace(string(output))
	if source == "" || source == "@DEFAULT_SOURCE@" {
		return fmt.Errorf("%w: no default audio source", ErrDenied)
	}
	return nil
}

// Static resolves every request with a fixed outcome. Used by demo mode and
// tests.
type Static struct {
	Err error
}

func (s Static) Request(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.Err
}

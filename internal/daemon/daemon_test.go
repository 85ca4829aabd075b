package daemon

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SidoJain/speech-to-text/internal/bus"
	"github.com/SidoJain/speech-to-text/internal/session"
	"github.com/SidoJain/speech-to-text/internal/testutil"
)

// startDemoDaemon runs a daemon with the scripted recognizer and a config
// file under t.TempDir, and registers cleanup that shuts it down.
func startDemoDaemon(t *testing.T) *Daemon {
	t.Helper()

	// Clean up any stale daemon artifacts
	bus.RemovePidFile()

	d, err := New(Options{Demo: true, ConfigPath: filepath.Join(t.TempDir(), "config.toml")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Run()
	}()

	// Wait for daemon to be ready by trying to connect
	maxAttempts := 50
	for i := range maxAttempts {
		if _, err := bus.SendCommand(bus.CmdStatus, ""); err == nil {
			break
		}
		if i == maxAttempts-1 {
			t.Fatal("daemon failed to start within timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Cleanup(func() {
		bus.SendCommand(bus.CmdQuit, "")
		select {
		case <-errCh:
		case <-time.After(3 * time.Second):
			t.Error("daemon did not exit within timeout")
		}
	})

	return d
}

func TestScriptedSessionRoundTrip(t *testing.T) {
	d := startDemoDaemon(t)

	if out, err := bus.SendCommand(bus.CmdStart, ""); err != nil {
		t.Fatalf("start failed: %v", err)
	} else if out != "OK starting\n" {
		t.Fatalf("unexpected start response: %s", out)
	}

	// The scripted dictation ends on its own
	testutil.WaitForCondition(t, func() bool {
		return d.ctrl.State() == session.Stopped
	}, 3*time.Second)

	out, err := bus.SendCommand(bus.CmdTranscript, "")
	if err != nil {
		t.Fatalf("transcript failed: %v", err)
	}
	if !strings.Contains(out, "scripted") {
		t.Fatalf("unexpected transcript: %q", out)
	}
	if strings.Contains(out, "Nothing is saved") {
		t.Fatalf("tentative text survived session end: %q", out)
	}

	status, err := bus.SendCommand(bus.CmdStatus, "")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(status, "state=stopped") || !strings.Contains(status, "language=en-US") {
		t.Fatalf("unexpected status: %q", status)
	}
	if !strings.Contains(status, "confidence=0.94") {
		t.Fatalf("status missing confidence: %q", status)
	}

	if out, err := bus.SendCommand(bus.CmdClear, ""); err != nil || out != "OK cleared\n" {
		t.Fatalf("clear failed: %q %v", out, err)
	}
	if out, _ := bus.SendCommand(bus.CmdTranscript, ""); out != "" {
		t.Fatalf("transcript not empty after clear: %q", out)
	}
}

func TestEditAndLanguageCommands(t *testing.T) {
	startDemoDaemon(t)

	if out, err := bus.SendCommand(bus.CmdEdit, "corrected text"); err != nil || out != "OK edited\n" {
		t.Fatalf("edit failed: %q %v", out, err)
	}
	if out, _ := bus.SendCommand(bus.CmdTranscript, ""); out != "corrected text " {
		t.Fatalf("unexpected transcript after edit: %q", out)
	}

	if out, err := bus.SendCommand(bus.CmdLanguage, "hi-IN"); err != nil || out != "OK language=hi-IN\n" {
		t.Fatalf("set language failed: %q %v", out, err)
	}
	if out, _ := bus.SendCommand(bus.CmdLanguage, ""); out != "STATUS language=hi-IN\n" {
		t.Fatalf("unexpected language query response: %q", out)
	}
	if out, _ := bus.SendCommand(bus.CmdLanguage, "xx-YY"); !strings.HasPrefix(out, "ERR") {
		t.Fatalf("invalid tag accepted: %q", out)
	}

	out, err := bus.SendCommand(bus.CmdLanguages, "")
	if err != nil {
		t.Fatalf("languages failed: %v", err)
	}
	if !strings.Contains(out, "en-US\tEnglish (US)") || !strings.Contains(out, "hi-IN") {
		t.Fatalf("unexpected languages listing: %q", out)
	}

	if out, _ := bus.SendCommand(bus.CmdVersion, ""); out != "STATUS proto="+bus.ProtoVer+"\n" {
		t.Fatalf("unexpected version response: %q", out)
	}
}

// Package export hands the materialized transcript to the outside world.
// Export failures never touch session or transcript state; callers surface
// them as transient feedback only.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
)

// Clipboard copies the transcript text to the system clipboard.
func Clipboard(text string) error {
	if text == "" {
		return fmt.Errorf("nothing to copy: transcript is empty")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// FileName returns the dated export file name for the given day.
func FileName(now time.Time) string {
	return "transcript-" + now.Format("2006-01-02") + ".txt"
}

// File writes the transcript verbatim to a dated plain-text file in dir and
// returns the written path. An empty dir means the current directory.
func File(dir, text string, now time.Time) (string, error) {
	if text == "" {
		return "", fmt.Errorf("nothing to export: transcript is empty")
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

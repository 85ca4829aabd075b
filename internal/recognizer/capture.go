package recognizer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"sync"
)

const captureBufferSize = 4096

// capture owns the microphone subprocess feeding a streaming binding.
// PCM chunks arrive on the returned channel; the channel closes on EOF,
// cancellation, or read failure.
type capture struct {
	sampleRate int
	device     string

	mu     sync.Mutex
	cmd    *exec.Cmd
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newCapture(sampleRate int, device string) *capture {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &capture{sampleRate: sampleRate, device: device}
}

func (c *capture) start(ctx context.Context) (<-chan []byte, <-chan error, error) {
	captureCtx, cancel := context.WithCancel(ctx)

	args := []string{
		"--format", "s16",
		"--rate", strconv.Itoa(c.sampleRate),
		"--channels", "1",
		"-", // stdout
	}
	if c.device != "" {
		args = append(args, "--target", c.device)
	}

	cmd := exec.CommandContext(captureCtx, "pw-record", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("start pw-record: %w", err)
	}

	c.mu.Lock()
	c.cmd = cmd
	c.cancel = cancel
	c.mu.Unlock()

	// Log stderr lines to aid diagnostics.
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Printf("capture stderr: %s", scanner.Text())
		}
	}()

	chunkCh := make(chan []byte, 32)
	errCh := make(chan error, 1)

	c.wg.Add(1)
	go c.readLoop(captureCtx, stdout, chunkCh, errCh)

	return chunkCh, errCh, nil
}

func (c *capture) readLoop(ctx context.Context, stdout io.Reader, chunkCh chan<- []byte, errCh chan<- error) {
	defer func() {
		close(chunkCh)

		// Ensure the child process is reaped.
		c.mu.Lock()
		if c.cmd != nil {
			_ = c.cmd.Wait()
			c.cmd = nil
		}
		c.mu.Unlock()

		c.wg.Done()
	}()

	buffer := make([]byte, captureBufferSize)
	for {
		n, readErr := stdout.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])

			select {
			case chunkCh <- chunk:
			case <-ctx.Done():
				return
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) || ctx.Err() != nil {
				return
			}
			select {
			case errCh <- fmt.Errorf("read audio: %w", readErr):
			default:
			}
			return
		}
	}
}

func (c *capture) stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

// CaptureAvailable reports whether the microphone capture tooling is present.
func CaptureAvailable() error {
	if _, err := exec.LookPath("pw-record"); err != nil {
		return fmt.Errorf("pw-record not found: %w (install pipewire-utils)", err)
	}
	return nil
}

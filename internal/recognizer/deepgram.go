package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// Deepgram binds the Deepgram live transcription API as a Recognizer.
// Each Start opens a fresh WebSocket stream plus a microphone capture
// subprocess; the binding itself stays reusable across runs until Close.
type Deepgram struct {
	cfg Config

	mu      sync.Mutex
	conn    *websocket.Conn
	mic     *capture
	cancel  context.CancelFunc
	running bool
	closed  bool
	sendErr error

	wg sync.WaitGroup
}

// deepgramCloseStream signals end of audio to the server
type deepgramCloseStream struct {
	Type string `json:"type"`
}

// Deepgram WebSocket response types (incoming)
type deepgramWSResponse struct {
	Type        string            `json:"type"`
	Channel     *deepgramChannel  `json:"channel,omitempty"`
	Metadata    *deepgramMetadata `json:"metadata,omitempty"`
	Error       *deepgramError    `json:"error,omitempty"`
	IsFinal     bool              `json:"is_final,omitempty"`
	SpeechFinal bool              `json:"speech_final,omitempty"`
}

type deepgramChannel struct {
	Alternatives []deepgramAlternative `json:"alternatives,omitempty"`
}

type deepgramAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

type deepgramMetadata struct {
	RequestID string `json:"request_id"`
	ModelInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"model_info"`
}

type deepgramError struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
}

// NewDeepgram creates a Deepgram binding for cfg.Language.
func NewDeepgram(cfg Config) (*Deepgram, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepgram API key required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "wss://api.deepgram.com"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-3"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &Deepgram{cfg: cfg}, nil
}

func (d *Deepgram) Start(ctx context.Context) (<-chan Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("recognizer closed")
	}
	if d.running {
		return nil, fmt.Errorf("recognizer already started")
	}

	runCtx, cancel := context.WithCancel(ctx)

	wsURL, err := d.buildURL()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build websocket url: %w", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.cfg.APIKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(runCtx, wsURL, headers)
	if err != nil {
		cancel()
		if resp != nil {
			return nil, fmt.Errorf("websocket dial (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	mic := newCapture(d.cfg.SampleRate, d.cfg.Device)
	chunkCh, capErrCh, err := mic.start(runCtx)
	if err != nil {
		conn.Close()
		cancel()
		return nil, fmt.Errorf("start capture: %w", err)
	}

	d.conn = conn
	d.mic = mic
	d.cancel = cancel
	d.running = true
	d.sendErr = nil

	events := make(chan Event, 64)

	d.wg.Add(2)
	go d.sendLoop(runCtx, conn, chunkCh, capErrCh)
	go d.readLoop(runCtx, conn, events)

	log.Printf("deepgram: connected, model=%s, language=%s", d.cfg.Model, d.cfg.Language)
	return events, nil
}

func (d *Deepgram) buildURL() (string, error) {
	u, err := url.Parse(d.cfg.BaseURL + "/v1/listen")
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("model", d.cfg.Model)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", fmt.Sprintf("%d", d.cfg.SampleRate))
	q.Set("channels", "1")
	q.Set("interim_results", "true")
	q.Set("smart_format", "true")
	q.Set("punctuate", "true")
	if d.cfg.Language != "" {
		q.Set("language", d.cfg.Language)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// sendLoop pipes captured PCM chunks into the socket. When the chunk channel
// closes it sends CloseStream so the server flushes pending final results and
// closes the stream from its side.
func (d *Deepgram) sendLoop(ctx context.Context, conn *websocket.Conn, chunkCh <-chan []byte, capErrCh <-chan error) {
	defer d.wg.Done()

	closeStream := func() {
		msg, _ := json.Marshal(deepgramCloseStream{Type: "CloseStream"})
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("deepgram: close stream: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-capErrCh:
			if err != nil {
				d.mu.Lock()
				d.sendErr = err
				d.mu.Unlock()
				closeStream()
				return
			}
		case chunk, ok := <-chunkCh:
			if !ok {
				closeStream()
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
				d.mu.Lock()
				d.sendErr = err
				d.mu.Unlock()
				return
			}
		}
	}
}

// readLoop turns server messages into the Event stream. It is the only writer
// and the only closer of the events channel.
func (d *Deepgram) readLoop(ctx context.Context, conn *websocket.Conn, events chan<- Event) {
	defer d.wg.Done()
	defer close(events)
	defer d.finishRun()

	var finals []Segment
	startedSent := false

	snapshot := func(extra ...Segment) []Segment {
		segs := make([]Segment, 0, len(finals)+len(extra))
		segs = append(segs, finals...)
		segs = append(segs, extra...)
		return segs
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				events <- Event{Type: Ended}
				return
			}

			d.mu.Lock()
			sendErr := d.sendErr
			d.mu.Unlock()
			if sendErr != nil {
				err = sendErr
			}
			events <- Event{Type: Error, Code: "network", Message: err.Error()}
			return
		}

		var resp deepgramWSResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			log.Printf("deepgram: parse error: %v", err)
			continue
		}

		switch resp.Type {
		case "Metadata":
			if resp.Metadata != nil {
				log.Printf("deepgram: session started, request_id=%s, model=%s",
					resp.Metadata.RequestID, resp.Metadata.ModelInfo.Name)
			}
			if !startedSent {
				startedSent = true
				events <- Event{Type: Started}
			}

		case "Results":
			if resp.Channel == nil || len(resp.Channel.Alternatives) == 0 {
				continue
			}
			alt := resp.Channel.Alternatives[0]
			if alt.Transcript == "" {
				continue
			}

			conf := alt.Confidence
			seg := Segment{Text: alt.Transcript, IsFinal: resp.IsFinal || resp.SpeechFinal, Confidence: &conf}

			if seg.IsFinal {
				finals = append(finals, seg)
				events <- Event{Type: Result, Segments: snapshot(), ResultIndex: len(finals) - 1}
			} else {
				events <- Event{Type: Result, Segments: snapshot(seg), ResultIndex: len(finals)}
			}

		case "Error":
			code := "unknown"
			msg := "recognizer error"
			if resp.Error != nil {
				code = resp.Error.Type
				msg = resp.Error.Message
				if resp.Error.Description != "" {
					msg = msg + ": " + resp.Error.Description
				}
			}
			events <- Event{Type: Error, Code: code, Message: msg}
			return
		}
	}
}

// finishRun tears down the run's resources so the binding can be started again.
func (d *Deepgram) finishRun() {
	d.mu.Lock()
	conn := d.conn
	mic := d.mic
	cancel := d.cancel
	d.conn = nil
	d.mic = nil
	d.cancel = nil
	d.running = false
	d.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if mic != nil {
		mic.stop()
	}
	if cancel != nil {
		cancel()
	}
}

// Stop requests graceful termination: capture is stopped, which drains into a
// CloseStream message, and the server finalizes pending results before the
// Ended event arrives. It does not wait.
func (d *Deepgram) Stop() {
	d.mu.Lock()
	mic := d.mic
	d.mu.Unlock()

	if mic != nil {
		mic.stop()
	}
}

// Close releases the binding unconditionally, aborting any in-flight run.
func (d *Deepgram) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	cancel := d.cancel
	conn := d.conn
	d.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		conn.Close()
	}
	d.wg.Wait()
	return nil
}

// Package recorder implements the recording session controller: the capture
// lifecycle, elapsed time and live transcript accumulation.
package recorder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rcliao/record-and-post/internal/capture"
	"github.com/rcliao/record-and-post/internal/logging"
)

var (
	// ErrAlreadyActive is returned by Start when a recording is in progress.
	ErrAlreadyActive = errors.New("recording already active")
	// ErrInvalidState is returned when an operation is not valid in the current state.
	ErrInvalidState = errors.New("invalid recorder state")
)

// State is the controller lifecycle state.
type State int

const (
	Idle State = iota
	Recording
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Recording:
		return "recording"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return "idle"
	}
}

// Capture is the artifact produced by a finished recording.
type Capture struct {
	Audio           []byte
	MIME            string
	DurationSeconds int
	Transcript      string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Status is a point-in-time view for live display.
type Status struct {
	State          State
	ElapsedSeconds int
	Committed      string
	Tentative      string
	MIME           string
}

// Options configures a Controller. Every field is optional.
type Options struct {
	// Feed provides live transcription. Nil disables it.
	Feed capture.Feed
	// OnFinish receives each finished capture exactly once.
	OnFinish func(*Capture)
	Clock    clockwork.Clock
	Logger   logging.Logger
	// StopGrace bounds how long Stop waits for the device reader to exit.
	StopGrace time.Duration
}

// Controller drives one capture device through
// Idle -> Recording <-> Paused -> Finished -> Idle.
type Controller struct {
	device    capture.Device
	feed      capture.Feed
	onFinish  func(*Capture)
	clock     clockwork.Clock
	log       logging.Logger
	stopGrace time.Duration

	mu          sync.Mutex
	state       State
	mime        string
	stream      io.ReadCloser
	pumpDone    chan struct{}
	startedAt   time.Time
	resumedAt   time.Time
	accumulated time.Duration
	feedCancel  context.CancelFunc
	feedCtx     context.Context

	// dataMu guards what the pump and feed goroutines write. It is never
	// held while waiting on those goroutines.
	dataMu    sync.Mutex
	gen       int
	paused    bool
	fragments [][]byte
	committed []string
	tentative string
}

// New creates a controller for the given device.
func New(device capture.Device, opts Options) *Controller {
	c := &Controller{
		device:    device,
		feed:      opts.Feed,
		onFinish:  opts.OnFinish,
		clock:     opts.Clock,
		log:       opts.Logger,
		stopGrace: opts.StopGrace,
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	if c.stopGrace <= 0 {
		c.stopGrace = 2 * time.Second
	}
	return c
}

// Start opens the device and begins recording. Capture failures are
// returned as *capture.Error and leave the controller Idle.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return ErrAlreadyActive
	}

	mime := capture.ChooseFormat(c.device)
	stream, err := c.device.Open(ctx, mime)
	if err != nil {
		return capture.Classify(err)
	}

	now := c.clock.Now()
	c.dataMu.Lock()
	c.gen++
	gen := c.gen
	c.paused = false
	c.fragments = nil
	c.committed = nil
	c.tentative = ""
	c.dataMu.Unlock()

	c.state = Recording
	c.mime = mime
	c.stream = stream
	c.startedAt = now
	c.resumedAt = now
	c.accumulated = 0
	c.pumpDone = make(chan struct{})
	c.feedCtx = context.WithoutCancel(ctx)

	go c.pump(stream, gen, c.pumpDone)
	c.startFeed(gen)

	c.log.Info(ctx, "recording started", "mime", mime)
	return nil
}

// Pause stops elapsed time and live transcription. Audio read while paused
// is dropped.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Recording {
		return fmt.Errorf("%w: pause while %s", ErrInvalidState, c.state)
	}
	c.accumulated += c.clock.Since(c.resumedAt)
	c.state = Paused

	c.dataMu.Lock()
	c.paused = true
	c.dataMu.Unlock()

	c.stopFeed()
	return nil
}

// Resume restarts elapsed time and live transcription after Pause.
func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Paused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidState, c.state)
	}
	c.resumedAt = c.clock.Now()
	c.state = Recording

	c.dataMu.Lock()
	c.paused = false
	gen := c.gen
	c.dataMu.Unlock()

	c.startFeed(gen)
	return nil
}

// Stop finalizes the recording, invokes the finish callback and returns the
// capture. The device is released and the controller reset to Idle.
func (c *Controller) Stop() (*Capture, error) {
	c.mu.Lock()
	if c.state != Recording && c.state != Paused {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: stop while %s", ErrInvalidState, state)
	}

	now := c.clock.Now()
	if c.state == Recording {
		c.accumulated += now.Sub(c.resumedAt)
	}
	c.stopFeed()
	c.releaseDevice()

	c.dataMu.Lock()
	capt := &Capture{
		Audio:           bytes.Join(c.fragments, nil),
		MIME:            c.mime,
		DurationSeconds: int(c.accumulated / time.Second),
		Transcript:      joinTranscript(c.committed, c.tentative),
		StartedAt:       c.startedAt,
		FinishedAt:      now,
	}
	// Late writes from a reader that outlived StopGrace are discarded.
	c.gen++
	c.fragments = nil
	c.committed = nil
	c.tentative = ""
	c.paused = false
	c.dataMu.Unlock()

	if len(capt.Audio) == 0 {
		capt.Audio = nil
	}

	c.state = Finished
	c.mime = ""
	c.accumulated = 0
	c.mu.Unlock()

	c.log.Info(context.Background(), "recording finished",
		"seconds", capt.DurationSeconds, "bytes", len(capt.Audio))

	if c.onFinish != nil {
		c.onFinish(capt)
	}

	c.mu.Lock()
	c.state = Idle
	c.mu.Unlock()

	return capt, nil
}

// Status returns the current state, elapsed seconds and transcript text.
func (c *Controller) Status() Status {
	c.mu.Lock()
	st := Status{State: c.state, MIME: c.mime}
	elapsed := c.accumulated
	if c.state == Recording {
		elapsed += c.clock.Since(c.resumedAt)
	}
	st.ElapsedSeconds = int(elapsed / time.Second)
	c.mu.Unlock()

	c.dataMu.Lock()
	st.Committed = strings.Join(c.committed, " ")
	st.Tentative = c.tentative
	c.dataMu.Unlock()
	return st
}

// StreamEnded is closed when the device stream of the current recording
// ends, either at Stop or because the source ran out. It is nil while Idle.
func (c *Controller) StreamEnded() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Idle {
		return nil
	}
	return c.pumpDone
}

func (c *Controller) pump(r io.Reader, gen int, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			c.dataMu.Lock()
			if c.gen == gen && !c.paused {
				c.fragments = append(c.fragments, bytes.Clone(buf[:n]))
			}
			c.dataMu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// startFeed must be called with mu held.
func (c *Controller) startFeed(gen int) {
	if c.feed == nil {
		return
	}
	ctx, cancel := context.WithCancel(c.feedCtx)
	if err := c.feed.Start(ctx, c.handleResult(gen)); err != nil {
		cancel()
		c.log.Warn(ctx, "live transcription unavailable", "error", err)
		return
	}
	c.feedCancel = cancel
}

// stopFeed must be called with mu held.
func (c *Controller) stopFeed() {
	if c.feedCancel == nil {
		return
	}
	c.feedCancel()
	c.feedCancel = nil
	if err := c.feed.Stop(); err != nil {
		c.log.Debug(context.Background(), "stop transcription feed", "error", err)
	}
}

// releaseDevice must be called with mu held.
func (c *Controller) releaseDevice() {
	if c.stream == nil {
		return
	}
	if err := c.stream.Close(); err != nil {
		c.log.Debug(context.Background(), "close capture stream", "error", err)
	}
	select {
	case <-c.pumpDone:
	case <-time.After(c.stopGrace):
		c.log.Warn(context.Background(), "capture reader did not exit", "grace", c.stopGrace)
	}
	c.stream = nil
}

func (c *Controller) handleResult(gen int) func(capture.Result) {
	return func(r capture.Result) {
		c.dataMu.Lock()
		defer c.dataMu.Unlock()
		if c.gen != gen {
			return
		}
		text := strings.TrimSpace(r.Text)
		if !r.Final {
			c.tentative = text
			return
		}
		if text != "" {
			c.committed = append(c.committed, text)
		}
		c.tentative = ""
	}
}

func joinTranscript(committed []string, tentative string) string {
	parts := committed
	if tentative != "" {
		parts = append(parts[:len(parts):len(parts)], tentative)
	}
	return strings.Join(parts, " ")
}

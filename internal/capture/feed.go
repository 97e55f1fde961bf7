package capture

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
)

// Result is one recognized transcript fragment. Tentative results may be
// replaced by later ones; final results are committed.
type Result struct {
	Index int
	Text  string
	Final bool
}

// Feed is a best-effort live transcription source.
type Feed interface {
	// Start begins delivering results to emit until Stop is called or the
	// source ends. emit is called from a single goroutine.
	Start(ctx context.Context, emit func(Result)) error
	// Stop ends delivery and waits for the delivering goroutine to exit.
	Stop() error
}

// Event is one line of the NDJSON transcript protocol.
type Event struct {
	Event          string `json:"event"`
	Text           string `json:"text,omitempty"`
	Source         string `json:"source,omitempty"`
	SequenceNumber *int   `json:"sequenceNumber,omitempty"`
}

const (
	EventPartial = "partial"
	EventFinal   = "final"
)

// NDJSONFeed reads transcript events, one JSON object per line, from a
// source that is reopened on every Start. A seekable source continues after
// the last line delivered by the previous Start, so a stop and restart never
// replays events.
type NDJSONFeed struct {
	open func() (io.ReadCloser, error)

	mu     sync.Mutex
	rc     io.ReadCloser
	done   chan struct{}
	offset int64
	seq    int
}

// NewNDJSONFeed creates a feed over the given source opener.
func NewNDJSONFeed(open func() (io.ReadCloser, error)) *NDJSONFeed {
	return &NDJSONFeed{open: open}
}

// NewFileFeed creates a feed reading events from a file or FIFO path.
func NewFileFeed(path string) *NDJSONFeed {
	return NewNDJSONFeed(func() (io.ReadCloser, error) {
		return os.Open(path)
	})
}

var errFeedRunning = errors.New("transcript feed already running")

func (f *NDJSONFeed) Start(ctx context.Context, emit func(Result)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rc != nil {
		return errFeedRunning
	}
	rc, err := f.open()
	if err != nil {
		return err
	}
	if seeker, ok := rc.(io.Seeker); ok && f.offset > 0 {
		if _, err := seeker.Seek(f.offset, io.SeekStart); err != nil {
			rc.Close()
			return err
		}
	}
	f.rc = rc
	f.done = make(chan struct{})

	go f.run(ctx, rc, emit, f.offset, f.seq, f.done)
	return nil
}

func (f *NDJSONFeed) run(ctx context.Context, r io.Reader, emit func(Result), offset int64, seq int, done chan struct{}) {
	defer close(done)
	defer func() {
		f.mu.Lock()
		f.offset, f.seq = offset, seq
		f.mu.Unlock()
	}()

	var advance int
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		n, tok, err := bufio.ScanLines(data, atEOF)
		if n > 0 {
			advance = n
		}
		return n, tok, err
	})
	for sc.Scan() {
		// A line scanned after cancellation is left for the next Start.
		if ctx.Err() != nil {
			return
		}
		offset += int64(advance)
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			continue
		}
		idx := seq
		if ev.SequenceNumber != nil {
			idx = *ev.SequenceNumber
		}
		switch ev.Event {
		case EventPartial:
			emit(Result{Index: idx, Text: ev.Text})
		case EventFinal:
			emit(Result{Index: idx, Text: ev.Text, Final: true})
			seq++
		}
	}
}

func (f *NDJSONFeed) Stop() error {
	f.mu.Lock()
	rc, done := f.rc, f.done
	f.rc, f.done = nil, nil
	f.mu.Unlock()

	if rc == nil {
		return nil
	}
	err := rc.Close()
	<-done
	return err
}

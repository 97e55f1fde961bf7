package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), PermissionDenied},
		{"not exist", &os.PathError{Op: "open", Path: "/dev/x", Err: syscall.ENOENT}, DeviceNotFound},
		{"no device", syscall.ENODEV, DeviceNotFound},
		{"busy", &os.PathError{Op: "open", Path: "/dev/x", Err: syscall.EBUSY}, DeviceBusy},
		{"unsupported", ErrUnsupported, UnsupportedPlatform},
		{"insecure", ErrInsecure, InsecureContext},
		{"aborted", context.Canceled, Aborted},
		{"other", errors.New("boom"), Failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ce *Error
			require.True(t, errors.As(Classify(tt.err), &ce))
			assert.Equal(t, tt.want, ce.Kind)
		})
	}
	assert.Nil(t, Classify(nil))
}

func TestKindMessagesDistinct(t *testing.T) {
	seen := map[string]Kind{}
	for _, k := range []Kind{Failed, PermissionDenied, DeviceNotFound, DeviceBusy, UnsupportedPlatform, InsecureContext, Aborted} {
		msg := k.Message()
		require.NotEmpty(t, msg)
		if prev, ok := seen[msg]; ok {
			t.Fatalf("kinds %v and %v share message %q", prev, k, msg)
		}
		seen[msg] = k
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", (&Error{Kind: Failed, Err: errors.New("boom")}).Error())
	assert.Equal(t, unknownMessage, (&Error{Kind: Failed}).Error())
	assert.Equal(t, DeviceBusy.Message(), (&Error{Kind: DeviceBusy, Err: syscall.EBUSY}).Error())
}

func TestChooseFormat(t *testing.T) {
	assert.Equal(t, "audio/mp4", ChooseFormat(&ReaderDevice{Formats: []string{"audio/mp4"}}))
	assert.Equal(t, "audio/webm", ChooseFormat(&ReaderDevice{Formats: []string{"audio/mp4", "audio/webm"}}))
	assert.Equal(t, FallbackFormat, ChooseFormat(&ReaderDevice{Formats: []string{"audio/ogg"}}))
}

func TestFileDeviceMissing(t *testing.T) {
	d := &FileDevice{Path: filepath.Join(t.TempDir(), "nope")}
	_, err := d.Open(context.Background(), "audio/webm")

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, DeviceNotFound, ce.Kind)
}

func TestFileDeviceReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.webm")
	require.NoError(t, os.WriteFile(path, []byte("pcm"), 0o600))

	d := &FileDevice{Path: path, Formats: []string{"audio/webm"}}
	assert.True(t, d.Supports("audio/webm"))

	rc, err := d.Open(context.Background(), "audio/webm")
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pcm", string(b))
}

type collector struct {
	mu  sync.Mutex
	got []Result
}

func (c *collector) emit(r Result) {
	c.mu.Lock()
	c.got = append(c.got, r)
	c.mu.Unlock()
}

func (c *collector) results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.got...)
}

func TestNDJSONFeed(t *testing.T) {
	src := strings.Join([]string{
		`{"event":"partial","text":"hel"}`,
		`{"event":"partial","text":"hello"}`,
		`not json`,
		`{"event":"level","mic":0.5}`,
		`{"event":"final","text":"hello there"}`,
		`{"event":"final","text":"second","sequenceNumber":7}`,
	}, "\n")

	feed := NewNDJSONFeed(func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(src)), nil
	})

	var c collector
	require.NoError(t, feed.Start(context.Background(), c.emit))
	require.Eventually(t, func() bool { return len(c.results()) == 4 }, time.Second, 5*time.Millisecond)
	require.NoError(t, feed.Stop())

	assert.Equal(t, []Result{
		{Index: 0, Text: "hel"},
		{Index: 0, Text: "hello"},
		{Index: 0, Text: "hello there", Final: true},
		{Index: 7, Text: "second", Final: true},
	}, c.results())
}

func TestNDJSONFeedStopUnblocks(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	feed := NewNDJSONFeed(func() (io.ReadCloser, error) { return pr, nil })
	var c collector
	require.NoError(t, feed.Start(context.Background(), c.emit))
	assert.ErrorIs(t, feed.Start(context.Background(), c.emit), errFeedRunning)

	go pw.Write([]byte(`{"event":"final","text":"one"}` + "\n"))
	require.Eventually(t, func() bool { return len(c.results()) == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		feed.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
	assert.NoError(t, feed.Stop(), "second stop is a no-op")
}

func TestNDJSONFeedRestartContinues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(`{"event":"final","text":"one"}`+"\n"), 0o600))
	feed := NewFileFeed(path)

	var c collector
	require.NoError(t, feed.Start(context.Background(), c.emit))
	require.Eventually(t, func() bool { return len(c.results()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, feed.Stop())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"event":"final","text":"two"}` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, feed.Start(context.Background(), c.emit))
	require.Eventually(t, func() bool { return len(c.results()) >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, feed.Stop())

	assert.Equal(t, []Result{
		{Index: 0, Text: "one", Final: true},
		{Index: 1, Text: "two", Final: true},
	}, c.results())
}

func TestNDJSONFeedOpenError(t *testing.T) {
	feed := NewFileFeed(filepath.Join(t.TempDir(), "missing.ndjson"))
	assert.Error(t, feed.Start(context.Background(), func(Result) {}))
	assert.NoError(t, feed.Stop())
}

// Package capture defines the audio capture device and live transcription
// feed used by the recorder, with file-backed implementations.
package capture

import (
	"context"
	"io"
	"os"
	"slices"
)

// PreferredFormats is the order in which recording MIME types are tried.
var PreferredFormats = []string{"audio/webm", "audio/webm;codecs=opus", "audio/mp4"}

// FallbackFormat labels audio when the device supports none of PreferredFormats.
const FallbackFormat = "audio/webm"

// Device is an audio source that can be opened for one recording.
type Device interface {
	// Supports reports whether the device can produce the MIME type.
	Supports(mime string) bool
	// Open starts capture. Errors should be classifiable by Classify.
	Open(ctx context.Context, mime string) (io.ReadCloser, error)
}

// ChooseFormat returns the first preferred format the device supports, or
// FallbackFormat.
func ChooseFormat(d Device) string {
	for _, f := range PreferredFormats {
		if d.Supports(f) {
			return f
		}
	}
	return FallbackFormat
}

// FileDevice reads audio from a path: a regular file, FIFO or device node.
// "-" reads standard input.
type FileDevice struct {
	Path    string
	Formats []string
}

func (d *FileDevice) Supports(mime string) bool {
	return slices.Contains(d.Formats, mime)
}

func (d *FileDevice) Open(ctx context.Context, mime string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(err)
	}
	if d.Path == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, Classify(err)
	}
	return f, nil
}

// ReaderDevice adapts an io.Reader into a Device. It is useful for piping
// pre-recorded audio and in tests.
type ReaderDevice struct {
	R       io.Reader
	Formats []string
}

func (d *ReaderDevice) Supports(mime string) bool {
	return slices.Contains(d.Formats, mime)
}

func (d *ReaderDevice) Open(ctx context.Context, mime string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, Classify(err)
	}
	if rc, ok := d.R.(io.ReadCloser); ok {
		return rc, nil
	}
	return io.NopCloser(d.R), nil
}

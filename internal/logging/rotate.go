package logging

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Output returns console alone, or console plus a size-rotated file when
// path is set. The returned closer releases the file.
func Output(console io.Writer, path string) (io.Writer, io.Closer) {
	if path == "" {
		return console, nopCloser{}
	}
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return io.MultiWriter(console, rotator), rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

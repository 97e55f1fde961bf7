package capture

import (
	"context"
	"errors"
	"io/fs"
	"syscall"
)

// Kind classifies why a capture device could not be started.
type Kind int

const (
	Failed Kind = iota
	PermissionDenied
	DeviceNotFound
	DeviceBusy
	UnsupportedPlatform
	InsecureContext
	Aborted
)

func (k Kind) String() string {
	switch k {
	case PermissionDenied:
		return "permission_denied"
	case DeviceNotFound:
		return "device_not_found"
	case DeviceBusy:
		return "device_busy"
	case UnsupportedPlatform:
		return "unsupported_platform"
	case InsecureContext:
		return "insecure_context"
	case Aborted:
		return "aborted"
	default:
		return "capture_error"
	}
}

const unknownMessage = "Unknown error accessing microphone"

// Message returns the user-facing explanation for a failure kind.
func (k Kind) Message() string {
	switch k {
	case PermissionDenied:
		return "Microphone access denied. Allow mic access in your system settings and start again."
	case DeviceNotFound:
		return "No microphone found on this device or it is disabled."
	case DeviceBusy:
		return "Microphone is already in use by another application."
	case UnsupportedPlatform:
		return "Microphone or recording is not supported on this platform."
	case InsecureContext:
		return "Microphone access requires a secure context."
	case Aborted:
		return "Microphone access was aborted. Try again."
	default:
		return unknownMessage
	}
}

// Error is a classified capture failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == Failed && e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Message()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrUnsupported may be returned by a Device that cannot record on the
// current platform.
var ErrUnsupported = errors.New("recording not supported")

// ErrInsecure may be returned by a Device that refuses to open outside a
// trusted context.
var ErrInsecure = errors.New("insecure context")

// Classify maps a device error onto a capture Error. An existing *Error is
// returned unchanged; nil stays nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	kind := Failed
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = PermissionDenied
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENODEV), errors.Is(err, syscall.ENXIO):
		kind = DeviceNotFound
	case errors.Is(err, syscall.EBUSY):
		kind = DeviceBusy
	case errors.Is(err, ErrUnsupported), errors.Is(err, errors.ErrUnsupported):
		kind = UnsupportedPlatform
	case errors.Is(err, ErrInsecure):
		kind = InsecureContext
	case errors.Is(err, context.Canceled), errors.Is(err, syscall.EINTR):
		kind = Aborted
	}
	return &Error{Kind: kind, Err: err}
}

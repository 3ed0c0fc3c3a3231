// Package xerr defines the error taxonomy shared by every thermaldoc
// package. Each kind wraps an optional cause and supports errors.Is
// against its sentinel.
package xerr

import "fmt"

// Kind identifies which class of failure occurred.
type Kind int

const (
	_ Kind = iota
	KindInvalidDocument
	KindInvalidParam
	KindImageFetchFailed
	KindProtocolInvariantViolated
	KindDeviceUnavailable
	KindWriteTimedOut
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindInvalidDocument:
		return "invalid_document"
	case KindInvalidParam:
		return "invalid_param"
	case KindImageFetchFailed:
		return "image_fetch_failed"
	case KindProtocolInvariantViolated:
		return "protocol_invariant_violated"
	case KindDeviceUnavailable:
		return "device_unavailable"
	case KindWriteTimedOut:
		return "write_timed_out"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every thermaldoc package.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers
// can do errors.Is(err, xerr.DeviceUnavailableErr).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// InvalidDocument reports a document that fails schema validation.
func InvalidDocument(path, reason string) *Error {
	return newf(KindInvalidDocument, "%s: %s", path, reason)
}

// InvalidParam reports an out-of-range or malformed parameter on a
// component or pattern.
func InvalidParam(owner, name, reason string) *Error {
	return newf(KindInvalidParam, "%s.%s: %s", owner, name, reason)
}

// ImageFetchFailed reports a recoverable failure to obtain image pixels.
func ImageFetchFailed(url string, cause error) *Error {
	return &Error{Kind: KindImageFetchFailed, Message: url, Cause: cause}
}

// ProtocolInvariantViolated reports a codec/optimizer bug: a byte
// sequence was about to be emitted that violates a protocol invariant
// (e.g. a band-mode raster whose height is not a multiple of 24).
func ProtocolInvariantViolated(detail string) *Error {
	return newf(KindProtocolInvariantViolated, "%s", detail)
}

// DeviceUnavailable reports that the serial/Bluetooth sink could not be
// opened or a write to it failed.
func DeviceUnavailable(cause error) *Error {
	return &Error{Kind: KindDeviceUnavailable, Message: "device unavailable", Cause: cause}
}

// WriteTimedOut reports a transport-side write timeout.
func WriteTimedOut(detail string) *Error {
	return newf(KindWriteTimedOut, "%s", detail)
}

// Cancelled reports a caller-requested cancellation observed at a
// suspension point.
func Cancelled() *Error {
	return &Error{Kind: KindCancelled, Message: "cancelled"}
}

// Sentinels for use with errors.Is when only the kind matters.
var (
	DeviceUnavailableErr = &Error{Kind: KindDeviceUnavailable}
	CancelledErr         = &Error{Kind: KindCancelled}
	WriteTimedOutErr     = &Error{Kind: KindWriteTimedOut}
)

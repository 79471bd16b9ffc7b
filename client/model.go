package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/adamwoolhether/assetstore/errs"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = errs.MaxBodyExcerpt

// maxPayloadSize caps a metadata response body.
const maxPayloadSize = 16 << 20 // 16MB

// downloadSuffix marks downloaded packages as still encrypted.
const downloadSuffix = ".unitypackage.encrypted"

// execFn represents a func to operate on a successful response.
type execFn func(response *http.Response) error

// ErrInvalidArgument is returned when a caller-supplied argument is unusable.
var ErrInvalidArgument = errors.New("invalid argument")

// ProgressFunc receives human-readable milestones of an operation. It is
// invoked synchronously and may be nil.
type ProgressFunc func(message string)

func (fn ProgressFunc) report(format string, args ...any) {
	if fn != nil {
		fn(fmt.Sprintf(format, args...))
	}
}

// mapTransportErr translates transport timeouts and connection failures
// into [errs.ErrNetwork]. Failures already in the taxonomy and anything
// unrelated, including cancellation, are returned unchanged.
func mapTransportErr(err error, timeout time.Duration) error {
	var base *errs.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &base):
		return err
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return errs.Wrap(errs.ErrNetwork, err, fmt.Sprintf("request timeout after %s", timeout))
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errs.Wrap(errs.ErrNetwork, err, fmt.Sprintf("request timeout after %s", timeout))
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED):
		return errs.Wrap(errs.ErrNetwork, err, "connection error")
	}

	return err
}

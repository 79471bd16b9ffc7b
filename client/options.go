package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/afero"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/assetstore/client/throttle"
)

// Defaults applied by [Build].
const (
	DefaultRateLimitDelay = 1500 * time.Millisecond
	DefaultTimeout        = 30 * time.Second
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error
type options struct {
	rateLimitDelay   *time.Duration
	timeout          *time.Duration
	logger           *slog.Logger
	tracer           trace.Tracer
	downloadClient   *http.Client
	downloadThrottle *throttle.Config
	fs               afero.Fs
}

// WithRateLimitDelay sets the minimum delay between the end of one API call
// and the start of the next. Zero disables the delay but calls stay serialised.
func WithRateLimitDelay(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("rate limit delay must not be negative")
		}
		c.rateLimitDelay = &d
		return nil
	}
}

// WithTimeout bounds every API call, including reading its response. Zero
// disables the bound. For downloads it bounds the wait for response headers.
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = &d
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// WithTracer injects the tracer used to span each operation.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return errors.New("tracer must not be nil")
		}
		c.tracer = tracer
		return nil
	}
}

// WithDownloadClient replaces the unauthenticated [http.Client] used for
// CDN transfers.
func WithDownloadClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("download client must not be nil")
		}
		c.downloadClient = hc
		return nil
	}
}

// WithDownloadThrottle enables token-bucket limiting of CDN transfers with
// the given requests per second and burst capacity.
func WithDownloadThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.downloadThrottle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithFS sets the filesystem downloads are written to. It defaults to the
// operating system's filesystem.
//
// Destination confinement resolves symlinks on the operating system's
// filesystem, and fs then receives that resolved absolute path. A
// filesystem that remaps paths, such as [afero.NewBasePathFs], is not
// covered by the symlink check.
func WithFS(fs afero.Fs) Option {
	return func(c *options) error {
		if fs == nil {
			return errors.New("filesystem must not be nil")
		}
		c.fs = fs
		return nil
	}
}

// CallOption is a functional option for a single API call.
type CallOption func(*callOpts) error

type callOpts struct {
	progress   ProgressFunc
	offset     int
	limit      int
	searchText string
}

// WithProgress reports human-readable milestones of the call to fn.
func WithProgress(fn ProgressFunc) CallOption {
	return func(opts *callOpts) error {
		opts.progress = fn
		return nil
	}
}

// WithOffset skips the first n items of the collection.
func WithOffset(n int) CallOption {
	return func(opts *callOpts) error {
		if n < 0 {
			return errors.New("offset must not be negative")
		}
		opts.offset = n
		return nil
	}
}

// WithLimit caps the number of collection items returned. Zero means no limit.
func WithLimit(n int) CallOption {
	return func(opts *callOpts) error {
		if n < 0 {
			return errors.New("limit must not be negative")
		}
		opts.limit = n
		return nil
	}
}

// WithSearchText filters the collection by a search query.
func WithSearchText(s string) CallOption {
	return func(opts *callOpts) error {
		opts.searchText = s
		return nil
	}
}

func applyCallOpts(optFns []CallOption) (callOpts, error) {
	var settings callOpts
	for _, opt := range optFns {
		if err := opt(&settings); err != nil {
			return callOpts{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	return settings, nil
}

package client

import (
	"fmt"
	"hash"

	"github.com/adamwoolhether/assetstore/client/download"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types from [download].
// ————————————————————————————————————————————————————————————————————

type (
	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// DownloadResult describes the outcome of [Client.DownloadAsset].
	DownloadResult = download.Result
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch

	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch

	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled
)

// ————————————————————————————————————————————————————————————————————
// Download options
// ————————————————————————————————————————————————————————————————————

// DownloadOption is a functional option for [Client.DownloadAsset].
type DownloadOption func(*downloadOpts) error

type downloadOpts struct {
	progress ProgressFunc
	handle   []download.Option
}

// WithDownloadProgress reports milestones and periodic transfer progress to fn.
func WithDownloadProgress(fn ProgressFunc) DownloadOption {
	return func(opts *downloadOpts) error {
		opts.progress = fn
		opts.handle = append(opts.handle, download.WithProgress(download.ProgressFunc(fn)))
		return nil
	}
}

// WithChecksum enables checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return func(opts *downloadOpts) error {
		opts.handle = append(opts.handle, download.WithChecksum(h, expected))
		return nil
	}
}

// WithSkipExisting leaves an existing destination file in place and
// reports the download as successful without transferring anything.
func WithSkipExisting() DownloadOption {
	return func(opts *downloadOpts) error {
		opts.handle = append(opts.handle, download.WithSkipExisting())
		return nil
	}
}

func applyDownloadOpts(optFns []DownloadOption) (downloadOpts, error) {
	var settings downloadOpts
	for _, opt := range optFns {
		if err := opt(&settings); err != nil {
			return downloadOpts{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
	}

	return settings, nil
}

package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ChunkSize is the fixed read size used while streaming a body to disk.
const ChunkSize = 32 << 10

// Handle streams body to a temp file in the directory of destPath, which
// is renamed to destPath on success. On any error the temp file is removed.
// The returned count is the number of bytes written, including on failure.
func Handle(ctx context.Context, fsys afero.Fs, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) (int64, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return 0, fmt.Errorf("applying option: %w", err)
		}
	}

	if opts.skipExisting {
		if exists, err := afero.Exists(fsys, destPath); err == nil && exists {
			logger.Info("skipping existing file", "path", destPath)
			return 0, nil
		}
	}

	file, err := afero.TempFile(fsys, filepath.Dir(destPath), ".assetstore-dl-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := fsys.Remove(file.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var sink io.Writer = file
	if opts.checksum != nil {
		sink = io.MultiWriter(sink, opts.checksum)
	}

	pw := &progressWriter{
		w:         sink,
		logger:    logger,
		fn:        opts.progressFn,
		enabled:   opts.progress,
		total:     contentLength,
		startTime: time.Now(),
	}

	n, err := io.CopyBuffer(pw, &contextReader{ctx: ctx, r: body}, make([]byte, ChunkSize))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return n, fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		return n, fmt.Errorf("copying file body: %w", err)
	}

	if contentLength >= 0 && n != contentLength {
		return n, &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, n),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return n, err
	}

	if err := file.Sync(); err != nil {
		return n, fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}
	if err := fsys.Rename(file.Name(), destPath); err != nil {
		return n, fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	return n, nil
}

// contextReader stops a copy as soon as ctx ends.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}

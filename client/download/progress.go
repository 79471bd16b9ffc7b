package download

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

const bytesPerMB = 1 << 20

// progressWriter counts the bytes written through it and, when enabled,
// reports progress at most once per second.
type progressWriter struct {
	w           io.Writer
	logger      *slog.Logger
	fn          ProgressFunc
	enabled     bool
	transferred int64
	total       int64
	startTime   time.Time
	lastLog     time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if !pw.enabled {
		return n, err
	}

	if time.Since(pw.lastLog) >= time.Second {
		pw.lastLog = time.Now()
		pw.report("downloading")
	}

	if pw.total > 0 && pw.transferred == pw.total {
		pw.report("download complete")
	}

	return n, err
}

func (pw *progressWriter) report(msg string) {
	elapsed := time.Since(pw.startTime)

	var pct string
	if pw.total > 0 {
		pct = fmt.Sprintf("%.1f%%", float64(pw.transferred)/float64(pw.total)*100)
	} else {
		pct = "unknown"
	}

	pw.logger.Info(msg,
		"progress", pct,
		"elapsed", elapsed.Round(time.Millisecond),
		"transferred", pw.transferred,
		"total", pw.total,
		"mbps", fmt.Sprintf("%.2f", float64(pw.transferred)/elapsed.Seconds()/bytesPerMB),
	)

	if pw.fn == nil {
		return
	}
	if pw.total > 0 {
		pw.fn(fmt.Sprintf("%s: %.2f of %.2f MB (%s)", msg, float64(pw.transferred)/bytesPerMB, float64(pw.total)/bytesPerMB, pct))
		return
	}
	pw.fn(fmt.Sprintf("%s: %.2f MB", msg, float64(pw.transferred)/bytesPerMB))
}

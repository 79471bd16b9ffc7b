package download

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

var discardLogger = slog.New(slog.DiscardHandler)

func TestHandle_Success(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := fsys.MkdirAll("/dl", 0o755); err != nil {
		t.Fatal(err)
	}
	payload := bytes.Repeat([]byte("unitypackage"), 10_000)

	n, err := Handle(t.Context(), fsys, bytes.NewReader(payload), int64(len(payload)), "/dl/1.unitypackage.encrypted", discardLogger)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("n = %d, want %d", n, len(payload))
	}

	got, err := afero.ReadFile(fsys, "/dl/1.unitypackage.encrypted")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Error("written content differs from payload")
	}
	assertOnlyFiles(t, fsys, "/dl", "1.unitypackage.encrypted")
}

func TestHandle_OsFs(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "asset.bin")

	n, err := Handle(t.Context(), afero.NewOsFs(), strings.NewReader("hello"), -1, dest, discardLogger)
	if err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}
	if n != 5 {
		t.Errorf("n = %d, want 5", n)
	}
	assertOnlyFiles(t, afero.NewOsFs(), dir, "asset.bin")
}

func TestHandle_Failures(t *testing.T) {
	payload := []byte(strings.Repeat("x", 100))
	sum := sha256.Sum256(payload)

	testCases := map[string]struct {
		body          func(ctx context.Context, cancel context.CancelFunc) io.Reader
		contentLength int64
		opts          []Option
		expErr        error
		expN          int64
	}{
		"shortBody": {
			body:          func(context.Context, context.CancelFunc) io.Reader { return bytes.NewReader(payload[:40]) },
			contentLength: 100,
			expErr:        ErrContentLengthMismatch,
			expN:          40,
		},
		"truncatedTransfer": {
			body: func(context.Context, context.CancelFunc) io.Reader {
				return io.MultiReader(bytes.NewReader(payload[:60]), errReader{io.ErrUnexpectedEOF})
			},
			contentLength: 100,
			expErr:        io.ErrUnexpectedEOF,
			expN:          60,
		},
		"cancelledMidStream": {
			body: func(_ context.Context, cancel context.CancelFunc) io.Reader {
				return io.MultiReader(bytes.NewReader(payload[:10]), cancelReader{cancel: cancel}, bytes.NewReader(payload[10:]))
			},
			contentLength: 100,
			expErr:        ErrDownloadCancelled,
			expN:          10,
		},
		"checksumMismatch": {
			body:          func(context.Context, context.CancelFunc) io.Reader { return bytes.NewReader(payload) },
			contentLength: 100,
			opts:          []Option{WithChecksum(sha256.New(), strings.Repeat("0", 64))},
			expErr:        ErrChecksumMismatch,
			expN:          100,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			_ = fsys.MkdirAll("/dl", 0o755)
			ctx, cancel := context.WithCancel(t.Context())
			defer cancel()

			n, err := Handle(ctx, fsys, tc.body(ctx, cancel), tc.contentLength, "/dl/out.bin", discardLogger, tc.opts...)
			if !errors.Is(err, tc.expErr) {
				t.Fatalf("exp %v, got: %v", tc.expErr, err)
			}
			if n != tc.expN {
				t.Errorf("n = %d, want %d", n, tc.expN)
			}
			assertOnlyFiles(t, fsys, "/dl")
		})
	}

	t.Run("checksumMatch", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		_, err := Handle(t.Context(), fsys, bytes.NewReader(payload), 100, "/out.bin", discardLogger,
			WithChecksum(sha256.New(), strings.ToUpper(hex.EncodeToString(sum[:]))))
		if err != nil {
			t.Fatalf("exp nil err, got: %v", err)
		}
	})
}

func TestHandle_SkipExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/out.bin", []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := Handle(t.Context(), fsys, strings.NewReader("new"), 3, "/out.bin", discardLogger, WithSkipExisting())
	if err != nil || n != 0 {
		t.Fatalf("exp skip, got n=%d err=%v", n, err)
	}
	if got, _ := afero.ReadFile(fsys, "/out.bin"); string(got) != "old" {
		t.Errorf("existing file overwritten: %q", got)
	}
}

func TestHandle_FixedChunks(t *testing.T) {
	r := &recordingReader{r: bytes.NewReader(make([]byte, 5*ChunkSize+7))}

	if _, err := Handle(t.Context(), afero.NewMemMapFs(), r, -1, "/out.bin", discardLogger); err != nil {
		t.Fatal(err)
	}
	if r.maxRead > ChunkSize {
		t.Errorf("read size %d exceeds chunk size %d", r.maxRead, ChunkSize)
	}
}

func TestHandle_Progress(t *testing.T) {
	var msgs []string
	payload := []byte(strings.Repeat("y", 2048))

	_, err := Handle(t.Context(), afero.NewMemMapFs(), bytes.NewReader(payload), int64(len(payload)), "/out.bin", discardLogger,
		WithProgress(func(msg string) { msgs = append(msgs, msg) }))
	if err != nil {
		t.Fatal(err)
	}

	if len(msgs) == 0 {
		t.Fatal("exp progress messages")
	}
	if last := msgs[len(msgs)-1]; !strings.HasPrefix(last, "download complete") || !strings.Contains(last, "100.0%") {
		t.Errorf("last message = %q", last)
	}
}

func TestHandle_InvalidOption(t *testing.T) {
	if _, err := Handle(t.Context(), afero.NewMemMapFs(), strings.NewReader(""), 0, "/x", discardLogger, WithChecksum(nil, "ab")); err == nil {
		t.Fatal("exp option error")
	}
}

func assertOnlyFiles(t *testing.T, fsys afero.Fs, dir string, want ...string) {
	t.Helper()

	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("files in %s = %v, want %v", dir, got, want)
	}
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

// cancelReader cancels the download context the first time it is read.
type cancelReader struct{ cancel context.CancelFunc }

func (c cancelReader) Read([]byte) (int, error) {
	c.cancel()
	return 0, nil
}

type recordingReader struct {
	r       io.Reader
	maxRead int
}

func (rr *recordingReader) Read(p []byte) (int, error) {
	rr.maxRead = max(rr.maxRead, len(p))
	return rr.r.Read(p)
}

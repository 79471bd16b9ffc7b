// Package download streams HTTP response bodies to disk with optional
// checksum validation and progress reporting.
//
// [Handle] reads the body in fixed-size chunks into a temporary file next
// to the destination, then renames it into place once the transfer is
// complete and verified. A failed or cancelled transfer never leaves a file
// at the destination; the temporary file is removed and the number of bytes
// written before the failure is still reported:
//
//	n, err := download.Handle(ctx, afero.NewOsFs(), resp.Body, resp.ContentLength, destPath, logger,
//		download.WithProgress(func(msg string) { fmt.Println(msg) }),
//	)
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/assetstore/client] package, which invokes
// Handle internally and reports the outcome as a [Result].
package download

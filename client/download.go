package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/assetstore/auth"
	"github.com/adamwoolhether/assetstore/client/download"
	"github.com/adamwoolhether/assetstore/errs"
	"github.com/adamwoolhether/assetstore/pathsafe"
)

// DownloadAsset looks up uid and streams its package from the CDN to
// <outputDir>/<uid>.unitypackage.encrypted.
//
// An error is returned only for failures before the transfer starts: bad
// arguments, authentication, the metadata lookup, or an unsafe destination.
// Once the transfer begins, failures are reported through a Result whose
// Success is false, and no partial file is left behind.
func (c *Client) DownloadAsset(ctx context.Context, uid, outputDir string, optFns ...DownloadOption) (DownloadResult, error) {
	settings, err := applyDownloadOpts(optFns)
	if err != nil {
		return DownloadResult{}, err
	}
	if err := checkUID(uid); err != nil {
		return DownloadResult{}, err
	}
	if outputDir == "" {
		return DownloadResult{}, fmt.Errorf("%w: output directory must not be empty", ErrInvalidArgument)
	}

	ctx, span := c.tracer.Start(ctx, "client.download_asset", trace.WithAttributes(attribute.String("asset.uid", uid)))
	defer span.End()

	result, err := c.downloadAsset(ctx, uid, outputDir, settings)
	switch {
	case err != nil:
		recordErr(span, err)
	case !result.Success:
		recordErr(span, result.Err)
	default:
		span.SetAttributes(attribute.Int64("download.bytes", result.BytesWritten))
	}

	return result, err
}

func (c *Client) downloadAsset(ctx context.Context, uid, outputDir string, settings downloadOpts) (DownloadResult, error) {
	asset, err := c.getAsset(ctx, uid, settings.progress)
	if err != nil {
		return DownloadResult{}, err
	}

	if asset.DownloadKey == "" {
		return download.Failed(uid, asset, 0, errs.New(errs.ErrNotFound, fmt.Sprintf("asset %s has no downloadable package", uid))), nil
	}

	u, err := c.provider.Endpoints().Resolve(auth.OpDownload, map[string]string{auth.ParamKey: asset.DownloadKey})
	if err != nil {
		return download.Failed(uid, asset, 0, errs.Wrap(errs.ErrParse, err, "invalid download key")), nil
	}

	// destPath has symlinks resolved; create its directory, not outputDir.
	destPath, err := pathsafe.SafeDownloadPath(outputDir, uid+downloadSuffix)
	if err != nil {
		return DownloadResult{}, err
	}
	if err := c.fs.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return DownloadResult{}, fmt.Errorf("creating output directory: %w", err)
	}

	settings.progress.report("Downloading '%s'...", asset.Title)

	n, err := c.transfer(ctx, u, destPath, settings.handle)
	if err != nil {
		c.logger.Error("download failed", "uid", uid, "bytes", n, "error", err)
		return download.Failed(uid, asset, n, err), nil
	}

	settings.progress.report("Downloaded to %s", destPath)

	return download.Succeeded(asset, destPath, n), nil
}

// transfer fetches u without credentials and hands the body to
// [download.Handle].
func (c *Client) transfer(ctx context.Context, u *url.URL, destPath string, handleOpts []download.Option) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("instantiating request: %w", err)
	}

	var n int64
	err = c.exec(c.cdn, req, func(resp *http.Response) error {
		var err error
		n, err = download.Handle(ctx, c.fs, resp.Body, resp.ContentLength, destPath, c.logger, handleOpts...)
		return err
	})

	return n, transferErr(err, c.timeout)
}

// transferErr maps a failed transfer. Verification failures and
// cancellation keep their download sentinels; a truncated body is a
// network failure.
func transferErr(err error, timeout time.Duration) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, download.ErrDownloadCancelled), errors.Is(err, download.ErrChecksumMismatch):
		return err
	case errors.Is(err, download.ErrContentLengthMismatch):
		return errs.Wrap(errs.ErrNetwork, err, "incomplete transfer")
	}

	return mapTransportErr(err, timeout)
}

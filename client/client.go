package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/assetstore/auth"
	"github.com/adamwoolhether/assetstore/client/throttle"
	"github.com/adamwoolhether/assetstore/errs"
	"github.com/adamwoolhether/assetstore/model"
	"github.com/adamwoolhether/assetstore/validate"
	"github.com/adamwoolhether/assetstore/wire"
)

const tracerName = "github.com/adamwoolhether/assetstore/client"

// Client talks to the marketplace on behalf of one credential.
// API calls made through one Client are serialised and paced; separate
// Clients do not share pacing.
type Client struct {
	provider auth.Provider
	pacer    *throttle.Pacer
	timeout  time.Duration
	logger   *slog.Logger
	tracer   trace.Tracer
	cdn      *http.Client
	fs       afero.Fs
}

// Build constructs a Client backed by provider.
func Build(provider auth.Provider, optFns ...Option) (*Client, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider must not be nil", ErrInvalidArgument)
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	client := &Client{
		provider: provider,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		fs:       afero.NewOsFs(),
	}

	if opts.timeout != nil {
		client.timeout = *opts.timeout
	}
	if opts.logger != nil {
		client.logger = opts.logger
	}
	if opts.tracer != nil {
		client.tracer = opts.tracer
	}
	if opts.fs != nil {
		client.fs = opts.fs
	}

	delay := DefaultRateLimitDelay
	if opts.rateLimitDelay != nil {
		delay = *opts.rateLimitDelay
	}
	pacer, err := throttle.NewPacer(delay, func() *slog.Logger { return client.logger })
	if err != nil {
		return nil, fmt.Errorf("configuring pacer: %w", err)
	}
	client.pacer = pacer

	cdn, err := client.cdnClient(opts)
	if err != nil {
		return nil, err
	}
	client.cdn = cdn

	return client, nil
}

func (c *Client) cdnClient(opts options) (*http.Client, error) {
	var hc http.Client
	switch {
	case opts.downloadClient != nil:
		hc = *opts.downloadClient
	default:
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = c.timeout
		hc.Transport = transport
	}

	if opts.downloadThrottle != nil {
		next := hc.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		rt, err := throttle.NewRoundTripper(opts.downloadThrottle.RPS, opts.downloadThrottle.Burst, func() *slog.Logger { return c.logger }, next)
		if err != nil {
			return nil, fmt.Errorf("configuring download throttle: %w", err)
		}
		hc.Transport = rt
	}

	return &hc, nil
}

// GetAsset fetches the full metadata of one asset.
func (c *Client) GetAsset(ctx context.Context, uid string, optFns ...CallOption) (model.Asset, error) {
	settings, err := applyCallOpts(optFns)
	if err != nil {
		return model.Asset{}, err
	}

	ctx, span := c.tracer.Start(ctx, "client.get_asset", trace.WithAttributes(attribute.String("asset.uid", uid)))
	defer span.End()

	asset, err := c.getAsset(ctx, uid, settings.progress)
	if err != nil {
		recordErr(span, err)
		return model.Asset{}, err
	}

	return asset, nil
}

func (c *Client) getAsset(ctx context.Context, uid string, progress ProgressFunc) (model.Asset, error) {
	if err := checkUID(uid); err != nil {
		return model.Asset{}, err
	}

	progress.report("Fetching asset %s...", uid)

	u, err := c.provider.Endpoints().Resolve(auth.OpGetAsset, map[string]string{auth.ParamUID: uid})
	if err != nil {
		return model.Asset{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	raw, err := c.fetch(ctx, u)
	if err != nil {
		return model.Asset{}, fmt.Errorf("get asset[%s]: %w", uid, err)
	}

	product, err := wire.ProductFromRaw(raw)
	if err != nil {
		return model.Asset{}, fmt.Errorf("get asset[%s]: %w", uid, err)
	}

	asset := product.ToDomain()
	switch {
	case asset.UID == "":
		return model.Asset{}, errs.New(errs.ErrParse, fmt.Sprintf("asset %s: response has no package id", uid))
	case asset.UID != uid:
		return model.Asset{}, errs.New(errs.ErrParse, fmt.Sprintf("asset %s: response describes %s", uid, asset.UID))
	}

	progress.report("Asset '%s' fetched successfully", asset.Title)

	return asset, nil
}

// GetPurchases fetches the raw purchases listing, including the server
// reported total and category counts.
func (c *Client) GetPurchases(ctx context.Context, optFns ...CallOption) (wire.Purchases, error) {
	settings, err := applyCallOpts(optFns)
	if err != nil {
		return wire.Purchases{}, err
	}

	ctx, span := c.tracer.Start(ctx, "client.get_purchases", trace.WithAttributes(
		attribute.Int("query.offset", settings.offset),
		attribute.Int("query.limit", settings.limit),
	))
	defer span.End()

	purchases, err := c.getPurchases(ctx, settings)
	if err != nil {
		recordErr(span, err)
		return wire.Purchases{}, err
	}
	span.SetAttributes(attribute.Int("collection.size", len(purchases.Results)))

	return purchases, nil
}

func (c *Client) getPurchases(ctx context.Context, settings callOpts) (wire.Purchases, error) {
	settings.progress.report("Fetching Asset Store library...")

	u, err := c.provider.Endpoints().Resolve(auth.OpListCollection, nil)
	if err != nil {
		return wire.Purchases{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	q := u.Query()
	q.Set("offset", strconv.Itoa(settings.offset))
	if settings.limit > 0 {
		q.Set("limit", strconv.Itoa(settings.limit))
	}
	if settings.searchText != "" {
		q.Set("searchText", settings.searchText)
	}
	u.RawQuery = q.Encode()

	raw, err := c.fetch(ctx, u)
	if err != nil {
		return wire.Purchases{}, fmt.Errorf("get collection: %w", err)
	}

	purchases, err := wire.PurchasesFromRaw(raw)
	if err != nil {
		return wire.Purchases{}, fmt.Errorf("get collection: %w", err)
	}

	settings.progress.report("Found %d assets in library", len(purchases.Results))

	return purchases, nil
}

// GetCollection lists the assets owned by the credential.
func (c *Client) GetCollection(ctx context.Context, optFns ...CallOption) (model.Collection, error) {
	purchases, err := c.GetPurchases(ctx, optFns...)
	if err != nil {
		return model.Collection{}, err
	}

	return purchases.ToCollection(), nil
}

// GetLibrary is an alias of [Client.GetCollection].
func (c *Client) GetLibrary(ctx context.Context, optFns ...CallOption) (model.Collection, error) {
	return c.GetCollection(ctx, optFns...)
}

// fetch performs one paced, authenticated GET against u and decodes the
// response body.
func (c *Client) fetch(ctx context.Context, u *url.URL) (wire.Raw, error) {
	if c.provider.IsTokenExpired() {
		return nil, errs.New(errs.ErrTokenExpired, "access token has expired, please refresh tokens")
	}

	var raw wire.Raw
	err := c.pacer.Do(ctx, func() error {
		session, err := c.provider.Session()
		if err != nil {
			var base *errs.Error
			if errors.As(err, &base) {
				return err
			}
			return errs.Wrap(errs.ErrAuthentication, err, "creating session")
		}

		reqCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("instantiating request: %w", err)
		}
		requestID := uuid.NewString()
		req.Header.Set("X-Request-ID", requestID)
		otel.GetTextMapPropagator().Inject(reqCtx, propagation.HeaderCarrier(req.Header))

		start := time.Now()
		c.logger.Info("request started", "method", req.Method, "path", u.Path, "request_id", requestID)

		var status int
		err = c.exec(session, req, func(resp *http.Response) error {
			status = resp.StatusCode
			body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
			if err != nil {
				return fmt.Errorf("reading body: %w", err)
			}

			raw, err = wire.Decode(bytes.NewReader(body))
			return err
		})
		if err != nil {
			c.logger.Info("request failed", "path", u.Path, "request_id", requestID, "since", time.Since(start).String(), "error", err)
			return err
		}

		c.logger.Info("request completed", "path", u.Path, "request_id", requestID, "status", status, "since", time.Since(start).String())

		return nil
	})
	if err != nil {
		return nil, mapTransportErr(err, c.timeout)
	}

	return raw, nil
}

// exec runs the request and injected function on success after mapping
// any non-2xx status into the error taxonomy.
func (c *Client) exec(hc *http.Client, req *http.Request, fn execFn) error {
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err := io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		return errs.FromStatus(resp.StatusCode, string(b))
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

func checkUID(uid string) error {
	if err := validate.Var("uid", uid, "required"); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return nil
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"github.com/adamwoolhether/assetstore/errs"
	"github.com/adamwoolhether/assetstore/validate"
)

// EnvToken is the environment variable consulted when no token is given.
const EnvToken = "UNITY_ACCESS_TOKEN"

const redacted = "[REDACTED]"

// BearerOption configures a [Bearer] provider.
type BearerOption func(*bearerOpts) error

type bearerOpts struct {
	expiresAt time.Time
	userAgent string
	transport http.RoundTripper
	timeout   time.Duration
	now       func() time.Time
	envFiles  []string
}

// WithExpiration sets the instant the token stops being valid.
func WithExpiration(t time.Time) BearerOption {
	return func(o *bearerOpts) error {
		if t.IsZero() {
			return errors.New("expiration must not be zero")
		}
		o.expiresAt = t
		return nil
	}
}

// WithExpirationMillis sets the expiration as milliseconds since the Unix epoch.
func WithExpirationMillis(ms int64) BearerOption {
	return WithExpiration(time.UnixMilli(ms))
}

// WithUserAgent sets a User-Agent header on every request.
func WithUserAgent(ua string) BearerOption {
	return func(o *bearerOpts) error {
		o.userAgent = ua
		return nil
	}
}

// WithTransport replaces the base [http.RoundTripper] of the session.
func WithTransport(rt http.RoundTripper) BearerOption {
	return func(o *bearerOpts) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = rt
		return nil
	}
}

// WithTimeout sets the overall timeout of the session client.
func WithTimeout(d time.Duration) BearerOption {
	return func(o *bearerOpts) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = d
		return nil
	}
}

// WithClock replaces the clock used for expiry checks.
func WithClock(now func() time.Time) BearerOption {
	return func(o *bearerOpts) error {
		if now == nil {
			return errors.New("clock must not be nil")
		}
		o.now = now
		return nil
	}
}

// WithDotEnv names .env files to search for [EnvToken] when neither the
// argument nor the process environment holds a token. The files are read
// without modifying the process environment.
func WithDotEnv(paths ...string) BearerOption {
	return func(o *bearerOpts) error {
		o.envFiles = append(o.envFiles, paths...)
		return nil
	}
}

// Bearer is a [Provider] holding a single bearer token.
type Bearer struct {
	token     string
	endpoints Endpoints
	expiresAt time.Time
	userAgent string
	transport http.RoundTripper
	timeout   time.Duration
	now       func() time.Time

	once    sync.Once
	session *http.Client
}

// NewBearer constructs a Bearer provider. An empty token falls back to
// [EnvToken] and then to any [WithDotEnv] files.
//
// The expiry is taken from [WithExpiration] when given, otherwise from the
// exp claim when the token is a JWT. A token whose expiry is unknown is
// reported as expired.
func NewBearer(token string, endpoints Endpoints, opts ...BearerOption) (*Bearer, error) {
	settings := bearerOpts{
		transport: http.DefaultTransport,
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(&settings); err != nil {
			return nil, fmt.Errorf("applying bearer option: %w", err)
		}
	}

	if token == "" {
		token = os.Getenv(EnvToken)
	}
	if token == "" && len(settings.envFiles) > 0 {
		env, err := godotenv.Read(settings.envFiles...)
		if err != nil {
			return nil, errs.Wrap(errs.ErrAuthentication, err, "reading env files")
		}
		token = env[EnvToken]
	}
	if token == "" {
		return nil, errs.New(errs.ErrAuthentication, "no access token provided and "+EnvToken+" is not set")
	}

	for op, tmpl := range endpoints {
		if err := validate.Var(string(op), tmpl, "required,url"); err != nil {
			return nil, fmt.Errorf("invalid endpoint: %w", err)
		}
	}

	expiresAt := settings.expiresAt
	if expiresAt.IsZero() {
		expiresAt = jwtExpiry(token)
	}

	return &Bearer{
		token:     token,
		endpoints: endpoints.Clone(),
		expiresAt: expiresAt,
		userAgent: settings.userAgent,
		transport: settings.transport,
		timeout:   settings.timeout,
		now:       settings.now,
	}, nil
}

// Session returns the shared authenticated client.
func (b *Bearer) Session() (*http.Client, error) {
	b.once.Do(func() {
		b.session = &http.Client{
			Transport: bearerTransport{
				token:     b.token,
				userAgent: b.userAgent,
				base:      b.transport,
			},
			Timeout: b.timeout,
		}
	})

	return b.session, nil
}

// Endpoints returns a copy of the configured templates.
func (b *Bearer) Endpoints() Endpoints {
	return b.endpoints.Clone()
}

// IsTokenExpired reports whether the expiry is unknown or has passed.
func (b *Bearer) IsTokenExpired() bool {
	if b.expiresAt.IsZero() {
		return true
	}

	return !b.now().Before(b.expiresAt)
}

// ExpiresAt returns the token expiry, or the zero time when unknown.
func (b *Bearer) ExpiresAt() time.Time {
	return b.expiresAt
}

// String implements fmt.Stringer without revealing the token.
func (b *Bearer) String() string {
	if b.expiresAt.IsZero() {
		return "Bearer(token=" + redacted + ", expires=unknown)"
	}

	return fmt.Sprintf("Bearer(token=%s, expires=%s)", redacted, b.expiresAt.UTC().Format(time.RFC3339))
}

// GoString implements fmt.GoStringer without revealing the token.
func (b *Bearer) GoString() string {
	return "&auth." + b.String()
}

// LogValue implements slog.LogValuer without revealing the token.
func (b *Bearer) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("token", redacted),
		slog.Time("expires_at", b.expiresAt),
		slog.Bool("expired", b.IsTokenExpired()),
	)
}

// jwtExpiry returns the exp claim of an unverified JWT, or the zero time.
func jwtExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}

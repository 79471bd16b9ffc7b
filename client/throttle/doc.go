// Package throttle spaces out outbound requests.
//
// [Pacer] enforces a minimum delay measured from the end of one call to the
// start of the next, and serialises every caller sharing it. The marketplace
// client owns one Pacer per instance for its API calls:
//
//	p, err := throttle.NewPacer(1500*time.Millisecond, nil)
//	err = p.Do(ctx, func() error {
//		return fetch(ctx)
//	})
//
// [NewRoundTripper] wraps a transport with a token bucket from
// [golang.org/x/time/rate]. It is used for CDN transfers, which are not
// paced by the API clock:
//
//	rt, err := throttle.NewRoundTripper(
//		2, // transfers per second
//		1, // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	cdn := &http.Client{Transport: rt}
package throttle

package auth

import "net/http"

// bearerTransport attaches the credential headers to a clone of every request.
type bearerTransport struct {
	token     string
	userAgent string
	base      http.RoundTripper
}

func (bt bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("Authorization", "Bearer "+bt.token)
	cpy.Header.Set("Accept", "application/json")
	if bt.userAgent != "" {
		cpy.Header.Set("User-Agent", bt.userAgent)
	}

	return bt.base.RoundTrip(cpy)
}

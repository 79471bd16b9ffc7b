// Package auth supplies credentials and endpoint configuration to the
// marketplace client.
//
// The client depends only on the [Provider] capability, so any credential
// source can back it: [Bearer] holds a token given directly or found in the
// environment, while host applications may implement Provider on top of
// their own token stores.
//
//go:generate mockgen -destination=./mocks/provider.go . Provider
package auth

import "net/http"

// Provider supplies an authenticated session, the endpoint templates, and
// the freshness of the current credential.
type Provider interface {
	// Session returns a client that attaches the credential to every request.
	// Callers must not mutate it.
	Session() (*http.Client, error)
	// Endpoints returns the URL template for each operation.
	Endpoints() Endpoints
	// IsTokenExpired reports whether the credential is known to be unusable.
	// It has no side effects.
	IsTokenExpired() bool
}

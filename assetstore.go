// Package assetstore exposes the marketplace client builder.
package assetstore

import (
	"fmt"

	"github.com/adamwoolhether/assetstore/auth"
	"github.com/adamwoolhether/assetstore/client"
)

// NewClient instantiates a new *Client for provider with the provided options.
// If not specified, the default pacing delay and timeout are used.
func NewClient(provider auth.Provider, opts ...client.Option) (*client.Client, error) {
	return client.Build(provider, opts...)
}

// NewBearerClient builds a [auth.Bearer] provider from token and endpoints
// and instantiates a *Client on top of it. An empty token falls back to
// the UNITY_ACCESS_TOKEN environment variable.
func NewBearerClient(token string, endpoints auth.Endpoints, opts ...client.Option) (*client.Client, error) {
	provider, err := auth.NewBearer(token, endpoints)
	if err != nil {
		return nil, fmt.Errorf("creating bearer provider: %w", err)
	}

	return client.Build(provider, opts...)
}

// Package client talks to the Unity Asset Store on behalf of an
// [auth.Provider].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(provider,
//		client.WithRateLimitDelay(2*time.Second),
//		client.WithTimeout(10*time.Second),
//	)
//
// # Metadata
//
// Every API call checks the credential first, then waits for its turn: calls
// made through one Client are serialised and at least the rate limit delay
// apart, measured from the end of one call to the start of the next.
//
//	asset, err := c.GetAsset(ctx, "12345", client.WithProgress(fn))
//	coll, err := c.GetCollection(ctx, client.WithLimit(100))
//
// Failures belong to the [errs] taxonomy and can be matched with
// [errors.Is], e.g. errs.ErrTokenExpired or errs.ErrNotFound.
//
// # Downloading Packages
//
// [Client.DownloadAsset] resolves the package's download key and streams
// it from the CDN into the output directory. Once the transfer starts,
// failures are reported on the returned [DownloadResult] instead of as an
// error:
//
//	r, err := c.DownloadAsset(ctx, "12345", "/tmp/packages",
//		client.WithChecksum(sha256.New(), expectedHex),
//		client.WithDownloadProgress(fn),
//	)
//	if err != nil { ... }
//	if !r.Success { log.Println(r.Err) }
//
// For lower-level control see the
// [github.com/adamwoolhether/assetstore/client/download] package.
package client

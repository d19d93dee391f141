// Package apiclient provides the single HTTP client every backend call
// multiplexes through.
//
// The client injects a bearer token from a [TokenProvider] (or an
// oauth2.TokenSource via [WithTokenSource]), tags each request with a
// UUID request id, and unwraps the backend's {success, data, message}
// envelope into a raw JSON payload. Envelope failures and non-2xx
// statuses surface as [*APIError].
//
// GET requests are retried once by default to smooth over flaky
// networks; write requests are never retried, so a failed mutation is
// reported to the caller instead of being silently replayed.
//
//	client := apiclient.New(
//	    apiclient.WithBaseURL("https://api.example.com"),
//	    apiclient.WithTokenProvider(authStore),
//	)
//	raw, err := client.Get(ctx, "/courses", url.Values{"page": {"1"}})
package apiclient

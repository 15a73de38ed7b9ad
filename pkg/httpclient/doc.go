// Package httpclient builds the *http.Client used by tfx to talk to a
// collection.
//
// Clients come with secure defaults:
//   - TLS 1.2 minimum with certificate validation enabled
//   - a bounded request timeout
//   - User-Agent header injection
//   - request logging through log/slog with credential-bearing query
//     parameters redacted
//
// Authentication is layered on by the caller, usually by wrapping
// Client.Transport with a connection auth handler:
//
//	client, err := httpclient.New(httpclient.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	client.Transport = auth.Wrap(client.Transport)
//
// Requests are never retried; a failed call is reported to the user as is.
package httpclient

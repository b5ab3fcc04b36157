package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject fakes or different transports.
type Client interface {
	// Get issues a GET with the given query parameters and headers. Non-2xx
	// statuses are returned as responses, not errors.
	Get(ctx context.Context, url string, query, headers map[string]string) (Response, error)
}

package viacep

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultTimeout bounds a single round trip of the default HTTP client.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of a non-2xx body ends up in a StatusError.
const maxErrorBody = 512

// Transport issues a GET for a fully formed URL and returns the response
// body. The caller closes the body.
type Transport interface {
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPClient allows for mocking the HTTP client in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPTransport is a Transport over net/http. Non-2xx answers are returned
// as *StatusError.
type HTTPTransport struct {
	client HTTPClient
}

// NewHTTPTransport wraps client. A nil client gets NewHTTPClient(DefaultTimeout).
func NewHTTPTransport(client HTTPClient) *HTTPTransport {
	if client == nil {
		client = NewHTTPClient(DefaultTimeout)
	}
	return &HTTPTransport{client: client}
}

// NewHTTPClient returns an http.Client instrumented with otelhttp.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func (t *HTTPTransport) Get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return resp.Body, nil
}

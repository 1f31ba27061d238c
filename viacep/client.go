// Package viacep is a client for the ViaCEP postal-code web service.
//
// Client performs blocking lookups and returns errors; AsyncClient runs the
// same pipeline and reports every outcome through a Callback. Both validate
// input before any request is issued.
package viacep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/carlosfiori/viacep-go/viacep"

// Config holds client settings. Zero values select the defaults:
// SchemeHTTPS, DefaultHost, an HTTPTransport, a SonicDecoder and
// slog.Default(). Metrics is optional.
type Config struct {
	Scheme    Scheme
	Host      string
	Transport Transport
	Decoder   Decoder
	Logger    *slog.Logger
	Metrics   *Metrics
}

// Client is the synchronous ViaCEP client.
//
// The setters are not synchronized; do not call them while lookups are in
// flight.
type Client struct {
	scheme    Scheme
	host      string
	transport Transport
	decoder   Decoder
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer
}

func New(cfg Config) *Client {
	if cfg.Scheme == "" {
		cfg.Scheme = SchemeHTTPS
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Transport == nil {
		cfg.Transport = NewHTTPTransport(nil)
	}
	if cfg.Decoder == nil {
		cfg.Decoder = NewSonicDecoder()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		scheme:    cfg.Scheme,
		host:      cfg.Host,
		transport: cfg.Transport,
		decoder:   cfg.Decoder,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		tracer:    otel.Tracer(tracerName),
	}
}

func (c *Client) Scheme() Scheme { return c.scheme }

func (c *Client) SetScheme(s Scheme) { c.scheme = s }

func (c *Client) Host() string { return c.host }

func (c *Client) Transport() Transport { return c.transport }

func (c *Client) SetTransport(t Transport) { c.transport = t }

func (c *Client) Decoder() Decoder { return c.decoder }

func (c *Client) SetDecoder(d Decoder) { c.decoder = d }

// Async returns an AsyncClient sharing c's configuration.
func (c *Client) Async() *AsyncClient {
	return &AsyncClient{client: c}
}

// Address looks up a single CEP. Any non-digit characters in cep are
// dropped first. An unknown CEP yields (nil, nil).
func (c *Client) Address(ctx context.Context, cep string) (*Address, error) {
	q, err := NewCEPQuery(cep)
	if err != nil {
		c.reject(ctx, opAddress, err)
		return nil, err
	}
	return c.address(ctx, q)
}

// Search lists the addresses matching uf, localidade and logradouro.
// Zero matches yields an empty slice.
func (c *Client) Search(ctx context.Context, uf, localidade, logradouro string) ([]Address, error) {
	q, err := NewSearchQuery(uf, localidade, logradouro)
	if err != nil {
		c.reject(ctx, opSearch, err)
		return nil, err
	}
	return c.search(ctx, q)
}

// address runs the request and decode stages for a validated CEP query.
func (c *Client) address(ctx context.Context, q Query) (addr *Address, err error) {
	ctx, span := c.tracer.Start(ctx, "viacep: address")
	span.SetAttributes(attribute.String("viacep.cep", q.CEP))
	start := time.Now()
	defer func() {
		c.finish(span, opAddress, start, outcomeOf(addr != nil, err), err)
	}()

	err = c.get(ctx, opAddress, q, func(r io.Reader) (derr error) {
		addr, derr = decodeAddress(c.decoder, r)
		return derr
	})
	if err != nil {
		return nil, err
	}
	return addr, nil
}

// search runs the request and decode stages for a validated search query.
func (c *Client) search(ctx context.Context, q Query) (list []Address, err error) {
	ctx, span := c.tracer.Start(ctx, "viacep: search")
	span.SetAttributes(
		attribute.String("viacep.uf", q.UF),
		attribute.String("viacep.localidade", q.Localidade),
		attribute.String("viacep.logradouro", q.Logradouro),
	)
	start := time.Now()
	defer func() {
		c.finish(span, opSearch, start, outcomeOf(len(list) > 0, err), err)
	}()

	err = c.get(ctx, opSearch, q, func(r io.Reader) (derr error) {
		list, derr = decodeAddresses(c.decoder, r)
		return derr
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("viacep.results", len(list)))
	return list, nil
}

// get issues the request for q and hands the body to decode. The body is
// closed on every path. A panic in the Transport or Decoder is returned as a
// transport failure.
func (c *Client) get(ctx context.Context, op string, q Query, decode func(io.Reader) error) (err error) {
	url := q.URL(c.scheme, c.host)
	logger := c.logger.With("op", op, "url", url)
	logger.DebugContext(ctx, "requesting viacep")

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "recovered from panic in viacep lookup", "panic", r)
			err = transportError(op, fmt.Errorf("recovered from panic: %v", r))
		}
	}()

	body, err := c.transport.Get(ctx, url)
	if err != nil {
		logger.WarnContext(ctx, "viacep request failed", "error", err)
		return transportError(op, err)
	}
	defer body.Close()

	if err := decode(body); err != nil {
		logger.WarnContext(ctx, "failed to decode viacep response", "error", err)
		return decodeError(op, err)
	}
	return nil
}

// reject records a validation failure. No request is made.
func (c *Client) reject(ctx context.Context, op string, err error) {
	_, span := c.tracer.Start(ctx, "viacep: validate")
	span.SetAttributes(attribute.String("viacep.field", FieldOf(err)))
	c.logger.DebugContext(ctx, "viacep input rejected", "op", op, "error", err)
	c.finish(span, op, time.Now(), string(KindInvalidFormat), err)
}

func (c *Client) finish(span trace.Span, op string, start time.Time, outcome string, err error) {
	defer span.End()
	c.metrics.observeLookup(op, outcome, time.Since(start))

	span.SetAttributes(attribute.String("viacep.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return
	}
	span.SetStatus(codes.Ok, "")
}

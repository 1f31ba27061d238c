package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/carlosfiori/viacep-go/viacep"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "viacep-service"

var ErrNotFound = errors.New("can not find zipcode")

type Handler struct {
	Lookup AddressLookup
	Logger *slog.Logger

	// Gatherer backs /metrics. Nil serves prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
}

func NewHandler(lookup AddressLookup, logger *slog.Logger, gatherer prometheus.Gatherer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Lookup:   lookup,
		Logger:   logger,
		Gatherer: gatherer,
	}
}

func (h *Handler) AddressHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "viacep-service: handle-cep")
	defer span.End()

	cep := chi.URLParam(r, "cep")
	span.SetAttributes(attribute.String("cep", cep))
	h.Logger.InfoContext(ctx, "Request received", slog.String("cep", cep), slog.String("remote", r.RemoteAddr))

	addr, err := h.Lookup.Address(ctx, cep)
	if err != nil {
		h.fail(w, r, span, err, "invalid zipcode")
		return
	}
	if addr == nil {
		span.RecordError(ErrNotFound)
		span.SetStatus(codes.Error, "zipcode not found")
		h.Logger.InfoContext(ctx, "CEP not found", slog.String("cep", cep))
		WriteError(w, ErrNotFound.Error(), http.StatusNotFound)
		return
	}

	span.SetStatus(codes.Ok, "")
	WriteJSON(w, addr, http.StatusOK)
}

func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "viacep-service: handle-search")
	defer span.End()

	uf := pathParam(r, "uf")
	city := pathParam(r, "city")
	street := pathParam(r, "street")
	span.SetAttributes(
		attribute.String("uf", uf),
		attribute.String("localidade", city),
		attribute.String("logradouro", street),
	)
	h.Logger.InfoContext(ctx, "Search received",
		slog.String("uf", uf),
		slog.String("localidade", city),
		slog.String("logradouro", street),
	)

	list, err := h.Lookup.Search(ctx, uf, city, street)
	if err != nil {
		h.fail(w, r, span, err, "invalid "+viacep.FieldOf(err))
		return
	}

	span.SetAttributes(attribute.Int("viacep.results", len(list)))
	span.SetStatus(codes.Ok, "")
	WriteJSON(w, list, http.StatusOK)
}

// fail maps a lookup error to a response. invalidMsg is used for
// invalid-format errors.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error, invalidMsg string) {
	span.RecordError(err)

	switch viacep.KindOf(err) {
	case viacep.KindInvalidFormat:
		span.SetStatus(codes.Error, invalidMsg)
		h.Logger.InfoContext(r.Context(), "Rejected input", slog.Any("error", err))
		WriteError(w, invalidMsg, http.StatusUnprocessableEntity)
	case viacep.KindTransport, viacep.KindDecode:
		span.SetStatus(codes.Error, "upstream failure")
		h.Logger.ErrorContext(r.Context(), "Error querying ViaCEP", slog.Any("error", err))
		WriteError(w, "failed to query viacep", http.StatusBadGateway)
	default:
		span.SetStatus(codes.Error, "internal error")
		h.Logger.ErrorContext(r.Context(), "Unexpected lookup error", slog.Any("error", err))
		WriteError(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// pathParam returns a decoded path segment. chi matches on RawPath when the
// request has one (e.g. an escaped "/"), and on the decoded Path otherwise.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/cep/{cep}", h.AddressHandler)
	r.Get("/search/{uf}/{city}/{street}", h.SearchHandler)
	r.Get("/healthz", h.HealthHandler)

	if h.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))
	} else {
		r.Handle("/metrics", promhttp.Handler())
	}

	return otelhttp.NewHandler(r, "viacep-service-server")
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/emi-planner/internal/metrics"
	"github.com/iwvelando/emi-planner/internal/planner"
	"github.com/iwvelando/emi-planner/internal/store"
	"github.com/iwvelando/emi-planner/pkg/constants"
	"github.com/iwvelando/emi-planner/pkg/loans"
	"github.com/iwvelando/emi-planner/pkg/parse"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Options configures NewHandler. Zero values get working defaults: a no-op
// logger, an in-memory store, a fresh metrics registry and the global
// tracer.
type Options struct {
	Logger        *zap.Logger
	MaxUploadSize int64
	Version       string
	Store         store.LoanStore
	Metrics       *metrics.Metrics
	Tracer        trace.Tracer
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	store         store.LoanStore
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	planner       *planner.Planner
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		store:         opts.Store,
		metrics:       opts.Metrics,
		tracer:        opts.Tracer,
		planner:       planner.New(logger),
	}
	if h.store == nil {
		h.store = store.NewMemoryStore()
	}
	if h.metrics == nil {
		h.metrics = metrics.New()
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(constants.DefaultServiceName)
	}

	mux := http.NewServeMux()

	// Single-loan calculator
	mux.Handle("POST /api/emi", h.instrument("emi", h.handleEMI))
	mux.Handle("POST /api/prepayments", h.instrument("prepayments", h.handlePrepayments))

	// Multi-loan plans from an uploaded YAML file or the editor
	mux.Handle("POST /api/plan", h.instrument("plan", h.handlePlan))
	mux.Handle("POST /api/editor/plan", h.instrument("editor_plan", h.handlePlanEditor))
	mux.Handle("POST /api/editor/export", h.instrument("editor_export", h.handleConfigExport))

	// Saved loans
	mux.Handle("GET /api/loans", h.instrument("list_loans", h.handleListLoans))
	mux.Handle("POST /api/loans", h.instrument("save_loan", h.handleSaveLoan))
	mux.Handle("GET /api/loans/{id}", h.instrument("get_loan", h.handleGetLoan))
	mux.Handle("DELETE /api/loans/{id}", h.instrument("delete_loan", h.handleDeleteLoan))

	mux.HandleFunc("GET /api/version", h.handleVersion)
	mux.Handle("GET /metrics", h.metrics.Handler())

	return mux
}

// statusRecorder keeps the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// instrument wraps fn in a span and records request metrics under name.
func (h *handler) instrument(name string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := h.tracer.Start(r.Context(), "server."+name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.Pattern),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
		h.metrics.Requests.WithLabelValues(name, statusClass(rec.status)).Inc()
		h.metrics.RequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	})
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// statusFor maps an error to an HTTP status and a short error kind for
// metrics.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, parse.ErrInvalidNumber), errors.Is(err, parse.ErrInvalidDate):
		return http.StatusBadRequest, "parse"
	case errors.Is(err, loans.ErrInvalidLoanTerms):
		return http.StatusBadRequest, "loan_terms"
	case errors.Is(err, loans.ErrInvalidPrepaymentRow):
		return http.StatusBadRequest, "prepayment_row"
	case errors.Is(err, loans.ErrUnknownStrategy), errors.Is(err, planner.ErrUnknownMode), errors.Is(err, planner.ErrNoLoans):
		return http.StatusBadRequest, "plan"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// respondErr writes err with the status statusFor picks and counts it.
func (h *handler) respondErr(w http.ResponseWriter, r *http.Request, err error, name, op string) {
	status, kind := statusFor(err)
	h.metrics.CalculationErrors.WithLabelValues(name, kind).Inc()
	trace.SpanFromContext(r.Context()).RecordError(err)
	h.respondErrorWithOp(w, status, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

package numberreport

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"

	"github.com/malonaz/libphonenumber/go/logging"
	"github.com/malonaz/libphonenumber/go/phonenumber"
)

const (
	// RequestIDHeader is set on every response.
	RequestIDHeader = "X-Request-Id"

	defaultMaxBodyBytes = 1 << 20
	defaultMaxBatchSize = 1000

	errorTypeInvalidRequest = "INVALID_REQUEST"
	errorTypeInternal       = "INTERNAL"
)

// BatchRequest is the JSON body of a batch report request.
type BatchRequest struct {
	Region  string   `json:"region"`
	Numbers []string `json:"numbers"`
}

// BatchResponse holds the rows of a batch report.
type BatchResponse struct {
	Region string `json:"region"`
	Rows   []*Row `json:"rows"`
}

// ErrorResponse is returned with every non 2xx status.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// Handler serves reports over HTTP.
type Handler struct {
	log          *slog.Logger
	builder      *Builder
	maxBodyBytes int64
	maxBatchSize int
}

// NewHandler returns a handler serving reports built by builder.
func NewHandler(builder *Builder) *Handler {
	return &Handler{
		log:          slog.Default(),
		builder:      builder,
		maxBodyBytes: defaultMaxBodyBytes,
		maxBatchSize: defaultMaxBatchSize,
	}
}

func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.log = logger
	return h
}

// WithMaxBatchSize bounds the number of numbers a batch request may hold.
func (h *Handler) WithMaxBatchSize(maxBatchSize int) *Handler {
	h.maxBatchSize = maxBatchSize
	return h
}

// Routes maps the patterns served by the handler to their handler funcs.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"GET /v1/number":   h.withRequestID(h.handleNumber),
		"POST /v1/number":  h.withRequestID(h.handleNumber),
		"POST /v1/numbers": h.withRequestID(h.handleNumbers),
	}
}

// ServeMux returns a mux serving every route, for tests and standalone use.
func (h *Handler) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	for pattern, handler := range h.Routes() {
		mux.HandleFunc(pattern, handler)
	}
	return mux
}

func (h *Handler) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				h.writeError(w, r, http.StatusInternalServerError, errorTypeInternal, "generating request id")
				return
			}
			requestID = id.String()
		}
		w.Header().Set(RequestIDHeader, requestID)
		next(w, r.WithContext(logging.WithRequestID(r.Context(), requestID)))
	}
}

func (h *Handler) handleNumber(w http.ResponseWriter, r *http.Request) {
	request := &Request{
		Number:        r.URL.Query().Get("number"),
		DefaultRegion: r.URL.Query().Get("region"),
		Language:      r.URL.Query().Get("language"),
	}
	if r.Method == http.MethodPost && r.URL.Query().Get("number") == "" {
		if err := json.UnmarshalRead(http.MaxBytesReader(w, r.Body, h.maxBodyBytes), request); err != nil {
			h.writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, "decoding request: "+err.Error())
			return
		}
	}
	report, err := h.builder.Single(request)
	if err != nil {
		h.writeParseError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, report)
}

func (h *Handler) handleNumbers(w http.ResponseWriter, r *http.Request) {
	batchRequest := &BatchRequest{Region: r.URL.Query().Get("region")}
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if isJSON(r.Header.Get("Content-Type")) {
		if err := json.UnmarshalRead(body, batchRequest); err != nil {
			h.writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, "decoding request: "+err.Error())
			return
		}
	} else {
		text, err := io.ReadAll(body)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, "reading request: "+err.Error())
			return
		}
		batchRequest.Numbers = SplitBatch(string(text))
	}
	if len(batchRequest.Numbers) == 0 {
		h.writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, "no numbers")
		return
	}
	if h.maxBatchSize > 0 && len(batchRequest.Numbers) > h.maxBatchSize {
		h.writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, "too many numbers")
		return
	}

	rows, err := h.builder.Batch(r.Context(), batchRequest.Numbers, batchRequest.Region)
	if err != nil {
		h.writeError(w, r, http.StatusServiceUnavailable, errorTypeInternal, err.Error())
		return
	}
	if err := Errors(rows); err != nil {
		h.log.DebugContext(r.Context(), "batch has numbers that failed to parse", "error", err)
	}
	h.writeJSON(w, r, http.StatusOK, &BatchResponse{Region: normalizeRegion(batchRequest.Region), Rows: rows})
}

func (h *Handler) writeParseError(w http.ResponseWriter, r *http.Request, err error) {
	var parseError *phonenumber.ParseError
	if !errors.As(err, &parseError) {
		h.writeError(w, r, http.StatusInternalServerError, errorTypeInternal, err.Error())
		return
	}
	h.writeError(w, r, http.StatusBadRequest, parseError.Type.String(), err.Error())
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, errorType, message string) {
	h.log.InfoContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error_type", errorType, "error", message)
	h.writeJSON(w, r, status, &ErrorResponse{Error: message, ErrorType: errorType})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.MarshalWrite(w, v, json.Deterministic(true)); err != nil {
		h.log.WarnContext(r.Context(), "writing response", "error", err)
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

package mathsnap

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Handler serves the renderer over HTTP with JSON bodies:
//
//	POST /render                 {"equation": "...", "displayMode": true, "options": {...}}
//	POST /validate               {"equation": "..."}
//	POST /sanitize               {"equation": "..."}
//	GET  /equations              predefined or stored equations
//	GET  /equations/{name}
//	GET  /equations/{name}/render?display=true
//
// Requests beyond the configured rate get 429.
type Handler struct {
	renderer *Renderer
	cached   *CachedRenderer
	store    EquationStore
	limiter  *rate.Limiter
	logger   *zap.Logger
	maxBody  int64
	mux      *http.ServeMux
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRateLimit sets the sustained request rate and burst.
// Default: 50 requests per second, burst 20
func WithRateLimit(perSecond float64, burst int) HandlerOption {
	return func(h *Handler) {
		h.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithStore serves /equations from store instead of the predefined catalog.
func WithStore(store EquationStore) HandlerOption {
	return func(h *Handler) {
		h.store = store
	}
}

// WithResultCache serves repeated successful renders from a result cache.
func WithResultCache(config ResultCacheConfig) HandlerOption {
	return func(h *Handler) {
		h.cached = NewCachedRenderer(h.renderer, config)
	}
}

// WithHandlerLogger sets the logger for request failures.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxBodyBytes limits request body size. Default: 1MB
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		h.maxBody = n
	}
}

// NewHandler creates an HTTP handler around r.
func NewHandler(r *Renderer, opts ...HandlerOption) *Handler {
	h := &Handler{
		renderer: r,
		limiter:  rate.NewLimiter(rate.Limit(DefaultRatePerSec), DefaultRateBurst),
		logger:   zap.NewNop(),
		maxBody:  DefaultMaxBodyBytes,
		mux:      http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mux.HandleFunc(RoutePatternRender, h.handleRender)
	h.mux.HandleFunc(RoutePatternValidate, h.handleValidate)
	h.mux.HandleFunc(RoutePatternSanitize, h.handleSanitize)
	h.mux.HandleFunc(RoutePatternEquations, h.handleEquations)
	h.mux.HandleFunc(RoutePatternEquation, h.handleEquation)
	h.mux.HandleFunc(RoutePatternEquationRender, h.handleEquationRender)
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !h.limiter.Allow() {
		h.logger.Warn(LogMsgRequestRejected, zap.String(LogFieldPath, req.URL.Path))
		writeJSONError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
		return
	}
	h.mux.ServeHTTP(w, req)
}

// ValidateResponse is the body of POST /validate.
type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// SanitizeResponse is the body of POST /sanitize.
type SanitizeResponse struct {
	Equation string `json:"equation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleRender(w http.ResponseWriter, req *http.Request) {
	var body RenderRequest
	if !h.decode(w, req, &body) {
		return
	}
	if err := body.Options.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, MessageOf(err))
		return
	}
	writeJSON(w, http.StatusOK, h.render(body))
}

func (h *Handler) handleValidate(w http.ResponseWriter, req *http.Request) {
	var body RenderRequest
	if !h.decode(w, req, &body) {
		return
	}
	resp := ValidateResponse{Valid: true}
	if err := h.renderer.Check(body.Source); err != nil {
		resp = ValidateResponse{Valid: false, Message: MessageOf(err)}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSanitize(w http.ResponseWriter, req *http.Request) {
	var body RenderRequest
	if !h.decode(w, req, &body) {
		return
	}
	writeJSON(w, http.StatusOK, SanitizeResponse{Equation: Sanitize(body.Source)})
}

func (h *Handler) handleEquations(w http.ResponseWriter, req *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, Equations())
		return
	}
	list, err := h.store.List(req.Context(), nil)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) handleEquation(w http.ResponseWriter, req *http.Request) {
	eq, err := h.lookup(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, eq)
}

func (h *Handler) handleEquationRender(w http.ResponseWriter, req *http.Request) {
	eq, err := h.lookup(req)
	if err != nil {
		h.fail(w, req, err)
		return
	}

	renderReq := eq.Request()
	if display := req.URL.Query().Get(QueryParamDisplay); display != "" {
		mode, err := strconv.ParseBool(display)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		renderReq.DisplayMode = mode
	}
	writeJSON(w, http.StatusOK, h.render(renderReq))
}

func (h *Handler) render(req RenderRequest) RenderResult {
	if h.cached != nil {
		return h.cached.Render(req)
	}
	return h.renderer.Render(req)
}

// lookup finds the {name} equation in the store or the catalog.
func (h *Handler) lookup(req *http.Request) (*StoredEquation, error) {
	name := req.PathValue(PathValueName)
	if h.store != nil {
		return h.store.Get(req.Context(), name)
	}
	eq, ok := LookupEquation(name)
	if !ok {
		return nil, NewEquationNotFoundError(name)
	}
	return &StoredEquation{Name: eq.Name, Source: eq.Source, Description: eq.Description}, nil
}

func (h *Handler) decode(w http.ResponseWriter, req *http.Request, v any) bool {
	req.Body = http.MaxBytesReader(w, req.Body, h.maxBody)
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSONError(w, status, err.Error())
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, req *http.Request, err error) {
	if IsNotFound(err) {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	if IsInvalidEquationName(err) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error(LogMsgRequestFailed, zap.String(LogFieldPath, req.URL.Path), zap.Error(err))
	writeJSONError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Hans-byte2/Hochzeitsapp/internal/variant"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler serves a read-only view of the resolved module configuration.
type Handler struct {
	module *variant.Module

	clock    func() time.Time
	loadedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler over an assembled module.
func NewHandler(module *variant.Module, opts ...HandlerOption) *Handler {
	h := &Handler{
		module: module,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.loadedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
		LoadedAt:  h.loadedAt,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleModule(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, h.module.Describe())
}

func (h *Handler) handleVariants(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := variantsResponse{Variants: h.module.Describe().Variants}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVariant(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	view, err := h.module.DescribeVariant(name)
	if err != nil {
		if errors.Is(err, variant.ErrUnknownVariant) {
			writeError(w, http.StatusNotFound, "Unknown build variant", err.Error(),
				"known variants: "+strings.Join(h.variantNames(), ", "))
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) variantNames() []string {
	variants := h.module.Variants()
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		names = append(names, v.Name)
	}
	return names
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type variantsResponse struct {
	Variants []variant.VariantView `json:"variants"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	LoadedAt  time.Time `json:"loadedAt"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}

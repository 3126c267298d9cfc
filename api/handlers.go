package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/seedtabs/qrcoder/constant"
	"github.com/seedtabs/qrcoder/domain/label"
	"github.com/seedtabs/qrcoder/infrastructure/cache"
	appLogger "github.com/seedtabs/qrcoder/infrastructure/logger"
	"github.com/seedtabs/qrcoder/infrastructure/output"
)

// Renderer is the part of the label service the preview API needs
type Renderer interface {
	Render(ctx context.Context, pkgType label.PackageType, code int) (*label.Rendered, error)
	Variant() label.Variant
}

// Handler contains service dependencies for API handlers
type Handler struct {
	renderer    Renderer
	cache       *cache.NamespaceLRU
	log         *appLogger.Logger
	jpegQuality int
}

// PayloadResponse describes what a label encodes
type PayloadResponse struct {
	Code       int    `json:"code"`
	Type       string `json:"type"`
	Payload    string `json:"payload"`
	Version    int    `json:"version"`
	Overflowed bool   `json:"overflowed"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewHandler creates a new API handler
func NewHandler(renderer Renderer, lru *cache.NamespaceLRU, log *appLogger.Logger, jpegQuality int) *Handler {
	if log == nil {
		log = appLogger.NewNop()
	}
	return &Handler{
		renderer:    renderer,
		cache:       lru,
		log:         log,
		jpegQuality: jpegQuality,
	}
}

// labelParams reads and validates the {type} and {code} URL parameters
func (h *Handler) labelParams(w http.ResponseWriter, r *http.Request, fn string) (label.PackageType, int, bool) {
	ctx := r.Context()
	rawType := chi.URLParam(r, "type")
	rawCode := chi.URLParam(r, "code")

	pkgType, err := label.ParsePackageType(rawType)
	if err != nil {
		h.log.CtxWarn(ctx, "Invalid package type", appLogger.LoggerInfo{
			ContextFunction: fn,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIInvalidRequest,
				Message: err.Error(),
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataType: rawType,
			},
		})
		WriteJSONError(w, constant.ErrInvalidPackageType, http.StatusBadRequest)
		return "", 0, false
	}

	code, err := strconv.Atoi(rawCode)
	if err != nil || code < 0 {
		h.log.CtxWarn(ctx, "Invalid code", appLogger.LoggerInfo{
			ContextFunction: fn,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAPIInvalidRequest,
				Message: constant.ErrInvalidCode,
				Type:    constant.ErrTypeAPI,
			},
			Data: map[string]interface{}{
				constant.DataCode: rawCode,
			},
		})
		WriteJSONError(w, constant.ErrInvalidCode, http.StatusBadRequest)
		return "", 0, false
	}

	return pkgType, code, true
}

// renderError maps a render failure onto an HTTP status
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, fn string, code int, err error) {
	status := http.StatusInternalServerError
	message := "Failed to render label"
	if errors.Is(err, label.ErrCapacityExceeded) {
		status = http.StatusUnprocessableEntity
		message = constant.ErrCapacityExceeded
	}

	h.log.CtxError(r.Context(), "Error rendering label", appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeAPIRenderError,
			Message: err.Error(),
			Type:    constant.ErrTypeAPI,
		},
		Data: map[string]interface{}{
			constant.DataCode: code,
		},
	})

	WriteJSONError(w, message, status)
}

// GetLabel renders the label image for one code
func (h *Handler) GetLabel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pkgType, code, ok := h.labelParams(w, r, constant.CtxGetLabel)
	if !ok {
		return
	}

	format := h.renderer.Variant().Format
	key := strconv.Itoa(code)

	if h.cache != nil {
		if body, found := h.cache.Get(string(pkgType), key); found {
			hits, misses := h.cache.Stats()
			h.log.CtxDebug(ctx, "Label served from cache", appLogger.LoggerInfo{
				ContextFunction: constant.CtxGetLabel,
				Data: map[string]interface{}{
					constant.DataCode:     code,
					constant.DataType:     string(pkgType),
					constant.DataCacheHit: true,
					constant.DataHits:     hits,
					constant.DataMisses:   misses,
				},
			})
			writeImage(w, body, format)
			return
		}
	}

	rendered, err := h.renderer.Render(ctx, pkgType, code)
	if err != nil {
		h.renderError(w, r, constant.CtxGetLabel, code, err)
		return
	}

	body, err := output.EncodeBytes(rendered.Image, format, h.jpegQuality)
	if err != nil {
		h.renderError(w, r, constant.CtxGetLabel, code, err)
		return
	}

	data := map[string]interface{}{
		constant.DataCode:     code,
		constant.DataType:     string(pkgType),
		constant.DataPayload:  rendered.Payload,
		constant.DataSize:     len(body),
		constant.DataCacheHit: false,
	}
	if h.cache != nil {
		h.cache.Set(string(pkgType), key, body)
		data[constant.DataHits], data[constant.DataMisses] = h.cache.Stats()
	}

	h.log.CtxInfo(ctx, "Label rendered", appLogger.LoggerInfo{
		ContextFunction: constant.CtxGetLabel,
		Data:            data,
	})

	writeImage(w, body, format)
}

// GetLabelPayload reports what a label for one code would encode
func (h *Handler) GetLabelPayload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pkgType, code, ok := h.labelParams(w, r, constant.CtxGetLabelPayload)
	if !ok {
		return
	}

	rendered, err := h.renderer.Render(ctx, pkgType, code)
	if err != nil {
		h.renderError(w, r, constant.CtxGetLabelPayload, code, err)
		return
	}

	resp := PayloadResponse{
		Code:       code,
		Type:       string(pkgType),
		Payload:    rendered.Payload,
		Version:    rendered.Symbol.Version,
		Overflowed: rendered.Symbol.Overflowed(),
	}

	h.log.CtxDebug(ctx, "Label payload retrieved", appLogger.LoggerInfo{
		ContextFunction: constant.CtxGetLabelPayload,
		Data: map[string]interface{}{
			constant.DataCode:    code,
			constant.DataPayload: rendered.Payload,
			constant.DataVersion: rendered.Symbol.Version,
		},
	})

	WriteJSON(w, resp, http.StatusOK)
}

func writeImage(w http.ResponseWriter, body []byte, format label.ImageFormat) {
	w.Header().Set(constant.HeaderContentType, format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set(constant.HeaderContentType, "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

// WriteJSONError writes a JSON error response
func WriteJSONError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, ErrorResponse{
		Error: message,
		Code:  statusCode,
	}, statusCode)
}

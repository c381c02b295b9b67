package handlers

//go:generate mockgen -source=handlers.go -destination=mocks/mock_handlers.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Totarae/shortlinks/internal/model"
	"github.com/Totarae/shortlinks/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Service операции сервиса коротких ссылок, которые использует HTTP-слой.
type Service interface {
	Shorten(ctx context.Context, origin service.Origin, rawURL string) (string, error)
	ResolveURL(ctx context.Context, code string) (string, bool, error)
	Stats(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Handler содержит HTTP-обработчики сервиса
type Handler struct {
	Service Service
	Logger  *zap.Logger
}

// NewHandler создаёт обработчики
func NewHandler(svc Service, logger *zap.Logger) *Handler {
	return &Handler{Service: svc, Logger: logger}
}

// StatsResponse ответ GET /api/stats.
type StatsResponse struct {
	Links int `json:"links"`
}

// Redirect перенаправляет по коду на оригинальный URL (302) или отвечает 404.
func (h *Handler) Redirect(res http.ResponseWriter, req *http.Request) {
	code := chi.URLParam(req, "code")

	url, found, err := h.Service.ResolveURL(req.Context(), code)
	if err != nil {
		h.Logger.Error("resolve failed", zap.String("code", code), zap.Error(err))
		http.Error(res, "internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.NotFound(res, req)
		return
	}

	http.Redirect(res, req, url, http.StatusFound)
}

// Ping отвечает "pong"; ответ не кэшируется.
func (h *Handler) Ping(res http.ResponseWriter, _ *http.Request) {
	res.Header().Set("Cache-Control", "no-store")
	res.Header().Set("Content-Type", "text/plain; charset=utf-8")
	res.WriteHeader(http.StatusOK)
	res.Write([]byte("pong"))
}

// PingDB проверяет доступность хранилища.
func (h *Handler) PingDB(res http.ResponseWriter, req *http.Request) {
	if err := h.Service.Ping(req.Context()); err != nil {
		h.Logger.Error("storage ping failed", zap.Error(err))
		http.Error(res, "storage unavailable", http.StatusInternalServerError)
		return
	}
	res.Header().Set("Cache-Control", "no-store")
	res.WriteHeader(http.StatusOK)
}

// Health заглушка GET /api/shortenedUrls.
func (h *Handler) Health(res http.ResponseWriter, _ *http.Request) {
	h.writeJSON(res, http.StatusOK, "Ok")
}

// GetURL возвращает оригинальный URL по коду в виде JSON-строки.
func (h *Handler) GetURL(res http.ResponseWriter, req *http.Request) {
	code := chi.URLParam(req, "code")
	if strings.TrimSpace(code) == "" {
		h.writeJSON(res, http.StatusBadRequest, "code is required")
		return
	}

	url, found, err := h.Service.ResolveURL(req.Context(), code)
	if err != nil {
		h.Logger.Error("resolve failed", zap.String("code", code), zap.Error(err))
		h.writeJSON(res, http.StatusInternalServerError, "internal server error")
		return
	}
	if !found {
		h.writeJSON(res, http.StatusNotFound, "not found")
		return
	}
	h.writeJSON(res, http.StatusOK, url)
}

// CreateShortLink принимает {"url": "..."} и отвечает 201 с итоговой ссылкой
// в теле и заголовке Location.
func (h *Handler) CreateShortLink(res http.ResponseWriter, req *http.Request) {
	var body model.CreateShortLinkRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		h.writeJSON(res, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := h.Service.Shorten(req.Context(), service.OriginFromRequest(req), body.URL)
	if err != nil {
		if errors.Is(err, service.ErrEmptyURL) || errors.Is(err, service.ErrInvalidURL) {
			h.writeJSON(res, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("failed to create short link", zap.String("url", body.URL), zap.Error(err))
		h.writeJSON(res, http.StatusInternalServerError, "failed to create short link")
		return
	}

	res.Header().Set("Location", link)
	h.writeJSON(res, http.StatusCreated, link)
}

// Stats возвращает количество сохранённых ссылок.
func (h *Handler) Stats(res http.ResponseWriter, req *http.Request) {
	count, err := h.Service.Stats(req.Context())
	if err != nil {
		h.Logger.Error("failed to count links", zap.Error(err))
		h.writeJSON(res, http.StatusInternalServerError, "failed to retrieve stats")
		return
	}
	h.writeJSON(res, http.StatusOK, StatsResponse{Links: count})
}

func (h *Handler) writeJSON(res http.ResponseWriter, status int, v any) {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	if err := json.NewEncoder(res).Encode(v); err != nil {
		h.Logger.Warn("failed to encode response", zap.Error(err))
	}
}

package router

import (
	"time"

	"github.com/Totarae/shortlinks/internal/handlers"
	"github.com/Totarae/shortlinks/internal/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Options параметры маршрутизатора
type Options struct {
	CacheMaxAge time.Duration
	CORSOrigins []string
}

// NewRouter создаёт и настраивает маршрутизатор
func NewRouter(handler *handlers.Handler, logger *zap.Logger, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(middleware.GzipMiddleware)            // Gzip-сжатие

	cache := middleware.CacheControl(opts.CacheMaxAge)

	r.Get("/ping", handler.Ping)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(opts.CORSOrigins))

		r.Get("/shortenedUrls", handler.Health)
		r.With(cache).Get("/shortenedUrls/{code}", handler.GetURL)
		r.Get("/shortenedUrls/", handler.GetURL)
		r.Post("/shortenedUrls", handler.CreateShortLink)
		r.Get("/ping/db", handler.PingDB)
		r.Get("/stats", handler.Stats)
	})

	r.With(cache).Get("/{code}", handler.Redirect)
	return r
}

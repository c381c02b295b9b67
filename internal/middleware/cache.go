package middleware

import (
	"fmt"
	"net/http"
	"time"
)

type cacheResponseWriter struct {
	http.ResponseWriter
	value       string
	wroteHeader bool
}

func (c *cacheResponseWriter) WriteHeader(code int) {
	if !c.wroteHeader {
		c.wroteHeader = true
		// обработчик мог выставить свой Cache-Control
		if c.Header().Get("Cache-Control") == "" {
			if code < http.StatusBadRequest {
				c.Header().Set("Cache-Control", c.value)
			} else {
				c.Header().Set("Cache-Control", "no-store")
			}
		}
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *cacheResponseWriter) Write(b []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	return c.ResponseWriter.Write(b)
}

// CacheControl разрешает публичное кэширование успешных ответов на maxAge.
// Ошибочные ответы помечаются no-store. maxAge <= 0 отключает кэширование.
func CacheControl(maxAge time.Duration) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", int(maxAge.Seconds()))
	if maxAge <= 0 {
		value = "no-store"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&cacheResponseWriter{ResponseWriter: w, value: value}, r)
		})
	}
}

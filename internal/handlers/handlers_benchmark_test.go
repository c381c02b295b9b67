package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Totarae/shortlinks/internal/handlers"
	"github.com/Totarae/shortlinks/internal/service"
	"github.com/Totarae/shortlinks/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newBenchHandler(b *testing.B) (*handlers.Handler, *service.ShortenerService) {
	b.Helper()
	store, err := storage.NewMemoryStore("", zap.NewNop())
	if err != nil {
		b.Fatal(err)
	}
	svc := service.NewShortenerService(store, nil, zap.NewNop(), service.Options{})
	return handlers.NewHandler(svc, zap.NewNop()), svc
}

func BenchmarkCreateShortLink(b *testing.B) {
	h, _ := newBenchHandler(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body := fmt.Sprintf(`{"url":"https://yandex.ru/page/%d"}`, i)
		req := httptest.NewRequest(http.MethodPost, "/api/shortenedUrls", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.CreateShortLink(rec, req)
	}
}

func BenchmarkRedirect(b *testing.B) {
	h, svc := newBenchHandler(b)
	code, err := svc.RegisterURL(context.Background(), "https://yandex.ru/search")
	if err != nil {
		b.Fatal(err)
	}

	r := chi.NewRouter()
	r.Get("/{code}", h.Redirect)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/"+code, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
	}
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// Допустимая длина кода короткой ссылки.
const (
	MinCodeLength = 3
	MaxCodeLength = 128
	// MinURLLength минимальная длина оригинального URL.
	MinURLLength = 12
)

// ShortLink представляет сохранённое сопоставление кода и оригинального URL.
// Запись только создаётся: после вставки не изменяется и не удаляется.
type ShortLink struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewShortLink создаёт новую запись с системным идентификатором и временем создания.
func NewShortLink(code, url string) *ShortLink {
	return &ShortLink{
		ID:        uuid.New(),
		Code:      code,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}
}

package model

import "time"

// Entry представляет структуру записи в файле хранилища (одна JSON-строка на запись)
type Entry struct {
	ID        string    `json:"uuid"`
	Code      string    `json:"short_url"`
	URL       string    `json:"original_url"`
	CreatedAt time.Time `json:"created_at"`
}

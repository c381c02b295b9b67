package model

import "errors"

var (
	// ErrNotFound возвращается хранилищем, если запись не найдена.
	ErrNotFound = errors.New("short link not found")
	// ErrCodeConflict возвращается при вставке, если код уже занят другой ссылкой.
	ErrCodeConflict = errors.New("short code already taken")
)

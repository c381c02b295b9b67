package util

import (
	"net/url"
	"strings"
	"unicode"
)

// символы, которые должны быть экранированы в корректном URL
const unsafeURLChars = "<>\"{}|\\^`"

// IsValidURL проверяет, что строка является абсолютным http/https URL с хостом.
// Пробельные, управляющие и неэкранированные небезопасные символы недопустимы.
func IsValidURL(raw string) bool {
	if !strings.HasPrefix(strings.ToLower(raw), "http") {
		return false
	}
	if strings.ContainsAny(raw, unsafeURLChars) {
		return false
	}
	for _, r := range raw {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return u.Host != "" && u.Hostname() != ""
}

// DefaultPort возвращает порт по умолчанию для схемы ("80" для http, "443" для https).
func DefaultPort(scheme string) string {
	switch strings.ToLower(scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}

package util

import (
	"math/rand"
	"strings"
)

// Alphabet содержит 62 символа, из которых составляются коды коротких ссылок.
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomCode генерирует случайный код заданной длины из Alphabet.
// Генератор общий для процесса и безопасен для конкурентного использования.
func RandomCode(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(Alphabet[rand.Intn(len(Alphabet))])
	}
	return sb.String()
}

// IsAlphanumeric проверяет, что строка состоит только из символов Alphabet.
func IsAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(Alphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}

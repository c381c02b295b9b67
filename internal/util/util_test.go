package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomCode(t *testing.T) {
	for _, length := range []int{3, 6, 32, 128} {
		code := RandomCode(length)
		assert.Len(t, code, length)
		assert.True(t, IsAlphanumeric(code), "code %q", code)
	}
}

func TestRandomCode_Differs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[RandomCode(12)] = struct{}{}
	}
	assert.Greater(t, len(seen), 95)
}

func TestAlphabet(t *testing.T) {
	assert.Len(t, Alphabet, 62)
	uniq := make(map[rune]struct{})
	for _, r := range Alphabet {
		uniq[r] = struct{}{}
	}
	assert.Len(t, uniq, 62)
}

func TestIsAlphanumeric(t *testing.T) {
	assert.True(t, IsAlphanumeric("abcXYZ019"))
	assert.False(t, IsAlphanumeric("abc-def"))
	assert.False(t, IsAlphanumeric("абв"))
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com/path?q=1", true},
		{"HTTPS://EXAMPLE.COM", true},
		{"https://example.com:8443/a", true},
		{"//host/path", false},
		{"ftp://example.com", false},
		{"example.com", false},
		{"http:///path", false},
		{"httpfoo://example.com", false},
		{"", false},
		{"https://example.com/a b c", false},
		{"http://example.com/<script>", false},
		{"https://example.com/a\tb", false},
		{"https://example.com/\x7f", false},
		{`https://example.com/"quoted"`, false},
		{"https://example.com/{id}", false},
		{"https://example.com/a|b", false},
		{"https://example.com/a\\b", false},
		{"https://example.com/a^b", false},
		{"https://example.com/a`b", false},
		{"https://example.com/a%20b", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidURL(tt.raw))
		})
	}
}

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, "80", DefaultPort("http"))
	assert.Equal(t, "443", DefaultPort("HTTPS"))
	assert.Equal(t, "", DefaultPort("ftp"))
}

package service

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Totarae/shortlinks/internal/util"
)

// Origin схема, хост, порт и путь, к которым добавляется код короткой ссылки.
type Origin struct {
	Scheme string
	Host   string
	Port   string
	Path   string
}

// ParseOrigin разбирает базовый URL. Допустимы только абсолютные http/https URL с хостом.
func ParseOrigin(raw string) (Origin, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Origin{}, err
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Origin{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return Origin{}, fmt.Errorf("base URL %q has no host", raw)
	}
	return Origin{
		Scheme: scheme,
		Host:   u.Hostname(),
		Port:   u.Port(),
		Path:   u.Path,
	}, nil
}

// OriginFromRequest определяет origin по входящему запросу.
// Схема берётся из X-Forwarded-Proto, иначе https при TLS, иначе http.
func OriginFromRequest(r *http.Request) Origin {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	// из заголовка принимаются только http и https
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		switch p := strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0])); p {
		case "http", "https":
			scheme = p
		}
	}
	return OriginFromHostPort(scheme, r.Host)
}

// OriginFromHostPort собирает origin из схемы и строки host[:port].
func OriginFromHostPort(scheme, hostport string) Origin {
	u := url.URL{Host: hostport}
	return Origin{
		Scheme: strings.ToLower(scheme),
		Host:   u.Hostname(),
		Port:   u.Port(),
	}
}

// Link возвращает абсолютную ссылку на код. Порт по умолчанию для схемы
// (80 для http, 443 для https) и завершающие слэши отбрасываются.
func (o Origin) Link(code string) string {
	host := strings.TrimRight(o.Host, ":/")
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if o.Port != "" && o.Port != util.DefaultPort(o.Scheme) {
		host += ":" + o.Port
	}
	path := strings.TrimRight(o.Path, "/")
	return fmt.Sprintf("%s://%s%s/%s", o.Scheme, host, path, code)
}

// FinalLink строит итоговую ссылку: на базовом URL, если он задан, иначе на origin запроса.
func (s *ShortenerService) FinalLink(origin Origin, code string) string {
	if s.base != nil {
		return s.base.Link(code)
	}
	return origin.Link(code)
}

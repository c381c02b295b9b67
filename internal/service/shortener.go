package service

//go:generate mockgen -source=shortener.go -destination=mocks/mock_shortener.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Totarae/shortlinks/internal/model"
	"github.com/Totarae/shortlinks/internal/util"
	"go.uber.org/zap"
)

var (
	// ErrEmptyURL возвращается при пустом URL.
	ErrEmptyURL = errors.New("empty url")
	// ErrInvalidURL возвращается, если строка не является абсолютным http/https URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrCodeExhausted возвращается, если за MaxCodeAttempts попыток не найден свободный код.
	ErrCodeExhausted = errors.New("failed to generate unique short code")
)

// Значения по умолчанию для Options.
const (
	DefaultCodeLength      = 6
	DefaultMaxCodeAttempts = 10
)

// Repository хранилище коротких ссылок.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*model.ShortLink, error)
	GetByURL(ctx context.Context, url string) (*model.ShortLink, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	InsertOrGet(ctx context.Context, link *model.ShortLink) (*model.ShortLink, bool, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// Cache кэш code -> url.
type Cache interface {
	Get(ctx context.Context, code string) (string, bool, error)
	Set(ctx context.Context, code, url string) error
}

// Options параметры сервиса.
type Options struct {
	CodeLength      int
	MaxCodeAttempts int
	// BaseURL если задан и корректен, используется для построения итоговой ссылки
	// вместо хоста входящего запроса.
	BaseURL string
}

type ShortenerService struct {
	Repo            Repository
	Cache           Cache
	Logger          *zap.Logger
	CodeLength      int
	MaxCodeAttempts int

	base      *Origin
	candidate func(length int) string
}

// NewShortenerService создаёт сервис. cache может быть nil.
func NewShortenerService(repo Repository, cache Cache, logger *zap.Logger, opts Options) *ShortenerService {
	s := &ShortenerService{
		Repo:            repo,
		Cache:           cache,
		Logger:          logger,
		CodeLength:      opts.CodeLength,
		MaxCodeAttempts: opts.MaxCodeAttempts,
		candidate:       util.RandomCode,
	}
	if s.CodeLength < model.MinCodeLength || s.CodeLength > model.MaxCodeLength {
		if s.CodeLength != 0 {
			logger.Warn("code length out of range, default used",
				zap.Int("code_length", s.CodeLength), zap.Int("default", DefaultCodeLength))
		}
		s.CodeLength = DefaultCodeLength
	}
	if s.MaxCodeAttempts <= 0 {
		s.MaxCodeAttempts = DefaultMaxCodeAttempts
	}

	if opts.BaseURL != "" {
		base, err := ParseOrigin(opts.BaseURL)
		if err != nil {
			logger.Warn("base URL ignored", zap.String("base_url", opts.BaseURL), zap.Error(err))
		} else {
			s.base = &base
		}
	}
	return s
}

// ValidateURL проверяет URL до обращения к хранилищу.
func ValidateURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return ErrEmptyURL
	}
	if len(url) < model.MinURLLength || !util.IsValidURL(url) {
		return ErrInvalidURL
	}
	return nil
}

// GenerateCode возвращает случайный код, не занятый на момент проверки.
// При совпадении с существующим кодом генерирует новый, не более MaxCodeAttempts раз.
func (s *ShortenerService) GenerateCode(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= s.MaxCodeAttempts; attempt++ {
		code := s.candidate(s.CodeLength)

		exists, err := s.Repo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
		s.Logger.Warn("duplicated code generated",
			zap.String("code", code), zap.Int("attempt", attempt))
	}
	return "", ErrCodeExhausted
}

// RegisterURL возвращает код для URL. Для уже сохранённого URL возвращается
// существующий код, иначе создаётся новая запись.
func (s *ShortenerService) RegisterURL(ctx context.Context, rawURL string) (string, error) {
	url := strings.TrimSpace(rawURL)
	if err := ValidateURL(url); err != nil {
		return "", err
	}

	existing, err := s.Repo.GetByURL(ctx, url)
	if err == nil {
		return existing.Code, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return "", fmt.Errorf("lookup url: %w", err)
	}

	for attempt := 1; attempt <= s.MaxCodeAttempts; attempt++ {
		code, err := s.GenerateCode(ctx)
		if err != nil {
			return "", err
		}

		stored, created, err := s.Repo.InsertOrGet(ctx, model.NewShortLink(code, url))
		if errors.Is(err, model.ErrCodeConflict) {
			// код заняли между проверкой и вставкой
			s.Logger.Warn("code taken on insert", zap.String("code", code), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("save short link: %w", err)
		}

		if created {
			s.Logger.Info("short link created", zap.String("code", stored.Code), zap.String("url", stored.URL))
		}
		s.cacheSet(ctx, stored.Code, stored.URL)
		return stored.Code, nil
	}
	return "", ErrCodeExhausted
}

// ResolveURL возвращает URL по коду. found=false, если код не зарегистрирован.
func (s *ShortenerService) ResolveURL(ctx context.Context, code string) (url string, found bool, err error) {
	if len(code) < model.MinCodeLength || len(code) > model.MaxCodeLength {
		return "", false, nil
	}

	if s.Cache != nil {
		cached, hit, cacheErr := s.Cache.Get(ctx, code)
		if cacheErr != nil {
			s.Logger.Warn("cache get failed", zap.String("code", code), zap.Error(cacheErr))
		} else if hit {
			return cached, true, nil
		}
	}

	link, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("resolve code: %w", err)
	}

	s.cacheSet(ctx, link.Code, link.URL)
	return link.URL, true, nil
}

// Shorten регистрирует URL и возвращает итоговую короткую ссылку.
func (s *ShortenerService) Shorten(ctx context.Context, origin Origin, rawURL string) (string, error) {
	code, err := s.RegisterURL(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return s.FinalLink(origin, code), nil
}

// Stats возвращает количество сохранённых ссылок.
func (s *ShortenerService) Stats(ctx context.Context) (int, error) {
	count, err := s.Repo.Count(ctx)
	if err != nil {
		s.Logger.Error("failed to retrieve stats", zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *ShortenerService) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

func (s *ShortenerService) cacheSet(ctx context.Context, code, url string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, code, url); err != nil {
		s.Logger.Warn("cache set failed", zap.String("code", code), zap.Error(err))
	}
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Totarae/shortlinks/internal/database"
	"github.com/Totarae/shortlinks/internal/model"
	"github.com/jackc/pgx/v5"
)

// LinkRepository хранит короткие ссылки в PostgreSQL.
// Уникальность code и url обеспечивается индексами таблицы short_links.
type LinkRepository struct {
	DB database.Querier
}

// NewLinkRepository создаёт новый экземпляр LinkRepository.
func NewLinkRepository(db database.Querier) *LinkRepository {
	return &LinkRepository{DB: db}
}

const selectColumns = `SELECT id, code, url, created_at FROM short_links`

// GetByCode извлекает запись по коду. Сравнение кода чувствительно к регистру.
func (r *LinkRepository) GetByCode(ctx context.Context, code string) (*model.ShortLink, error) {
	return r.getOne(ctx, selectColumns+` WHERE code = $1`, code)
}

// GetByURL извлекает запись по оригинальному URL.
func (r *LinkRepository) GetByURL(ctx context.Context, url string) (*model.ShortLink, error) {
	return r.getOne(ctx, selectColumns+` WHERE url = $1`, url)
}

// CodeExists проверяет, занят ли код.
func (r *LinkRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM short_links WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check code: %w", err)
	}
	return exists, nil
}

// InsertOrGet сохраняет запись одной командой INSERT ... ON CONFLICT DO NOTHING.
// Если вставка не прошла из-за уже сохранённого URL, возвращается существующая
// запись и created=false. Если конфликт только по коду — model.ErrCodeConflict.
func (r *LinkRepository) InsertOrGet(ctx context.Context, link *model.ShortLink) (*model.ShortLink, bool, error) {
	query := `INSERT INTO short_links (id, code, url, created_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT DO NOTHING
              RETURNING id, code, url, created_at`

	stored := &model.ShortLink{}
	err := r.DB.QueryRow(ctx, query, link.ID, link.Code, link.URL, link.CreatedAt).
		Scan(&stored.ID, &stored.Code, &stored.URL, &stored.CreatedAt)
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("database insert error: %w", err)
	}

	// Конфликт: либо URL уже сохранён, либо код занят другой ссылкой
	existing, lookupErr := r.GetByURL(ctx, link.URL)
	if lookupErr == nil {
		return existing, false, nil
	}
	if errors.Is(lookupErr, model.ErrNotFound) {
		return nil, false, model.ErrCodeConflict
	}
	return nil, false, fmt.Errorf("failed to fetch existing short link: %w", lookupErr)
}

// Count возвращает количество сохранённых ссылок.
func (r *LinkRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM short_links`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count short links: %w", err)
	}
	return count, nil
}

// Ping проверяет доступность базы данных.
func (r *LinkRepository) Ping(ctx context.Context) error {
	return r.DB.Ping(ctx)
}

func (r *LinkRepository) getOne(ctx context.Context, query string, arg string) (*model.ShortLink, error) {
	link := &model.ShortLink{}
	err := r.DB.QueryRow(ctx, query, arg).Scan(&link.ID, &link.Code, &link.URL, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return link, nil
}

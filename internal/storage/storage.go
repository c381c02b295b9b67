package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/Totarae/shortlinks/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryStore хранит короткие ссылки в памяти и, если задан путь,
// дописывает каждую новую запись в JSON-файл (по одной на строку).
// Уникальность кода и URL обеспечивается под одним мьютексом.
type MemoryStore struct {
	mu     sync.RWMutex
	byCode map[string]*model.ShortLink
	byURL  map[string]string
	file   *os.File
	path   string
	logger *zap.Logger
}

// NewMemoryStore создаёт хранилище и загружает ранее сохранённые записи из файла.
// Пустой path означает хранение только в памяти.
func NewMemoryStore(path string, logger *zap.Logger) (*MemoryStore, error) {
	s := &MemoryStore{
		byCode: make(map[string]*model.ShortLink),
		byURL:  make(map[string]string),
		path:   path,
		logger: logger,
	}
	if path == "" {
		return s, nil
	}

	if err := s.loadFromFile(); err != nil {
		return nil, fmt.Errorf("load storage file: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open storage file: %w", err)
	}
	s.file = file
	return s, nil
}

// GetByCode возвращает запись по коду (с учётом регистра).
func (s *MemoryStore) GetByCode(_ context.Context, code string) (*model.ShortLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	link, ok := s.byCode[code]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *link
	return &cp, nil
}

// GetByURL возвращает запись по оригинальному URL.
func (s *MemoryStore) GetByURL(_ context.Context, url string) (*model.ShortLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.byURL[url]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *s.byCode[code]
	return &cp, nil
}

// CodeExists проверяет, занят ли код.
func (s *MemoryStore) CodeExists(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byCode[code]
	return ok, nil
}

// InsertOrGet атомарно сохраняет запись. Если URL уже сохранён, возвращает
// существующую запись и created=false. Если занят только код — model.ErrCodeConflict.
func (s *MemoryStore) InsertOrGet(_ context.Context, link *model.ShortLink) (*model.ShortLink, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if code, ok := s.byURL[link.URL]; ok {
		cp := *s.byCode[code]
		return &cp, false, nil
	}
	if _, ok := s.byCode[link.Code]; ok {
		return nil, false, model.ErrCodeConflict
	}

	if s.file != nil {
		entry := model.Entry{
			ID:        link.ID.String(),
			Code:      link.Code,
			URL:       link.URL,
			CreatedAt: link.CreatedAt,
		}
		if err := s.appendToFile(entry); err != nil {
			return nil, false, fmt.Errorf("append to storage file: %w", err)
		}
	}

	stored := *link
	s.byCode[link.Code] = &stored
	s.byURL[link.URL] = link.Code

	cp := stored
	return &cp, true, nil
}

// Len возвращает количество сохранённых записей.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCode)
}

// Count возвращает количество сохранённых ссылок.
func (s *MemoryStore) Count(context.Context) (int, error) {
	return s.Len(), nil
}

// Ping всегда успешен для хранилища в памяти.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close закрывает файл хранилища.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// loadFromFile загружает данные из файла при старте сервера
func (s *MemoryStore) loadFromFile() error {
	file, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Файл ещё не создан, это не ошибка
		}
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var entry model.Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			s.logger.Warn("skip malformed storage entry",
				zap.String("path", s.path), zap.Int("line", line), zap.Error(err))
			continue
		}
		id, err := uuid.Parse(entry.ID)
		if err != nil {
			id = uuid.New()
		}
		if _, dup := s.byCode[entry.Code]; dup {
			continue
		}
		if _, dup := s.byURL[entry.URL]; dup {
			continue
		}
		s.byCode[entry.Code] = &model.ShortLink{
			ID:        id,
			Code:      entry.Code,
			URL:       entry.URL,
			CreatedAt: entry.CreatedAt,
		}
		s.byURL[entry.URL] = entry.Code
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	s.logger.Info("storage file loaded", zap.String("path", s.path), zap.Int("links", len(s.byCode)))
	return nil
}

// appendToFile добавляет новую запись в файл
func (s *MemoryStore) appendToFile(entry model.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.file.Write(append(data, '\n'))
	return err
}

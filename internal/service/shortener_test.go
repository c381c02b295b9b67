package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Totarae/shortlinks/internal/model"
	"github.com/Totarae/shortlinks/internal/service/mocks"
	"github.com/Totarae/shortlinks/internal/storage"
	"github.com/Totarae/shortlinks/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newMemoryService(t *testing.T, opts Options) (*ShortenerService, *storage.MemoryStore) {
	t.Helper()
	store, err := storage.NewMemoryStore("", zap.NewNop())
	require.NoError(t, err)
	return NewShortenerService(store, nil, zap.NewNop(), opts), store
}

// sequence возвращает генератор, выдающий коды по порядку.
func sequence(codes ...string) func(int) string {
	i := 0
	return func(int) string {
		c := codes[i%len(codes)]
		i++
		return c
	}
}

func TestNewShortenerService_Defaults(t *testing.T) {
	s, _ := newMemoryService(t, Options{})
	assert.Equal(t, DefaultCodeLength, s.CodeLength)
	assert.Equal(t, DefaultMaxCodeAttempts, s.MaxCodeAttempts)
}

func TestNewShortenerService_CodeLengthOutOfRange(t *testing.T) {
	for _, length := range []int{-1, 1, 2, 129} {
		s, _ := newMemoryService(t, Options{CodeLength: length})
		assert.Equal(t, DefaultCodeLength, s.CodeLength, "length %d", length)

		ctx := context.Background()
		code, err := s.RegisterURL(ctx, fmt.Sprintf("https://yandex.ru/len/%d", length))
		require.NoError(t, err)
		assert.Len(t, code, DefaultCodeLength)

		url, found, err := s.ResolveURL(ctx, code)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, fmt.Sprintf("https://yandex.ru/len/%d", length), url)
	}
}

func TestGenerateCode_LengthAndAlphabet(t *testing.T) {
	for _, length := range []int{3, 6, 10} {
		s, _ := newMemoryService(t, Options{CodeLength: length})
		for i := 0; i < 50; i++ {
			code, err := s.GenerateCode(context.Background())
			require.NoError(t, err)
			assert.Len(t, code, length)
			assert.True(t, util.IsAlphanumeric(code), "code %q", code)
		}
	}
}

func TestGenerateCode_RetriesOnCollision(t *testing.T) {
	s, store := newMemoryService(t, Options{CodeLength: 6})
	ctx := context.Background()
	_, _, err := store.InsertOrGet(ctx, model.NewShortLink("taken1", "https://yandex.ru/taken"))
	require.NoError(t, err)

	s.candidate = sequence("taken1", "taken1", "free01")
	code, err := s.GenerateCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "free01", code)
}

func TestGenerateCode_Exhausted(t *testing.T) {
	s, store := newMemoryService(t, Options{CodeLength: 6, MaxCodeAttempts: 3})
	ctx := context.Background()
	_, _, err := store.InsertOrGet(ctx, model.NewShortLink("taken1", "https://yandex.ru/taken"))
	require.NoError(t, err)

	s.candidate = sequence("taken1")
	_, err = s.GenerateCode(ctx)
	assert.ErrorIs(t, err, ErrCodeExhausted)
}

func TestGenerateCode_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().CodeExists(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))

	s := NewShortenerService(repo, nil, zap.NewNop(), Options{})
	_, err := s.GenerateCode(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}

func TestRegisterURL_SameURLSameCode(t *testing.T) {
	s, store := newMemoryService(t, Options{CodeLength: 6})
	ctx := context.Background()

	code1, err := s.RegisterURL(ctx, "https://yandex.ru/search?text=go")
	require.NoError(t, err)
	code2, err := s.RegisterURL(ctx, "https://yandex.ru/search?text=go")
	require.NoError(t, err)

	assert.Equal(t, code1, code2)
	assert.Equal(t, 1, store.Len())

	link, err := store.GetByCode(ctx, code1)
	require.NoError(t, err)
	assert.Equal(t, "https://yandex.ru/search?text=go", link.URL)
	assert.False(t, link.CreatedAt.IsZero())
}

func TestRegisterURL_TrimsInput(t *testing.T) {
	s, _ := newMemoryService(t, Options{})
	ctx := context.Background()

	code1, err := s.RegisterURL(ctx, "  https://yandex.ru/trim \n")
	require.NoError(t, err)
	code2, err := s.RegisterURL(ctx, "https://yandex.ru/trim")
	require.NoError(t, err)
	assert.Equal(t, code1, code2)
}

func TestRegisterURL_ValidationBeforeStorage(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want error
	}{
		{name: "empty", url: "", want: ErrEmptyURL},
		{name: "blank", url: "   ", want: ErrEmptyURL},
		{name: "no scheme", url: "//host/path", want: ErrInvalidURL},
		{name: "ftp", url: "ftp://example.com/file", want: ErrInvalidURL},
		{name: "too short", url: "http://a.io", want: ErrInvalidURL},
		{name: "relative", url: "example.com/some/path", want: ErrInvalidURL},
		{name: "inner spaces", url: "https://example.com/a b c", want: ErrInvalidURL},
		{name: "angle brackets", url: "http://example.com/<script>", want: ErrInvalidURL},
		{name: "control char", url: "https://example.com/a\x00b", want: ErrInvalidURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// ни одного вызова хранилища не ожидается
			repo := mocks.NewMockRepository(ctrl)
			s := NewShortenerService(repo, nil, zap.NewNop(), Options{})

			_, err := s.RegisterURL(context.Background(), tt.url)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegisterURL_LostRaceOnURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	ctx := context.Background()
	const url = "https://yandex.ru/race"

	gomock.InOrder(
		repo.EXPECT().GetByURL(ctx, url).Return(nil, model.ErrNotFound),
		repo.EXPECT().CodeExists(ctx, "mine01").Return(false, nil),
		repo.EXPECT().InsertOrGet(ctx, gomock.Any()).Return(model.NewShortLink("their1", url), false, nil),
	)

	s := NewShortenerService(repo, nil, zap.NewNop(), Options{})
	s.candidate = sequence("mine01")

	code, err := s.RegisterURL(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "their1", code)
}

func TestRegisterURL_LostRaceOnCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	ctx := context.Background()
	const url = "https://yandex.ru/race"

	gomock.InOrder(
		repo.EXPECT().GetByURL(ctx, url).Return(nil, model.ErrNotFound),
		repo.EXPECT().CodeExists(ctx, "first1").Return(false, nil),
		repo.EXPECT().InsertOrGet(ctx, gomock.Any()).Return(nil, false, model.ErrCodeConflict),
		repo.EXPECT().CodeExists(ctx, "secnd2").Return(false, nil),
		repo.EXPECT().InsertOrGet(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, link *model.ShortLink) (*model.ShortLink, bool, error) {
				return link, true, nil
			}),
	)

	s := NewShortenerService(repo, nil, zap.NewNop(), Options{})
	s.candidate = sequence("first1", "secnd2")

	code, err := s.RegisterURL(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, "secnd2", code)
}

func TestRegisterURL_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	dbErr := errors.New("database insert error")

	repo.EXPECT().GetByURL(gomock.Any(), gomock.Any()).Return(nil, model.ErrNotFound)
	repo.EXPECT().CodeExists(gomock.Any(), gomock.Any()).Return(false, nil)
	repo.EXPECT().InsertOrGet(gomock.Any(), gomock.Any()).Return(nil, false, dbErr)

	s := NewShortenerService(repo, nil, zap.NewNop(), Options{})
	_, err := s.RegisterURL(context.Background(), "https://yandex.ru/err")
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrInvalidURL)
}

func TestRegisterURL_LookupError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	dbErr := errors.New("timeout")
	repo.EXPECT().GetByURL(gomock.Any(), gomock.Any()).Return(nil, dbErr)

	s := NewShortenerService(repo, nil, zap.NewNop(), Options{})
	_, err := s.RegisterURL(context.Background(), "https://yandex.ru/err")
	assert.ErrorIs(t, err, dbErr)
}

func TestResolveURL(t *testing.T) {
	s, _ := newMemoryService(t, Options{})
	ctx := context.Background()

	code, err := s.RegisterURL(ctx, "https://yandex.ru/resolve")
	require.NoError(t, err)

	url, found, err := s.ResolveURL(ctx, code)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://yandex.ru/resolve", url)

	_, found, err = s.ResolveURL(ctx, "zzzzzz")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveURL_CodeOutOfRangeSkipsStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	s := NewShortenerService(repo, nil, zap.NewNop(), Options{})

	_, found, err := s.ResolveURL(context.Background(), "ab")
	require.NoError(t, err)
	assert.False(t, found)

	long := make([]byte, model.MaxCodeLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, found, err = s.ResolveURL(context.Background(), string(long))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResolveURL_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	repo.EXPECT().GetByCode(gomock.Any(), "abc123").Return(nil, errors.New("boom"))

	s := NewShortenerService(repo, nil, zap.NewNop(), Options{})
	_, found, err := s.ResolveURL(context.Background(), "abc123")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestResolveURL_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), "abc123").Return("https://yandex.ru/cached", true, nil)

	s := NewShortenerService(repo, cache, zap.NewNop(), Options{})
	url, found, err := s.ResolveURL(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://yandex.ru/cached", url)
}

func TestResolveURL_CacheMissPopulates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), "abc123").Return("", false, nil),
		repo.EXPECT().GetByCode(gomock.Any(), "abc123").Return(model.NewShortLink("abc123", "https://yandex.ru/db"), nil),
		cache.EXPECT().Set(gomock.Any(), "abc123", "https://yandex.ru/db").Return(nil),
	)

	s := NewShortenerService(repo, cache, zap.NewNop(), Options{})
	url, found, err := s.ResolveURL(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://yandex.ru/db", url)
}

func TestResolveURL_CacheErrorFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)

	cache.EXPECT().Get(gomock.Any(), "abc123").Return("", false, errors.New("redis down"))
	repo.EXPECT().GetByCode(gomock.Any(), "abc123").Return(model.NewShortLink("abc123", "https://yandex.ru/db"), nil)
	cache.EXPECT().Set(gomock.Any(), "abc123", "https://yandex.ru/db").Return(errors.New("redis down"))

	s := NewShortenerService(repo, cache, zap.NewNop(), Options{})
	url, found, err := s.ResolveURL(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://yandex.ru/db", url)
}

func TestRegisterURL_PopulatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	store, err := storage.NewMemoryStore("", zap.NewNop())
	require.NoError(t, err)

	cache.EXPECT().Set(gomock.Any(), "fixed1", "https://yandex.ru/cache").Return(nil)

	s := NewShortenerService(store, cache, zap.NewNop(), Options{})
	s.candidate = sequence("fixed1")
	code, err := s.RegisterURL(context.Background(), "https://yandex.ru/cache")
	require.NoError(t, err)
	assert.Equal(t, "fixed1", code)
}

func TestShorten(t *testing.T) {
	s, _ := newMemoryService(t, Options{})
	s.candidate = sequence("Qwe123")

	link, err := s.Shorten(context.Background(), Origin{Scheme: "http", Host: "localhost", Port: "8080"}, "https://yandex.ru/shorten")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/Qwe123", link)
}

func TestStatsAndPing(t *testing.T) {
	s, _ := newMemoryService(t, Options{})
	ctx := context.Background()
	_, err := s.RegisterURL(ctx, "https://yandex.ru/one")
	require.NoError(t, err)
	_, err = s.RegisterURL(ctx, "https://yandex.ru/two")
	require.NoError(t, err)

	count, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, s.Ping(ctx))
}

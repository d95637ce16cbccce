package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, ok := b.Get(ctx, "listing:abc:2026101910")
	assert.False(t, ok, "empty backend should miss")

	payload := []byte(`{"format":"articles/v1","articles":[]}`)
	require.NoError(t, b.Put(ctx, "listing:abc:2026101910", payload))

	got, ok := b.Get(ctx, "listing:abc:2026101910")
	require.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))

	// 同 key 覆盖写，后写者胜出
	payload2 := []byte(`{"format":"articles/v1","articles":[{"title":"x"}]}`)
	require.NoError(t, b.Put(ctx, "listing:abc:2026101910", payload2))
	got, ok = b.Get(ctx, "listing:abc:2026101910")
	require.True(t, ok)
	assert.JSONEq(t, string(payload2), string(got))
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestMemoryBackendConcurrentAccess(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "k" + string(rune('a'+i))
			_ = b.Put(ctx, key, []byte("v"))
			_, _ = b.Get(ctx, key)
			_, _ = b.Get(ctx, "shared")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 20, b.Len())
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)
	exerciseBackend(t, b)

	// key 中的路径分隔符不能逃出缓存目录
	require.NoError(t, b.Put(context.Background(), "story:../../etc:all", []byte("{}")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, e.IsDir())
	}
}

func TestRedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBackend(client, time.Hour)
	exerciseBackend(t, b)

	assert.Equal(t, time.Hour, mr.TTL("listing:abc:2026101910"))
}

func TestRedisBackendDownIsMiss(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBackend(client, time.Hour)
	mr.Close()

	_, ok := b.Get(context.Background(), "any")
	assert.False(t, ok)
}

func TestTieredBackfillsL1(t *testing.T) {
	ctx := context.Background()
	l1, l2 := NewMemoryBackend(), NewMemoryBackend()
	tiered := &Tiered{L1: l1, L2: l2}

	require.NoError(t, l2.Put(ctx, "category:x:20261019", []byte("[]")))

	got, ok := tiered.Get(ctx, "category:x:20261019")
	require.True(t, ok)
	assert.Equal(t, "[]", string(got))

	got, ok = l1.Get(ctx, "category:x:20261019")
	require.True(t, ok, "L2 hit should backfill L1")
	assert.Equal(t, "[]", string(got))

	exerciseBackend(t, tiered)
}

func TestPostgresBackend(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	b, err := OpenPostgres(dsn)
	require.NoError(t, err)
	require.NoError(t, b.DB.Where("key LIKE ?", "listing:abc:%").Delete(&CacheEntry{}).Error)
	exerciseBackend(t, b)
}

func TestFileAssetsKeepsExtension(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileAssets(dir)
	require.NoError(t, err)

	p1, err := a.Save(context.Background(), []byte("img"), ".JPG")
	require.NoError(t, err)
	p2, err := a.Save(context.Background(), []byte("img"), "png")
	require.NoError(t, err)

	assert.Equal(t, ".jpg", filepath.Ext(p1))
	assert.Equal(t, ".png", filepath.Ext(p2))
	assert.NotEqual(t, p1, p2)
	assert.Equal(t, dir, filepath.Dir(p1))

	data, err := os.ReadFile(p1)
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	_, err = a.Save(context.Background(), nil, ".jpg")
	assert.Error(t, err)
}

func TestOpenUnknownKind(t *testing.T) {
	_, err := Open(Options{Kind: "memcached"})
	assert.Error(t, err)

	b, err := Open(Options{Kind: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)
}

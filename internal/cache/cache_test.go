package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/LJTian/NewsRelay/internal/news"
	"github.com/LJTian/NewsRelay/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArticles() []news.Article {
	ts := time.Date(2021, time.March, 15, 10, 30, 0, 0, time.UTC)
	return []news.Article{
		{
			Title:       "Primera",
			Link:        "https://www.cubanet.org/noticias/primera/",
			PubDate:     news.PubDate{Display: "lunes, 15 de marzo de 2021 | 10:30 am", Time: &ts},
			Description: "Resumen",
			Category:    []string{"Noticias", "Cuba"},
			Author:      "Redacción",
			LeadImage:   &news.LeadImage{Source: "https://x/img.jpg", Asset: "/tmp/a.jpg", Alt: "foto"},
			Content:     []string{"uno", "dos"},
		},
		{Title: "Segunda", Link: "/noticias/segunda/"},
	}
}

func TestKeyFormatAndBuckets(t *testing.T) {
	now := time.Date(2026, time.October, 19, 15, 42, 0, 0, time.UTC)

	k := Key("listing", "feed", Hourly, now)
	parts := strings.Split(k, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "listing", parts[0])
	assert.Len(t, parts[1], 40)
	assert.Equal(t, "2026101915", parts[2])

	assert.Equal(t, k, Key("listing", "feed", Hourly, now.Add(10*time.Minute)), "same bucket, same key")
	assert.NotEqual(t, k, Key("listing", "feed", Hourly, now.Add(time.Hour)), "next hour rolls over")

	assert.Equal(t, "20261019", Daily.Label(now))
	assert.Equal(t, Key("category", "economia", Daily, now), Key("category", "economia", Daily, now.Add(5*time.Hour)))
	assert.Equal(t, "all", Forever.Label(now))
	assert.Equal(t, Key("story", "x", Forever, now), Key("story", "x", Forever, now.AddDate(1, 0, 0)))
	assert.NotEqual(t, Key("category", "a", Daily, now), Key("search", "a", Daily, now))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryBackend())
	key := Key("listing", "feed", Hourly, time.Now())

	_, ok := s.Get(ctx, key)
	assert.False(t, ok)

	want := sampleArticles()
	require.NoError(t, s.Put(ctx, key, want))

	got, ok := s.Get(ctx, key)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, want[0].Title, got[0].Title)
	assert.Equal(t, want[0].Category, got[0].Category)
	assert.Equal(t, want[0].LeadImage, got[0].LeadImage)
	assert.Equal(t, want[0].Content, got[0].Content)
	assert.True(t, want[0].PubDate.Time.Equal(*got[0].PubDate.Time))
	assert.Nil(t, got[1].PubDate.Time)
}

func TestStoreEmptySequenceIsHit(t *testing.T) {
	ctx := context.Background()
	s := New(storage.NewMemoryBackend())

	require.NoError(t, s.Put(ctx, "k", nil))
	got, ok := s.Get(ctx, "k")
	require.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStoreCorruptPayloadIsMiss(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryBackend()
	s := New(backend)

	good, err := Encode(sampleArticles())
	require.NoError(t, err)

	corrupt := map[string][]byte{
		"truncated":      good[:len(good)/2],
		"garbage":        []byte("\x00\x01not json"),
		"php-serialized": []byte(`a:1:{i:0;a:1:{s:5:"title";s:3:"foo";}}`),
		"foreign-json":   []byte(`[{"title":"x"}]`),
		"wrong-format":   []byte(`{"format":"articles/v0","articles":[]}`),
		"null-articles":  []byte(`{"format":"articles/v1","articles":null}`),
		"partial":        []byte(`{"format":"articles/v1","articles":[{"title":"ok"},{"link":"/no-title"}]}`),
		"trailing":       append(append([]byte{}, good...), []byte("xx")...),
		"empty":          {},
	}
	for name, payload := range corrupt {
		require.NoError(t, backend.Put(ctx, name, payload))
		got, ok := s.Get(ctx, name)
		assert.False(t, ok, "%s should be a miss", name)
		assert.Nil(t, got, name)
	}
}

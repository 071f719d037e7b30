package memory

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func BenchmarkMemoryCache_Get(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	// Pre-populate cache
	for i := 0; i < 1000; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := []byte(fmt.Sprintf("value-%d", i))
		cache.Set(ctx, key, value, 1*time.Hour)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", i%1000)
		_, _ = cache.Get(ctx, key)
	}
}

func BenchmarkMemoryCache_Set(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := []byte(fmt.Sprintf("value-%d", i))
		_ = cache.Set(ctx, key, value, 1*time.Hour)
	}
}

func BenchmarkMemoryCache_Delete(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	// Pre-populate cache
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := []byte(fmt.Sprintf("value-%d", i))
		cache.Set(ctx, key, value, 1*time.Hour)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("key-%d", i)
		_ = cache.Delete(ctx, key)
	}
}

func BenchmarkMemoryCache_ConcurrentGet(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	// Pre-populate cache
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("key-%d", i)
		value := []byte(fmt.Sprintf("value-%d", i))
		cache.Set(ctx, key, value, 1*time.Hour)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("key-%d", i%100)
			_, _ = cache.Get(ctx, key)
			i++
		}
	})
}

func BenchmarkMemoryCache_ConcurrentSet(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("key-%d", i)
			value := []byte(fmt.Sprintf("value-%d", i))
			_ = cache.Set(ctx, key, value, 1*time.Hour)
			i++
		}
	})
}

func BenchmarkMemoryCache_GetExpired(b *testing.B) {
	cache := NewMemoryCacheWithCleanup(0)
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		cache.Set(ctx, fmt.Sprintf("key-%d", i), []byte("value"), time.Nanosecond)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = cache.Get(ctx, fmt.Sprintf("key-%d", i%1000))
	}
}

func BenchmarkMemoryCache_RenderedMarkdown(b *testing.B) {
	cache := NewMemoryCache()
	ctx := context.Background()
	markdown := []byte(strings.Repeat("Hello **World** @livid\n\n", 200))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		key := fmt.Sprintf("richview:md:0:%d", i%64)
		_ = cache.Set(ctx, key, markdown, time.Hour)
		_, _ = cache.Get(ctx, key)
	}
}

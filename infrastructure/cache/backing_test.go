package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"v2ex-richview/pkg/config"
)

func TestOpen_Memory(t *testing.T) {
	backing, err := Open(config.CacheConfig{Backend: config.BackendMemory}, nil)
	require.NoError(t, err)
	defer backing.Close()

	require.NotNil(t, backing.Store)
	ctx := context.Background()
	require.NoError(t, backing.Store.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := backing.Store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}

func TestOpen_EmptyBackendDefaultsToMemory(t *testing.T) {
	backing, err := Open(config.CacheConfig{}, nil)
	require.NoError(t, err)

	assert.Equal(t, config.BackendMemory, backing.Name)
	assert.NotNil(t, backing.Store)
}

func TestOpen_None(t *testing.T) {
	backing, err := Open(config.CacheConfig{Backend: config.BackendNone}, nil)
	require.NoError(t, err)

	assert.Nil(t, backing.Store)
	assert.NoError(t, backing.Close())
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	backing, err := Open(config.CacheConfig{
		Backend: config.BackendSQLite,
		SQLite:  config.SQLiteConfig{Path: path},
	}, nil)
	require.NoError(t, err)
	defer backing.Close()

	ctx := context.Background()
	require.NoError(t, backing.Store.Set(ctx, "richview:md:0:abc", []byte("# Title"), 0))
	got, err := backing.Store.Get(ctx, "richview:md:0:abc")
	require.NoError(t, err)
	assert.Equal(t, "# Title", string(got))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(config.CacheConfig{Backend: "memcached"}, nil)
	assert.Error(t, err)

	_, err = Open(config.CacheConfig{Backend: config.BackendRedis}, nil)
	assert.Error(t, err, "redis without an address should fail")
}

func TestBacking_CloseNil(t *testing.T) {
	var backing *Backing
	assert.NoError(t, backing.Close())
}

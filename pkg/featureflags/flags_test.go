package featureflags

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheAdmin_DisabledByDefault(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")

	assert.False(t, manager.IsEnabled(context.Background(), CacheAdminEnabled))
}

func TestCacheAdmin_EnabledWhenFlagSet(t *testing.T) {
	t.Setenv("TEST_FEATURE_CACHE_ADMIN_ENABLED", "true")

	manager := NewEnvManager("TEST_FEATURE_")

	assert.True(t, manager.IsEnabled(context.Background(), CacheAdminEnabled))
}

func TestNewEnvManager_DefaultPrefix(t *testing.T) {
	t.Setenv("FEATURE_STATS_ENABLED", "1")

	manager := NewEnvManager("")

	assert.True(t, manager.IsEnabled(context.Background(), StatsEnabled))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"empty", "", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.value)

			manager := NewEnvManager("TEST_")

			assert.Equal(t, tt.expected, manager.IsEnabled(context.Background(), "FLAG"))
		})
	}
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	t.Setenv("TEST_FEATURE_RATE_LIMIT_ENABLED", "true")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, RateLimitEnabled))

	manager.SetEnabled(RateLimitEnabled, false)

	assert.False(t, manager.IsEnabled(ctx, RateLimitEnabled))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	t.Setenv("TEST_FEATURE_STATS_ENABLED", "true")

	flags := NewEnvManager("TEST_FEATURE_").GetAllFlags()

	assert.Len(t, flags, len(AllFlags))
	assert.True(t, flags[StatsEnabled])
	assert.False(t, flags[CacheAdminEnabled])
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		CacheAdminEnabled: true,
		StatsEnabled:      false,
	})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, CacheAdminEnabled))
	assert.False(t, manager.IsEnabled(ctx, StatsEnabled))
	assert.False(t, manager.IsEnabled(ctx, LenientOverrideEnabled))

	manager.SetEnabled(LenientOverrideEnabled, true)
	assert.True(t, manager.IsEnabled(ctx, LenientOverrideEnabled))
}

func TestStaticManager_GetAllFlagsReturnsCopy(t *testing.T) {
	flags := map[FeatureFlag]bool{StatsEnabled: true}
	manager := NewStaticManager(flags)

	all := manager.GetAllFlags()
	all[StatsEnabled] = false

	assert.True(t, manager.IsEnabled(context.Background(), StatsEnabled))
}

func TestConcurrentAccess(t *testing.T) {
	manager := NewStaticManager(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				manager.SetEnabled(StatsEnabled, j%2 == 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = manager.IsEnabled(ctx, StatsEnabled)
			}
		}()
	}
	wg.Wait()
}

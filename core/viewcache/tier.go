package viewcache

import (
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
)

// Tier names one of the three cache stores
type Tier string

const (
	TierMarkdown Tier = "markdown"
	TierStyled   Tier = "styled"
	TierElements Tier = "elements"
)

// tier is one in-memory store plus its counters. Entries never expire;
// the cache is cleared wholesale.
//
// generation is this process's view of the tier's backing generation.
// It is refreshed from the backing store so a clear issued by any
// instance hides the entries written before it.
type tier struct {
	name       Tier
	store      *gocache.Cache
	hits       atomic.Uint64
	misses     atomic.Uint64
	generation atomic.Uint64
	loadedAt   atomic.Int64
}

func newTier(name Tier) *tier {
	return &tier{
		name:  name,
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

func (t *tier) lookup(key string) (interface{}, bool) {
	return t.store.Get(key)
}

func (t *tier) put(key string, value interface{}) {
	t.store.Set(key, value, gocache.NoExpiration)
}

func (t *tier) hit()  { t.hits.Add(1) }
func (t *tier) miss() { t.misses.Add(1) }

// flush drops every memory entry
func (t *tier) flush() {
	t.store.Flush()
}

// adopt raises the local generation to at least gen and returns the result
func (t *tier) adopt(gen uint64) uint64 {
	for {
		cur := t.generation.Load()
		if gen <= cur {
			return cur
		}
		if t.generation.CompareAndSwap(cur, gen) {
			return gen
		}
	}
}

func (t *tier) resetCounters() {
	t.hits.Store(0)
	t.misses.Store(0)
}

func (t *tier) statistics() TierStatistics {
	return TierStatistics{
		Hits:    t.hits.Load(),
		Misses:  t.misses.Load(),
		Entries: t.store.ItemCount(),
	}
}

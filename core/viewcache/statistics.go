package viewcache

// TierStatistics are the counters of one tier
type TierStatistics struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// HitRate is hits over lookups, zero before the first lookup
func (s TierStatistics) HitRate() float64 {
	return hitRate(s.Hits, s.Misses)
}

// Statistics is a snapshot of every tier plus the combined hit rate
type Statistics struct {
	Markdown TierStatistics `json:"markdown"`
	Styled   TierStatistics `json:"styled"`
	Elements TierStatistics `json:"elements"`
	HitRate  float64        `json:"hitRate"`
}

// IsZero reports whether the snapshot has no entries and no lookups
func (s Statistics) IsZero() bool {
	return s == Statistics{}
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

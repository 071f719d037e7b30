package viewcache

import (
	"context"
	"sync"
	"time"

	"v2ex-richview/core/interfaces"
)

// mapBacking is an in-memory interfaces.Cache with fault injection
type mapBacking struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
	lastTTL time.Duration
}

func newMapBacking() *mapBacking {
	return &mapBacking{data: make(map[string][]byte)}
}

func (m *mapBacking) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return v, nil
}

func (m *mapBacking) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.lastTTL = ttl
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mapBacking) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *mockLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (l *mockLogger) Debug(msg string, fields map[string]interface{}) { l.log("debug", msg, fields) }
func (l *mockLogger) Info(msg string, fields map[string]interface{})  { l.log("info", msg, fields) }
func (l *mockLogger) Warn(msg string, fields map[string]interface{})  { l.log("warn", msg, fields) }
func (l *mockLogger) Error(msg string, fields map[string]interface{}) { l.log("error", msg, fields) }

func (l *mockLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

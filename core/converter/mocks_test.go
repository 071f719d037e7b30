package converter

import "sync"

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// mockLogger records every entry for assertions
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) log(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.log("debug", msg, fields) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.log("info", msg, fields) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.log("warn", msg, fields) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.log("error", msg, fields) }

func (m *mockLogger) count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

// stubDetector returns a fixed answer and counts calls
type stubDetector struct {
	lang  string
	calls int
}

func (s *stubDetector) Detect(string) (string, bool) {
	s.calls++
	return s.lang, s.lang != ""
}

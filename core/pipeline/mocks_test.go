package pipeline

import (
	"sync"
	"sync/atomic"

	"v2ex-richview/core/domain"
	"v2ex-richview/core/interfaces"
)

// gatedConverter counts calls and can hold them until released
type gatedConverter struct {
	next    interfaces.MarkdownConverter
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedConverter(next interfaces.MarkdownConverter) *gatedConverter {
	return &gatedConverter{next: next, entered: make(chan struct{})}
}

func (g *gatedConverter) hold() {
	g.release = make(chan struct{})
}

func (g *gatedConverter) Convert(html string, opts interfaces.ConvertOptions) (string, error) {
	g.calls.Add(1)
	g.once.Do(func() { close(g.entered) })
	if g.release != nil {
		<-g.release
	}
	return g.next.Convert(html, opts)
}

type countingRenderer struct {
	next  interfaces.MarkdownRenderer
	calls atomic.Int32
}

func (c *countingRenderer) Render(markdown string, sheet domain.Stylesheet, opts interfaces.RenderOptions) (domain.StyledText, error) {
	c.calls.Add(1)
	return c.next.Render(markdown, sheet, opts)
}

type countingExtractor struct {
	next  interfaces.ElementExtractor
	calls atomic.Int32
}

func (c *countingExtractor) Extract(html string, opts interfaces.ConvertOptions) ([]domain.ContentElement, error) {
	c.calls.Add(1)
	return c.next.Extract(html, opts)
}

type failingRenderer struct {
	err error
}

func (f failingRenderer) Render(string, domain.Stylesheet, interfaces.RenderOptions) (domain.StyledText, error) {
	return domain.StyledText{}, f.err
}

type logEntry struct {
	level string
	msg   string
}

type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *mockLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *mockLogger) Debug(msg string, _ map[string]interface{}) { l.log("debug", msg) }
func (l *mockLogger) Info(msg string, _ map[string]interface{})  { l.log("info", msg) }
func (l *mockLogger) Warn(msg string, _ map[string]interface{})  { l.log("warn", msg) }
func (l *mockLogger) Error(msg string, _ map[string]interface{}) { l.log("error", msg) }

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

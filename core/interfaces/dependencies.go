// ABOUTME: Dependencies container provides dependency injection for pipeline components
// ABOUTME: Defines the external collaborators required by the render core

package interfaces

// Dependencies holds all external dependencies required by the render core
type Dependencies struct {
	// Cache is an optional backing store for the shared view cache tiers
	Cache Cache

	// Logger provides structured logging
	Logger Logger
}

// LoggerOrNop returns the configured logger or a NopLogger
func (d Dependencies) LoggerOrNop() Logger {
	if d.Logger == nil {
		return NopLogger{}
	}
	return d.Logger
}

package domain

import "sync"

// EngineState is the load state of the recommendation engine.
type EngineState string

const (
	EngineUnloaded EngineState = "unloaded"
	EngineLoaded   EngineState = "loaded"
	EngineFailed   EngineState = "failed"
)

// RuntimeConfig tracks which backends and capabilities are live.
// Backends are fixed at startup; capability flags change as the engine loads
// and as the metadata provider is wired.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	LockBackend  string // "redis", "postgres" or "local"
	CacheBackend string // "redis" or "none"

	// Dynamic capability flags
	engineState       EngineState
	metadataAvailable bool
	lastLoadError     string
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(lockBackend, cacheBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		LockBackend:  lockBackend,
		CacheBackend: cacheBackend,
		engineState:  EngineUnloaded,
	}
}

// EngineState returns the current engine load state
func (c *RuntimeConfig) EngineState() EngineState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engineState
}

// LastLoadError returns the error message of the most recent failed load
func (c *RuntimeConfig) LastLoadError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastLoadError
}

// SetEngineLoaded marks the engine as loaded and clears any load error
func (c *RuntimeConfig) SetEngineLoaded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engineState = EngineLoaded
	c.lastLoadError = ""
}

// SetEngineFailed marks the engine as failed with the given reason
func (c *RuntimeConfig) SetEngineFailed(reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engineState = EngineFailed
	c.lastLoadError = reason
}

// SetEngineUnloaded marks the engine as having no snapshot
func (c *RuntimeConfig) SetEngineUnloaded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engineState = EngineUnloaded
}

// MetadataAvailable returns whether a metadata provider is configured
func (c *RuntimeConfig) MetadataAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metadataAvailable
}

// SetMetadataAvailable updates the metadata provider flag
func (c *RuntimeConfig) SetMetadataAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadataAvailable = available
}

// CanServe returns true once a snapshot is loaded
func (c *RuntimeConfig) CanServe() bool {
	return c.EngineState() == EngineLoaded
}

// CanEnhance returns true if recommendations can be decorated with metadata
func (c *RuntimeConfig) CanEnhance() bool {
	return c.MetadataAvailable()
}

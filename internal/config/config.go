package config

import "sync"

// RuntimeSettings holds settings that may change while the simulation runs.
type RuntimeSettings struct {
	mu           sync.RWMutex
	fpsLimit     int // ticks per second, 0 means unlimited
	debugOverlay bool
}

var globalRuntimeSettings = &RuntimeSettings{
	fpsLimit: 60, // default value
}

// GetFPSLimit returns the tick rate cap
func GetFPSLimit() int {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.fpsLimit
}

// SetFPSLimit sets the tick rate cap
func SetFPSLimit(limit int) {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRuntimeSettings.fpsLimit = limit
}

// GetDebugOverlay returns whether the viewer draws agent state labels
func GetDebugOverlay() bool {
	globalRuntimeSettings.mu.RLock()
	defer globalRuntimeSettings.mu.RUnlock()
	return globalRuntimeSettings.debugOverlay
}

// ToggleDebugOverlay flips the debug overlay and returns the new value
func ToggleDebugOverlay() bool {
	globalRuntimeSettings.mu.Lock()
	defer globalRuntimeSettings.mu.Unlock()
	globalRuntimeSettings.debugOverlay = !globalRuntimeSettings.debugOverlay
	return globalRuntimeSettings.debugOverlay
}

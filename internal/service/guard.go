package service

import "sync"

// PreferencesGuard serializes preference updates against scheduler runs in
// one process. Generate holds the read side while it reads preferences and
// places blocks; Relearn and ResetPreferences hold the write side.
type PreferencesGuard struct {
	mu sync.RWMutex
}

func NewPreferencesGuard() *PreferencesGuard {
	return &PreferencesGuard{}
}

func (g *PreferencesGuard) read(fn func() error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn()
}

func (g *PreferencesGuard) write(fn func() error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn()
}

func guardOrNew(g *PreferencesGuard) *PreferencesGuard {
	if g == nil {
		return NewPreferencesGuard()
	}
	return g
}

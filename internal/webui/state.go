package webui

import (
	"sync"

	"github.com/hubscout/hubscout/internal/types"
)

// ModeSelection holds the mutually exclusive search-mode toggle state.
// Exactly one mode is active at any time; activating one deactivates the
// others atomically, and re-activating the current mode is a no-op.
type ModeSelection struct {
	mu     sync.RWMutex
	active types.SearchMode
}

// NewModeSelection creates a selection with NearText active.
func NewModeSelection() *ModeSelection {
	return &ModeSelection{active: types.ModeNearText}
}

// Toggle activates mode and returns the resulting active mode. Invalid
// modes leave the selection unchanged.
func (m *ModeSelection) Toggle(mode types.SearchMode) types.SearchMode {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch mode {
	case types.ModeNearText, types.ModeBM25, types.ModeHybrid:
		m.active = mode
	}
	return m.active
}

// Active returns the currently active mode.
func (m *ModeSelection) Active() types.SearchMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// Options returns the toggle options for rendering the search form.
func (m *ModeSelection) Options() []ModeOption {
	active := m.Active()
	return []ModeOption{
		{Mode: types.ModeNearText, Label: "NearText", Active: active == types.ModeNearText},
		{Mode: types.ModeBM25, Label: "BM25", Active: active == types.ModeBM25},
		{Mode: types.ModeHybrid, Label: "Hybrid", Active: active == types.ModeHybrid},
	}
}

package webui

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubscout/hubscout/internal/types"
)

func TestModeSelectionDefault(t *testing.T) {
	m := NewModeSelection()
	assert.Equal(t, types.ModeNearText, m.Active())
}

func TestModeSelectionMutualExclusion(t *testing.T) {
	m := NewModeSelection()

	assert.Equal(t, types.ModeBM25, m.Toggle(types.ModeBM25))
	assert.Equal(t, types.ModeBM25, m.Active())

	assert.Equal(t, types.ModeHybrid, m.Toggle(types.ModeHybrid))
	assert.Equal(t, types.ModeHybrid, m.Active())

	opts := m.Options()
	activeCount := 0
	for _, o := range opts {
		if o.Active {
			activeCount++
			assert.Equal(t, types.ModeHybrid, o.Mode)
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestModeSelectionIdempotentToggle(t *testing.T) {
	m := NewModeSelection()

	m.Toggle(types.ModeBM25)
	m.Toggle(types.ModeBM25)
	m.Toggle(types.ModeBM25)
	assert.Equal(t, types.ModeBM25, m.Active())
}

func TestModeSelectionIgnoresInvalidMode(t *testing.T) {
	m := NewModeSelection()
	m.Toggle(types.ModeHybrid)

	assert.Equal(t, types.ModeHybrid, m.Toggle(types.SearchMode("nonsense")))
	assert.Equal(t, types.ModeHybrid, m.Active())
}

func TestModeSelectionConcurrentToggles(t *testing.T) {
	m := NewModeSelection()
	modes := []types.SearchMode{types.ModeNearText, types.ModeBM25, types.ModeHybrid}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(mode types.SearchMode) {
			defer wg.Done()
			m.Toggle(mode)
		}(modes[i%len(modes)])
	}
	wg.Wait()

	// Whatever interleaving happened, exactly one mode is active.
	assert.Contains(t, modes, m.Active())
	activeCount := 0
	for _, o := range m.Options() {
		if o.Active {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

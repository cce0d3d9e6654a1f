package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-cerp/vlist/internal/telemetry"
	"github.com/aman-cerp/vlist/pkg/vlist"
)

type fakeScrollSource struct {
	total   float64
	metrics *telemetry.Metrics
}

func (f *fakeScrollSource) GetVisibleRange(scroll, viewport float64) (vlist.VisibleRange, error) {
	return vlist.VisibleRange{Start: 0, End: 10, StartOffset: scroll, EndOffset: scroll + viewport}, nil
}

func (f *fakeScrollSource) TotalSize() float64 { return f.total }

func (f *fakeScrollSource) Metrics() *telemetry.Snapshot { return f.metrics.Snapshot() }

func newFakeSource() *fakeScrollSource {
	return &fakeScrollSource{total: 1000, metrics: telemetry.New()}
}

func TestNewScrollModel_InitResolvesInitialRange(t *testing.T) {
	m := NewScrollModel(newFakeSource(), 90, 40)
	m.Init()

	assert.Equal(t, uint32(0), m.current.Start)
	assert.Equal(t, uint32(10), m.current.End)
}

func TestScrollModel_ArrowKeysAdjustScroll(t *testing.T) {
	m := NewScrollModel(newFakeSource(), 90, 40)
	m.Init()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	sm := updated.(*ScrollModel)
	assert.Equal(t, float64(40), sm.scroll)

	updated, _ = sm.Update(tea.KeyMsg{Type: tea.KeyUp})
	sm = updated.(*ScrollModel)
	assert.Equal(t, float64(0), sm.scroll)
}

func TestScrollModel_ClampsScrollToZeroAndTotal(t *testing.T) {
	m := NewScrollModel(newFakeSource(), 90, 40)
	m.Init()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	sm := updated.(*ScrollModel)
	assert.Equal(t, float64(0), sm.scroll, "scroll must not go negative")

	updated, _ = sm.Update(tea.KeyMsg{Type: tea.KeyEnd})
	sm = updated.(*ScrollModel)
	assert.Equal(t, float64(1000), sm.scroll)

	updated, _ = sm.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	sm = updated.(*ScrollModel)
	assert.Equal(t, float64(1000), sm.scroll, "scroll must clamp at total size")
}

func TestScrollModel_QuitSetsQuitFlag(t *testing.T) {
	m := NewScrollModel(newFakeSource(), 90, 40)
	m.Init()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	sm := updated.(*ScrollModel)
	require.NotNil(t, cmd)
	assert.True(t, sm.quit)
	assert.Equal(t, "Bye.\n", sm.View())
}

func TestScrollModel_ViewRendersWithoutPanicking(t *testing.T) {
	m := NewScrollModel(newFakeSource(), 90, 40)
	m.Init()
	view := m.View()
	assert.Contains(t, view, "visible:")
}

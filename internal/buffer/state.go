package buffer

import (
	"fmt"
	"io"

	"github.com/phamtanloc/framedb/internal/storage"
)

// BufferState is a point-in-time snapshot of the pool, for tests and
// diagnostics.
type BufferState struct {
	Total    int
	Valid    int
	Pinned   int
	Unpinned int
	Dirty    int

	ReplaceStats ReplacementStats
}

// State snapshots the pool.
func (m *Manager) State() BufferState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Manager) stateLocked() BufferState {
	state := BufferState{Total: len(m.frames)}
	for i := range m.frames {
		f := &m.frames[i]
		if f.Valid {
			state.Valid++
		}
		if f.PinCount > 0 {
			state.Pinned++
		}
		if f.Dirty {
			state.Dirty++
		}
	}
	state.Unpinned = state.Total - state.Pinned
	state.ReplaceStats = m.policy.Stats()
	return state
}

// NumUnpinned returns how many frames have pin count zero.
func (m *Manager) NumUnpinned() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unpinnedLocked()
}

// PrintBufferState writes a summary of the pool to w.
func (m *Manager) PrintBufferState(w io.Writer) {
	state := m.State()
	fmt.Fprintf(w, "Total number of pages: %d\n", state.Total)
	fmt.Fprintf(w, "Number of valid pages: %d\n", state.Valid)
	fmt.Fprintf(w, "Number of pinned pages: %d\n", state.Pinned)
	fmt.Fprintf(w, "Number of unpinned pages: %d\n", state.Unpinned)
	fmt.Fprintf(w, "Number of dirty pages: %d\n", state.Dirty)
	fmt.Fprintf(w, "Replacement policy: %s\n", state.ReplaceStats.Policy)
}

// PrintReplacementStats writes the policy counters to w.
func (m *Manager) PrintReplacementStats(w io.Writer) {
	stats := m.State().ReplaceStats
	fmt.Fprintf(w, "Replacement policy: %s\n", stats.Policy)
	fmt.Fprintf(w, "Calls to replacement policy: %d\n", stats.RepCalls)
	fmt.Fprintf(w, "New page calls: %d\n", stats.NewPageCalls)
	if stats.NewPageCalls != 0 {
		pct := 100 * float64(stats.RepCalls) / float64(stats.NewPageCalls)
		fmt.Fprintf(w, "New page calls using replacement: %.1f%%\n", pct)
	}
	fmt.Fprintf(w, "Average frames checked per call: %.2f\n", stats.AvgFramesChecked)
	if stats.Policy == Clock {
		fmt.Fprintf(w, "Clock hand position: %d\n", stats.ClockHand)
		fmt.Fprintf(w, "Frames with ref bit set: %d\n", stats.RefBitCount)
	}
}

// PrintAllFrames writes the state of every frame to w.
func (m *Manager) PrintAllFrames(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.frames {
		m.printFrameLocked(w, i)
	}
}

// PrintValidFrames writes the state of every valid frame to w.
func (m *Manager) PrintValidFrames(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.frames {
		if m.frames[i].Valid {
			m.printFrameLocked(w, i)
		}
	}
}

// PrintFrame writes the state of one frame to w.
func (m *Manager) PrintFrame(w io.Writer, frameID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if frameID < 0 || frameID >= len(m.frames) {
		fmt.Fprintf(w, "frame %d: out of range\n", frameID)
		return
	}
	m.printFrameLocked(w, frameID)
}

func (m *Manager) printFrameLocked(w io.Writer, frameID int) {
	f := &m.frames[frameID]
	if f.Valid {
		fmt.Fprintf(w, "frame %d: page %v, pin count: %d, valid: %t, dirty: %t\n",
			frameID, f.PageID, f.PinCount, f.Valid, f.Dirty)
		return
	}
	fmt.Fprintf(w, "frame %d: invalid\n", frameID)
}

// PrintPage writes frame metadata and a hex dump of the first bytes of the
// resident page pageID to w.
func (m *Manager) PrintPage(w io.Writer, pageID storage.PageID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, err := m.bufMap.Get(pageID)
	if err != nil {
		fmt.Fprintf(w, "page %v: not found\n", pageID)
		return
	}
	m.printFrameLocked(w, frameID)
	fmt.Fprintf(w, "first bytes: % x\n", m.pool[frameID][:32])
}

package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phamtanloc/framedb/internal/storage"
)

// validFrames builds a frame table where every frame already holds a page,
// so the policy under test starts with an empty free list.
func validFrames(n int) []Frame {
	frames := make([]Frame, n)
	for i := range frames {
		frames[i].Reset()
		frames[i].Load(storage.PageID{FileID: 1, PageNum: uint32(i)})
		frames[i].PinCount = 0
	}
	return frames
}

func TestClock_FreeListFirst(t *testing.T) {
	frames := make([]Frame, 4)
	for i := range frames {
		frames[i].Reset()
	}
	c := newClockPolicy(frames)

	// All frames start invalid, so the free list hands them out FIFO.
	for want := range 4 {
		got, err := c.Replace()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestClock_EvictsFirstUnreferenced(t *testing.T) {
	frames := validFrames(4)
	c := newClockPolicy(frames)

	got, err := c.Replace()
	require.NoError(t, err)
	require.Equal(t, 0, got)

	// Hand advanced past the victim.
	got, err = c.Replace()
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestClock_SecondChance(t *testing.T) {
	frames := validFrames(4)
	c := newClockPolicy(frames)

	c.Unpin(0)
	c.Unpin(1)

	// Frames 0 and 1 get their ref bits cleared and are passed over;
	// frame 2 is the first candidate with a clear bit.
	got, err := c.Replace()
	require.NoError(t, err)
	require.Equal(t, 2, got)
	require.False(t, c.ref[0])
	require.False(t, c.ref[1])

	// A fresh sweep now takes frame 3, then wraps to the spared frames.
	got, err = c.Replace()
	require.NoError(t, err)
	require.Equal(t, 3, got)

	got, err = c.Replace()
	require.NoError(t, err)
	require.Equal(t, 0, got)
}

func TestClock_SkipsPinnedWithoutTouchingRefBits(t *testing.T) {
	frames := validFrames(4)
	frames[0].PinCount = 1
	frames[1].PinCount = 2
	c := newClockPolicy(frames)

	c.Unpin(0) // ref bit set even though the frame is pinned again later
	c.ref[1] = true

	got, err := c.Replace()
	require.NoError(t, err)
	require.Equal(t, 2, got)

	// Pinned frames were traversed but their ref bits stay untouched.
	require.True(t, c.ref[0])
	require.True(t, c.ref[1])
}

func TestClock_RefBitOnlyDelaysOneSweep(t *testing.T) {
	frames := validFrames(2)
	frames[0].PinCount = 1
	c := newClockPolicy(frames)

	c.Unpin(1)

	// Frame 1's ref bit spares it once; the sweep comes back around and
	// takes it rather than reporting the pool full.
	got, err := c.Replace()
	require.NoError(t, err)
	require.Equal(t, 1, got)
}

func TestClock_AllPinned(t *testing.T) {
	frames := validFrames(3)
	for i := range frames {
		frames[i].PinCount = 1
	}
	c := newClockPolicy(frames)

	_, err := c.Replace()
	require.ErrorIs(t, err, ErrInsufficientSpace)
}

func TestClock_FreeFrameBypassesSweep(t *testing.T) {
	frames := validFrames(4)
	c := newClockPolicy(frames)

	c.Unpin(2)
	frames[2].Reset()
	c.FreeFrame(2)
	require.False(t, c.ref[2])

	// The freed frame is returned before any sweep candidate.
	got, err := c.Replace()
	require.NoError(t, err)
	require.Equal(t, 2, got)
}

func TestClock_Stats(t *testing.T) {
	frames := validFrames(4)
	c := newClockPolicy(frames)

	c.Unpin(1)
	c.Unpin(3)

	stats := c.Stats()
	require.Equal(t, Clock, stats.Policy)
	require.Equal(t, 2, stats.RefBitCount)
	require.Equal(t, uint64(0), stats.RepCalls)

	_, err := c.Replace()
	require.NoError(t, err)

	stats = c.Stats()
	require.Equal(t, uint64(1), stats.RepCalls)
	require.GreaterOrEqual(t, stats.AvgFramesChecked, 0.0)
	require.LessOrEqual(t, stats.AvgFramesChecked, float64(len(frames)))
	require.Equal(t, 1, stats.ClockHand)

	c.IncrementGetAllocCount()
	require.Equal(t, uint64(1), c.Stats().NewPageCalls)
}

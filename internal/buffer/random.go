package buffer

import "math/rand/v2"

// randomPolicy picks victims by random draw with a sequential fallback.
// timesChosen records how often each frame was selected, for diagnostics.
type randomPolicy struct {
	replacerBase
	timesChosen []uint32
	rnd         *rand.Rand
}

func newRandomPolicy(frames []Frame) *randomPolicy {
	return &randomPolicy{
		replacerBase: newReplacerBase(frames),
		timesChosen:  make([]uint32, len(frames)),
		rnd:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Replace pops the free list if possible, then tries one random draw plus
// up to poolSize/2 further draws, then scans the table linearly for the
// first unpinned frame.
func (r *randomPolicy) Replace() (int, error) {
	if id, ok := r.popFree(); ok {
		return id, nil
	}

	n := len(r.frames)
	draws := 0
	candidate := r.rnd.IntN(n)
	for r.frames[candidate].PinCount != 0 && draws < n/2 {
		draws++
		candidate = r.rnd.IntN(n)
	}

	if r.frames[candidate].PinCount == 0 {
		r.recordReplace(draws + 1)
		r.timesChosen[candidate]++
		return candidate, nil
	}

	for i := range r.frames {
		if r.frames[i].PinCount == 0 {
			r.recordReplace(draws + i + 1)
			r.timesChosen[i]++
			return i, nil
		}
	}
	return 0, ErrInsufficientSpace
}

func (r *randomPolicy) Pin(frameID int) {}

func (r *randomPolicy) Unpin(frameID int) {}

func (r *randomPolicy) FreeFrame(frameID int) {
	r.pushFree(frameID)
}

func (r *randomPolicy) Stats() ReplacementStats {
	return r.baseStats(Random)
}

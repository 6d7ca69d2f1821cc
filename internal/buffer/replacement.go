package buffer

import "fmt"

// PolicyType selects which replacement policy a Manager is built with.
type PolicyType int

const (
	Clock PolicyType = iota + 1
	Random
)

func (p PolicyType) String() string {
	switch p {
	case Clock:
		return "CLOCK"
	case Random:
		return "RANDOM"
	default:
		return "INVALID"
	}
}

// ParsePolicy maps a config string to a PolicyType.
func ParsePolicy(s string) (PolicyType, error) {
	switch s {
	case "clock", "CLOCK":
		return Clock, nil
	case "random", "RANDOM":
		return Random, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// ReplacementStats is a snapshot of a policy's counters.
type ReplacementStats struct {
	Policy           PolicyType
	RepCalls         uint64
	NewPageCalls     uint64
	AvgFramesChecked float64

	// CLOCK only; zero for other policies.
	RefBitCount int
	ClockHand   int
}

// ReplacementPolicy chooses victim frames for the Manager. Every method is
// invoked with the manager's lock held.
//
// Replace returns a frame that is either invalid (free) or valid with pin
// count zero; it fails with ErrInsufficientSpace when every frame is
// pinned. Pin and Unpin notify the policy of 0->1 and 1->0 pin count
// transitions. FreeFrame hands back a frame the manager invalidated.
type ReplacementPolicy interface {
	Replace() (int, error)
	Pin(frameID int)
	Unpin(frameID int)
	FreeFrame(frameID int)
	IncrementGetAllocCount()
	Stats() ReplacementStats
}

// newPolicy builds the policy for policyType over the manager's frame
// table. The policy inspects the frames read-only; only the manager
// mutates them.
func newPolicy(policyType PolicyType, frames []Frame) (ReplacementPolicy, error) {
	switch policyType {
	case Clock:
		return newClockPolicy(frames), nil
	case Random:
		return newRandomPolicy(frames), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, policyType)
	}
}

// replacerBase carries the state every policy shares: a read-only view of
// the frame table, the FIFO free list, and the replacement counters.
type replacerBase struct {
	frames []Frame
	free   []int

	repCalls         uint64
	newPageCalls     uint64
	avgFramesChecked float64
}

func newReplacerBase(frames []Frame) replacerBase {
	b := replacerBase{frames: frames}
	// Every frame starts invalid, so the initial free list is all of them.
	for i := range frames {
		if !frames[i].Valid {
			b.free = append(b.free, i)
		}
	}
	return b
}

// popFree pops the oldest free frame, if any.
func (b *replacerBase) popFree() (int, bool) {
	if len(b.free) == 0 {
		return 0, false
	}
	id := b.free[0]
	b.free = b.free[1:]
	return id, true
}

func (b *replacerBase) pushFree(frameID int) {
	b.free = append(b.free, frameID)
}

// recordReplace bumps the call count and folds checked into the running
// mean of frames probed per successful Replace.
func (b *replacerBase) recordReplace(checked int) {
	b.repCalls++
	b.avgFramesChecked = (b.avgFramesChecked*float64(b.repCalls-1) + float64(checked)) / float64(b.repCalls)
}

func (b *replacerBase) IncrementGetAllocCount() {
	b.newPageCalls++
}

func (b *replacerBase) baseStats(policy PolicyType) ReplacementStats {
	return ReplacementStats{
		Policy:           policy,
		RepCalls:         b.repCalls,
		NewPageCalls:     b.newPageCalls,
		AvgFramesChecked: b.avgFramesChecked,
	}
}

package buffer

import "github.com/phamtanloc/framedb/internal/storage"

// Frame is the metadata record for one buffer pool slot. The page bytes
// themselves live in the manager's pool at the same index.
//
// Invariant: when Valid is false, PageID is the invalid sentinel, PinCount
// is 0 and Dirty is false. When Valid is true, PageID identifies the page
// whose bytes occupy the paired pool slot.
type Frame struct {
	PageID   storage.PageID
	PinCount int32
	Valid    bool
	Dirty    bool
}

// Reset restores the invalid state.
func (f *Frame) Reset() {
	f.PageID = storage.InvalidPageID
	f.PinCount = 0
	f.Valid = false
	f.Dirty = false
}

// Load installs pageID into the frame: valid, pinned once, clean.
func (f *Frame) Load(pageID storage.PageID) {
	f.Reset()
	f.PageID = pageID
	f.PinCount = 1
	f.Valid = true
}

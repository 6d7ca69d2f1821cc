package buffer

import (
	"fmt"

	"github.com/phamtanloc/framedb/internal/storage"
)

// BufferMap maps resident PageIDs to frame indices. It never silently
// overwrites: inserting a present key and removing an absent key are
// errors. The caller serializes access.
type BufferMap struct {
	m map[storage.PageID]int
}

func NewBufferMap(capacity int) *BufferMap {
	return &BufferMap{m: make(map[storage.PageID]int, capacity)}
}

// Get returns the frame index holding pageID.
func (bm *BufferMap) Get(pageID storage.PageID) (int, error) {
	idx, ok := bm.m[pageID]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrPageNotFound, pageID)
	}
	return idx, nil
}

func (bm *BufferMap) Contains(pageID storage.PageID) bool {
	_, ok := bm.m[pageID]
	return ok
}

// Insert adds pageID -> frameID.
func (bm *BufferMap) Insert(pageID storage.PageID, frameID int) error {
	if _, ok := bm.m[pageID]; ok {
		return fmt.Errorf("%w: %v", ErrPageAlreadyLoaded, pageID)
	}
	bm.m[pageID] = frameID
	return nil
}

// Remove drops pageID from the map.
func (bm *BufferMap) Remove(pageID storage.PageID) error {
	if _, ok := bm.m[pageID]; !ok {
		return fmt.Errorf("%w: %v", ErrPageNotFound, pageID)
	}
	delete(bm.m, pageID)
	return nil
}

func (bm *BufferMap) Len() int { return len(bm.m) }

package buffer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/phamtanloc/framedb/internal/storage"
)

var DefaultPoolSize = 128

// Manager is the buffer pool: a fixed set of frames caching disk pages,
// a map from page identity to frame index, and a replacement policy that
// picks victims when the pool is full.
//
// Every public operation runs under one coarse mutex; the policies and the
// map rely on that serialization.
type Manager struct {
	mu sync.Mutex

	disk   *storage.DiskManager
	frames []Frame
	pool   []storage.Page
	bufMap *BufferMap
	policy ReplacementPolicy
}

// NewManager builds a pool of size frames over disk, with the given
// replacement policy. size <= 0 selects DefaultPoolSize.
func NewManager(disk *storage.DiskManager, size int, policyType PolicyType) (*Manager, error) {
	if size <= 0 {
		size = DefaultPoolSize
	}

	m := &Manager{
		disk:   disk,
		frames: make([]Frame, size),
		pool:   make([]storage.Page, size),
		bufMap: NewBufferMap(size),
	}
	for i := range m.frames {
		m.frames[i].Reset()
	}

	policy, err := newPolicy(policyType, m.frames)
	if err != nil {
		return nil, err
	}
	m.policy = policy
	return m, nil
}

// PoolSize returns the number of frames.
func (m *Manager) PoolSize() int { return len(m.frames) }

// unpinnedLocked counts frames with pin count zero. Caller holds m.mu.
func (m *Manager) unpinnedLocked() int {
	n := 0
	for i := range m.frames {
		if m.frames[i].PinCount == 0 {
			n++
		}
	}
	return n
}

// allocateFrame obtains a victim from the policy and makes it invalid:
// a dirty evictee is written back first, then its map entry is dropped and
// the frame is reset. Caller holds m.mu.
func (m *Manager) allocateFrame() (int, error) {
	frameID, err := m.policy.Replace()
	if err != nil {
		return 0, err
	}

	f := &m.frames[frameID]
	if f.Valid && f.Dirty {
		if err := m.disk.WritePage(f.PageID, &m.pool[frameID]); err != nil {
			return 0, err
		}
		f.Dirty = false
	}
	if f.Valid {
		if err := m.bufMap.Remove(f.PageID); err != nil {
			return 0, err
		}
	}
	f.Reset()
	return frameID, nil
}

// AllocatePage allocates a fresh page in fileID both on disk and in the
// pool, pins it, and returns its bytes and identity. The returned pointer
// stays valid while the page remains pinned.
func (m *Manager) AllocatePage(fileID storage.FileID) (*storage.Page, storage.PageID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unpinnedLocked() == 0 {
		return nil, storage.InvalidPageID, fmt.Errorf("%w: allocate in file %d", ErrInsufficientSpace, fileID)
	}

	pageID, err := m.disk.AllocatePage(fileID)
	if err != nil {
		return nil, storage.InvalidPageID, err
	}

	frameID, err := m.allocateFrame()
	if err != nil {
		return nil, storage.InvalidPageID, err
	}

	f := &m.frames[frameID]
	f.Load(pageID)
	m.pool[frameID].Zero()

	if err := m.bufMap.Insert(pageID, frameID); err != nil {
		return nil, storage.InvalidPageID, err
	}
	m.policy.Pin(frameID)
	m.policy.IncrementGetAllocCount()

	return &m.pool[frameID], pageID, nil
}

// GetPage pins the page identified by pageID and returns its bytes,
// reading it from disk on a miss. On a hit no unpinned capacity is
// required.
func (m *Manager) GetPage(pageID storage.PageID) (*storage.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frameID, err := m.bufMap.Get(pageID); err == nil {
		f := &m.frames[frameID]
		f.PinCount++
		if f.PinCount == 1 {
			m.policy.Pin(frameID)
		}
		return &m.pool[frameID], nil
	}

	if m.unpinnedLocked() == 0 {
		return nil, fmt.Errorf("%w: get %v", ErrInsufficientSpace, pageID)
	}

	frameID, err := m.allocateFrame()
	if err != nil {
		return nil, err
	}

	if err := m.disk.ReadPage(pageID, &m.pool[frameID]); err != nil {
		// The frame was unmapped and reset; hand it to the free list so it
		// stays reachable for the next allocation.
		m.policy.FreeFrame(frameID)
		if errors.Is(err, storage.ErrInvalidFileID) || errors.Is(err, storage.ErrInvalidPageNum) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPageID, pageID)
		}
		return nil, err
	}

	f := &m.frames[frameID]
	f.Load(pageID)

	if err := m.bufMap.Insert(pageID, frameID); err != nil {
		return nil, err
	}
	m.policy.Pin(frameID)
	m.policy.IncrementGetAllocCount()

	return &m.pool[frameID], nil
}

// ReleasePage drops one pin on pageID, optionally marking it dirty. The
// dirty bit is only ever set here, never cleared.
func (m *Manager) ReleasePage(pageID storage.PageID, dirty bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, err := m.bufMap.Get(pageID)
	if err != nil {
		return err
	}

	f := &m.frames[frameID]
	if f.PinCount == 0 {
		return fmt.Errorf("%w: %v", ErrPageNotPinned, pageID)
	}

	if dirty {
		f.Dirty = true
	}
	f.PinCount--
	if f.PinCount == 0 {
		m.policy.Unpin(frameID)
	}
	return nil
}

// SetDirty marks the resident page pageID dirty.
func (m *Manager) SetDirty(pageID storage.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, err := m.bufMap.Get(pageID)
	if err != nil {
		return err
	}
	m.frames[frameID].Dirty = true
	return nil
}

// FlushPage writes pageID back to disk if dirty and clears the dirty bit.
// Pin state is unchanged.
func (m *Manager) FlushPage(pageID storage.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frameID, err := m.bufMap.Get(pageID)
	if err != nil {
		return err
	}

	f := &m.frames[frameID]
	if f.Dirty {
		if err := m.disk.WritePage(pageID, &m.pool[frameID]); err != nil {
			return err
		}
		f.Dirty = false
	}
	return nil
}

// FlushAll writes every dirty resident page back to disk.
func (m *Manager) FlushAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.frames {
		f := &m.frames[i]
		if !f.Valid || !f.Dirty {
			continue
		}
		if err := m.disk.WritePage(f.PageID, &m.pool[i]); err != nil {
			return err
		}
		f.Dirty = false
	}
	return nil
}

// DeallocatePage drops pageID from the pool (it must be unpinned if
// resident) and deallocates it on disk.
func (m *Manager) DeallocatePage(pageID storage.PageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bufMap.Contains(pageID) {
		frameID, err := m.bufMap.Get(pageID)
		if err != nil {
			return err
		}
		f := &m.frames[frameID]
		if f.PinCount > 0 {
			return fmt.Errorf("%w: %v", ErrPagePinned, pageID)
		}

		f.Reset()
		if err := m.bufMap.Remove(pageID); err != nil {
			return err
		}
		m.policy.FreeFrame(frameID)
	}

	return m.disk.DeallocatePage(pageID)
}

// CreateFile creates the on-disk file for fileID.
func (m *Manager) CreateFile(fileID storage.FileID) error {
	return m.disk.CreateFile(fileID)
}

// RemoveFile drops every resident page of fileID from the pool and removes
// the file on disk. Fails without side effects on disk if any of the
// file's pages is pinned.
func (m *Manager) RemoveFile(fileID storage.FileID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.frames {
		f := &m.frames[i]
		if !f.Valid || f.PageID.FileID != fileID {
			continue
		}
		if f.PinCount > 0 {
			return fmt.Errorf("%w: %v", ErrPagePinned, f.PageID)
		}

		if err := m.bufMap.Remove(f.PageID); err != nil {
			return err
		}
		f.Reset()
		m.policy.FreeFrame(i)
	}

	return m.disk.RemoveFile(fileID)
}

// Close writes back every valid dirty page. Write failures are logged and
// otherwise ignored so shutdown always completes.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.frames {
		f := &m.frames[i]
		if !f.Valid || !f.Dirty {
			continue
		}
		if err := m.disk.WritePage(f.PageID, &m.pool[i]); err != nil {
			log.Printf("buffer: shutdown write-back of %v failed: %v", f.PageID, err)
			continue
		}
		f.Dirty = false
	}
}

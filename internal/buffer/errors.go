package buffer

import "errors"

var (
	// ErrPageNotFound is returned for operations on a page that is not
	// resident in the buffer pool.
	ErrPageNotFound = errors.New("buffer: page not found in buffer pool")

	// ErrPageAlreadyLoaded is returned when a map insert collides.
	ErrPageAlreadyLoaded = errors.New("buffer: page already loaded in buffer pool")

	// ErrPageNotPinned is returned when releasing a page whose pin count
	// is already zero.
	ErrPageNotPinned = errors.New("buffer: page is not pinned")

	// ErrPagePinned is returned when deallocating a pinned page or
	// removing a file that still has pinned pages.
	ErrPagePinned = errors.New("buffer: page is pinned")

	// ErrInvalidPageID is returned on a miss when the disk layer reports
	// the identifier is not allocated.
	ErrInvalidPageID = errors.New("buffer: invalid page id")

	// ErrInsufficientSpace is returned when every frame is pinned and no
	// victim can be chosen.
	ErrInsufficientSpace = errors.New("buffer: no unpinned frame available")

	// ErrInvalidPolicy is returned when the manager is constructed with an
	// unknown replacement policy.
	ErrInvalidPolicy = errors.New("buffer: unknown replacement policy")
)

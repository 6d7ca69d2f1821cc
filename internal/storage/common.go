package storage

import "errors"

const (
	OneB  = 1 << 0  // 1
	OneKB = 1 << 10 // 1,024
	OneMB = 1 << 20 // 1,048,576
	OneGB = 1 << 30 // 1,073,741,824

	// 8KB page size, similar to PostgreSQL
	PageSize = 1 << 13

	// MaxPagesPerFile caps how many pages one file may hold.
	MaxPagesPerFile = OneGB / PageSize
)

const (
	FileMode0644 = 0o644 // rw-r--r--
	FileMode0664 = 0o664 // rw-rw-r--
	FileMode0755 = 0o755 // rwxr-xr-x
)

// Disk-layer errors
var (
	ErrInvalidFileID     = errors.New("disk: invalid file id")
	ErrInvalidPageNum    = errors.New("disk: invalid page number")
	ErrInsufficientSpace = errors.New("disk: no space left in file")
	ErrFileExists        = errors.New("disk: file already exists")
	ErrDiskIO            = errors.New("disk: io error")
)

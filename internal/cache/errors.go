package cache

import "errors"

var (
	// ErrCacheUnavailable is returned when Redis is not healthy
	ErrCacheUnavailable = errors.New("cache unavailable - Redis is not healthy")

	// ErrSnapshotNotFound is returned when no snapshot is cached for a symbol
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// Package cache provides the byte-level caches used to soften repeat
// calls to rate-limited upstreams (news search results in particular).
package cache

import "time"

// BytesCache is a minimal cache API storing raw bytes with TTL.
// A ttl of zero means the entry never expires.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}

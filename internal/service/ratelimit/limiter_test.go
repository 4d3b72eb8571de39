package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesAndRefills(t *testing.T) {
	current := time.Unix(1700000000, 0)
	l := New()
	l.now = func() time.Time { return current }

	assert.True(t, l.Allow("k", 2, 1))
	assert.True(t, l.Allow("k", 2, 1))
	assert.False(t, l.Allow("k", 2, 1))

	current = current.Add(time.Second)
	assert.True(t, l.Allow("k", 2, 1))
	assert.False(t, l.Allow("k", 2, 1))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("a", 1, 0))
	assert.False(t, l.Allow("a", 1, 0))
	assert.True(t, l.Allow("b", 1, 0))
}

func TestAllowCapsAtCapacity(t *testing.T) {
	current := time.Unix(1700000000, 0)
	l := New()
	l.now = func() time.Time { return current }

	assert.True(t, l.Allow("k", 1, 10))
	current = current.Add(time.Hour)
	assert.True(t, l.Allow("k", 1, 10))
	assert.False(t, l.Allow("k", 1, 10))
}

package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGet(t *testing.T) {
	c := New()
	c.Set("k", "value", time.Minute)

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestGetMissing(t *testing.T) {
	_, ok := New().Get("absent")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New()
	c.Set("k", "value", -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCleanupDropsExpiredOnly(t *testing.T) {
	c := New()
	c.Set("stale", 1, -time.Second)
	c.Set("fresh", 2, time.Minute)

	c.Cleanup()

	_, staleOK := c.Get("stale")
	_, freshOK := c.Get("fresh")
	assert.False(t, staleOK)
	assert.True(t, freshOK)
}

func TestKeyIsStableAndDistinct(t *testing.T) {
	assert.Equal(t, Key("news", "키워드"), Key("news", "키워드"))
	assert.NotEqual(t, Key("news", "키워드"), Key("image", "키워드"))
	assert.Len(t, Key("news", "키워드"), 16)
}

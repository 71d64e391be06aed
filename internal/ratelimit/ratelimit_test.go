package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowCountsUpToBudget(t *testing.T) {
	l := New(3)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
	assert.Equal(t, 3, l.Used())
}

func TestZeroBudgetIsUnlimited(t *testing.T) {
	l := New(0)

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow())
	}
	assert.Equal(t, 100, l.Used())
}

func TestWindowReset(t *testing.T) {
	l := New(1)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	l.resetTime = time.Now().Add(-time.Second)

	assert.True(t, l.Allow(), "budget refills after the window passes")
	assert.Equal(t, 1, l.Used())
}

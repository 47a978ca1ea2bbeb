package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(capacity, rate float64) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(capacity, rate)
	l.now = clk.now
	l.lastSweep = clk.t
	return l, clk
}

func TestAllowBurstThenRefill(t *testing.T) {
	l, clk := newTestLimiter(2, 1)

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "keys are independent")

	clk.advance(time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestRefillCapsAtCapacity(t *testing.T) {
	l, clk := newTestLimiter(2, 1)
	l.Allow("k")
	clk.advance(time.Minute)

	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}

func TestIdleBucketsAreSwept(t *testing.T) {
	l, clk := newTestLimiter(1, 1)
	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.Len())

	clk.advance(11 * time.Minute)
	l.Allow("c")
	assert.Equal(t, 1, l.Len())
}

package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/clock"
)

func TestVirtualClockAdvance(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	c := clock.NewVirtual(start)
	assert.Equal(t, start, c.Now())

	got := c.Advance(90)
	assert.Equal(t, start.Add(90*time.Second), got)
	assert.Equal(t, got, c.Now())

	// sub-second steps accumulate without drift worth caring about
	c.Advance(0.5)
	c.Advance(0.5)
	assert.Equal(t, start.Add(91*time.Second), c.Now())
}

func TestVirtualClockString(t *testing.T) {
	c := clock.NewVirtual(time.Date(2024, 3, 1, 7, 5, 9, 0, time.UTC))
	assert.Equal(t, "07:05:09", c.String())

	h, m, s := c.HourMinuteSecond()
	assert.Equal(t, 7, h)
	assert.Equal(t, 5, m)
	assert.InDelta(t, 9.0, s, 1e-9)
}

func TestVirtualClockSet(t *testing.T) {
	c := clock.NewVirtual(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	target := time.Date(2024, 3, 2, 17, 30, 0, 0, time.UTC)
	c.Set(target)
	assert.Equal(t, target, c.Now())
}

func TestSystemClock(t *testing.T) {
	c := clock.NewSystem()
	before := time.Now()
	got := c.Now()
	after := time.Now()
	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

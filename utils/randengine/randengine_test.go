package randengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/randengine"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := randengine.New(42)
	b := randengine.New(42)
	for range 16 {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestNewFromStringDeterministic(t *testing.T) {
	a := randengine.NewFromString("TL001")
	b := randengine.NewFromString("TL001")
	c := randengine.NewFromString("TL002")
	assert.Equal(t, a.Uint64(), b.Uint64())
	// different ids should practically never collide on the first draw
	assert.NotEqual(t, a.Uint64(), c.Uint64())
}

func TestUniformBounds(t *testing.T) {
	e := randengine.New(1)
	for range 1000 {
		v := e.Uniform(0.9, 1.1)
		assert.GreaterOrEqual(t, v, 0.9)
		assert.Less(t, v, 1.1)
	}
	for range 1000 {
		v := e.UniformSafe(-5, 5)
		assert.GreaterOrEqual(t, v, -5.0)
		assert.Less(t, v, 5.0)
	}
}

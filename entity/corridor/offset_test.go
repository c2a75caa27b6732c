package corridor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/corridor"
)

func TestSafeOffset(t *testing.T) {
	// 500米@50km/h为36秒行程
	assert.Equal(t, 36, corridor.SafeOffset(500, 50, 120))
	// 2000米@40km/h为180秒行程，对120秒周期取模
	assert.Equal(t, 60, corridor.SafeOffset(2000, 40, 120))
	// 行程恰为整周期时相位差归零
	assert.Equal(t, 0, corridor.SafeOffset(1500, 45, 120))
}

func TestSafeOffsetDegenerate(t *testing.T) {
	assert.Equal(t, 0, corridor.SafeOffset(500, 0, 120))
	assert.Equal(t, 0, corridor.SafeOffset(500, -10, 120))
	assert.Equal(t, 0, corridor.SafeOffset(500, 50, 0))
}

func TestOffsetEfficiency(t *testing.T) {
	assert.Equal(t, 0.3, corridor.OffsetEfficiency(500, 50, 120))
	// 行程超过一个周期时记满
	assert.Equal(t, 1.0, corridor.OffsetEfficiency(2000, 40, 120))
	assert.Equal(t, 0.0, corridor.OffsetEfficiency(500, 0, 120))
}

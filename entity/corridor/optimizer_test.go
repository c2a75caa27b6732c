package corridor_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/corridor"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
)

func TestOptimizeModerate(t *testing.T) {
	ctx := corridorFixture()
	o := corridor.NewOptimizer(ctx)

	res, err := o.Optimize([]string{"TL001", "TL002", "TL003"}, 50, entity.DensityModerate)
	require.NoError(t, err)
	assert.Equal(t, "corridor_TL001_TL003", res.CorridorID)
	assert.Equal(t, []string{"TL001", "TL002", "TL003"}, res.SignalChain)
	assert.Equal(t, 3, res.TotalSignals)
	assert.Equal(t, 1000.0, res.TotalDistanceM)
	// moderate系数1.0、平均路段500米不触发修正
	assert.Equal(t, 50.0, res.OptimizedSpeedKmh)
	// 每段行程36秒，对下游周期120取模
	assert.Equal(t, []int{36, 72}, res.RecommendedOffsets)
	// 全部已协调、路段500米、车速50、周期一致：四项全满
	assert.Equal(t, 1.0, res.CoordinationEfficiency)
	assert.Equal(t, 72, res.EstimatedTravelTimeS)
	assert.Equal(t, entity.DensityModerate, res.TrafficDensity)
	assert.Equal(t, epoch, res.ComputedAt)

	gains := res.PerformanceGains
	assert.Equal(t, 7.5, gains.TimeSavingsPercent)
	assert.Equal(t, 6.0, gains.FuelSavingsPercent)
	assert.Equal(t, 5.4, gains.CO2ReductionPercent)
	assert.Equal(t, 2, gains.StopsReduced)
	assert.Equal(t, 0.1, gains.EstimatedTimeSavedMinutes)
	assert.Equal(t, 100.0, gains.EfficiencyScore)

	// 未知密度不调整车速
	res, err = o.Optimize([]string{"TL001", "TL002", "TL003"}, 50, entity.TrafficDensity("gridlock"))
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.OptimizedSpeedKmh)
}

func TestOptimizeSpeedAdjustments(t *testing.T) {
	// 短路段+拥堵：48×0.85×0.9=36.72
	ctx := newTestContext([]*input.SignalDoc{
		testDoc("TL001", 77.000, true),
		testDoc("TL002", 77.004, true),
		testDoc("TL003", 77.008, true),
	}, nil)
	o := corridor.NewOptimizer(ctx)

	res, err := o.Optimize([]string{"TL001", "TL002", "TL003"}, 48, entity.DensityHeavy)
	require.NoError(t, err)
	assert.Equal(t, 36.7, res.OptimizedSpeedKmh)
}

func TestOptimizeSpeedClamp(t *testing.T) {
	ctx := newTestContext([]*input.SignalDoc{
		testDoc("TL001", 77.00, true),
		testDoc("TL002", 77.02, true),
	}, nil)
	o := corridor.NewOptimizer(ctx)

	// 长路段+畅通：70×1.1×1.05=80.85，压到上限70
	res, err := o.Optimize([]string{"TL001", "TL002"}, 70, entity.DensityLight)
	require.NoError(t, err)
	assert.Equal(t, 70.0, res.OptimizedSpeedKmh)

	// 20×0.85×1.05=17.85，抬到下限25
	res, err = o.Optimize([]string{"TL001", "TL002"}, 20, entity.DensityHeavy)
	require.NoError(t, err)
	assert.Equal(t, 25.0, res.OptimizedSpeedKmh)
}

func TestOptimizeErrors(t *testing.T) {
	ctx := corridorFixture()
	o := corridor.NewOptimizer(ctx)

	_, err := o.Optimize([]string{"TL001"}, 50, entity.DensityModerate)
	assert.ErrorIs(t, err, entity.ErrCorridorTooShort)

	long := make([]string, 16)
	for i := range long {
		long[i] = fmt.Sprintf("TL%03d", i+1)
	}
	_, err = o.Optimize(long, 50, entity.DensityModerate)
	assert.ErrorIs(t, err, entity.ErrCorridorTooLong)

	// 链中的未知ID被忽略，可解析数不足2台时报错
	_, err = o.Optimize([]string{"TL001", "TL404"}, 50, entity.DensityModerate)
	assert.ErrorIs(t, err, entity.ErrInsufficientSignals)
}

func TestOptimizeCorridorFromRegistry(t *testing.T) {
	ctx := corridorFixture()
	o := corridor.NewOptimizer(ctx)

	res, err := o.OptimizeCorridor("corridor_1", 50, entity.DensityModerate)
	require.NoError(t, err)
	// 结果挂在注册表走廊名下而非链端点拼接名
	assert.Equal(t, "corridor_1", res.CorridorID)
	assert.Equal(t, []int{36, 72}, res.RecommendedOffsets)

	_, err = o.OptimizeCorridor("corridor_404", 50, entity.DensityModerate)
	assert.ErrorIs(t, err, entity.ErrCorridorNotFound)
}

package corridor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/corridor"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
)

func TestPlanGreenWave(t *testing.T) {
	ctx := corridorFixture()
	p := corridor.NewPlanner(ctx)

	plan, err := p.PlanGreenWave("corridor_1", 60)
	require.NoError(t, err)
	assert.Equal(t, "corridor_1", plan.CorridorID)
	assert.Equal(t, 60.0, plan.OptimalSpeedKmh)

	require.Len(t, plan.Signals, 3)
	assert.Equal(t, "TL001", plan.Signals[0].SignalID)
	assert.Equal(t, entity.LightStateGreen, plan.Signals[0].State)
	assert.Equal(t, 60.0, plan.Signals[0].Remaining)
	assert.Equal(t, epoch, plan.Signals[0].ComputedAt)

	// 60km/h下每段行程30秒因浮点截断落到29
	assert.Equal(t, []int{29, 59}, plan.CoordinationOffsetsS)
	// 全部已协调且车速不超60：0.8×1.0
	assert.Equal(t, 0.8, plan.SuccessProbability)
}

func TestPlanGreenWaveSpeedPenalty(t *testing.T) {
	ctx := corridorFixture()
	p := corridor.NewPlanner(ctx)

	plan, err := p.PlanGreenWave("corridor_1", 80)
	require.NoError(t, err)
	// 0.8×(60/80)
	assert.Equal(t, 0.6, plan.SuccessProbability)
	assert.Equal(t, []int{22, 45}, plan.CoordinationOffsetsS)
}

func TestPlanGreenWaveUncoordinated(t *testing.T) {
	ctx := newTestContext([]*input.SignalDoc{
		testDoc("TL001", 77.00, true),
		testDoc("TL002", 77.01, false),
	}, []*input.CorridorDoc{{ID: "corridor_1", SignalIDs: []string{"TL001", "TL002"}}})
	p := corridor.NewPlanner(ctx)

	plan, err := p.PlanGreenWave("corridor_1", 60)
	require.NoError(t, err)
	assert.Equal(t, 0.6, plan.SuccessProbability)
}

func TestPlanGreenWaveErrors(t *testing.T) {
	ctx := corridorFixture()
	p := corridor.NewPlanner(ctx)

	_, err := p.PlanGreenWave("corridor_404", 50)
	assert.ErrorIs(t, err, entity.ErrCorridorNotFound)

	_, err = p.PlanGreenWave("corridor_1", 0)
	assert.ErrorIs(t, err, entity.ErrInvalidSpeedRange)
}

func TestPerformance(t *testing.T) {
	build := func() *testContext {
		return newTestContext([]*input.SignalDoc{
			testDoc("TL001", 77.00, true),
			testDoc("TL002", 77.01, true),
			testDoc("TL003", 77.02, false),
		}, []*input.CorridorDoc{{ID: "corridor_1", SignalIDs: []string{"TL001", "TL002", "TL003"}}})
	}
	ctx := build()
	p := corridor.NewPlanner(ctx)

	perf, err := p.Performance("corridor_1")
	require.NoError(t, err)
	assert.Equal(t, "corridor_1", perf.CorridorID)
	assert.Equal(t, 3, perf.TotalSignals)
	assert.Equal(t, 2, perf.CoordinatedSignals)
	assert.Equal(t, 66.7, perf.CoordinationPercent)
	assert.GreaterOrEqual(t, perf.AverageDelayS, 15.0)
	assert.LessOrEqual(t, perf.AverageDelayS, 45.0)
	assert.GreaterOrEqual(t, perf.ThroughputVPH, 800)
	assert.LessOrEqual(t, perf.ThroughputVPH, 1200)
	assert.GreaterOrEqual(t, perf.EstimatedFuelSavingsPercent, 10.0)
	assert.LessOrEqual(t, perf.EstimatedFuelSavingsPercent, 25.0)
	assert.Equal(t, epoch, perf.ComputedAt)

	// 同一种子下模拟指标可复现
	perf2, err := corridor.NewPlanner(build()).Performance("corridor_1")
	require.NoError(t, err)
	assert.Equal(t, perf, perf2)

	_, err = p.Performance("corridor_404")
	assert.ErrorIs(t, err, entity.ErrCorridorNotFound)
}

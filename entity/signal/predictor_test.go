package signal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/signal"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/randengine"
)

func TestPredictStates(t *testing.T) {
	m := newTestManager([]*input.SignalDoc{testDoc("TL001", 0)})
	s := m.Get("TL001")
	p := signal.NewPredictor(signal.NoJitter{})

	// test: green at arrival

	pred := p.Predict(s, epoch, epoch.Add(30*time.Second), 50)
	assert.Equal(t, entity.LightStateGreen, pred.State)
	assert.InDelta(t, 0.9, pred.Confidence, 1e-9)
	assert.InDelta(t, 30, pred.TimeToArrival, 1e-9)

	// test: yellow at arrival

	pred = p.Predict(s, epoch, epoch.Add(62*time.Second), 50)
	assert.Equal(t, entity.LightStateYellow, pred.State)
	assert.InDelta(t, 0.8, pred.Confidence, 1e-9)

	// test: red at arrival

	pred = p.Predict(s, epoch, epoch.Add(65*time.Second), 50)
	assert.Equal(t, entity.LightStateRed, pred.State)
	assert.InDelta(t, 0.9, pred.Confidence, 1e-9)
}

func TestPredictPastArrival(t *testing.T) {
	m := newTestManager([]*input.SignalDoc{testDoc("TL001", 0)})
	s := m.Get("TL001")
	p := signal.NewPredictor(signal.NoJitter{})

	pred := p.Predict(s, epoch, epoch.Add(-10*time.Second), 50)
	assert.Equal(t, 0.0, pred.TimeToArrival)
	assert.Nil(t, pred.RecommendedSpeed)
}

func TestPredictRecommendedSpeed(t *testing.T) {
	m := newTestManager([]*input.SignalDoc{testDoc("TL001", 0)})
	s := m.Get("TL001")
	p := signal.NewPredictor(signal.NoJitter{})

	// 当前周期位置0，下一个绿灯窗口在120秒后开启，窗口期60秒
	pred := p.Predict(s, epoch, epoch.Add(30*time.Second), 50)
	require.NotNil(t, pred.RecommendedSpeed)
	assert.InDelta(t, 50, *pred.RecommendedSpeed, 1e-9)

	// test: clamp to [20, 60]

	pred = p.Predict(s, epoch, epoch.Add(30*time.Second), 10)
	require.NotNil(t, pred.RecommendedSpeed)
	assert.InDelta(t, 20, *pred.RecommendedSpeed, 1e-9)
	pred = p.Predict(s, epoch, epoch.Add(30*time.Second), 95)
	require.NotNil(t, pred.RecommendedSpeed)
	assert.InDelta(t, 60, *pred.RecommendedSpeed, 1e-9)

	// test: infeasible window

	pred = p.Predict(s, epoch, epoch.Add(200*time.Second), 50)
	assert.Nil(t, pred.RecommendedSpeed)
}

func TestPredictJitterWithinBand(t *testing.T) {
	m := newTestManager([]*input.SignalDoc{testDoc("TL001", 0)})
	s := m.Get("TL001")
	p := signal.NewPredictor(signal.NewShiftJitter(randengine.New(7), 5))

	for i := 0; i < 100; i++ {
		pred := p.Predict(s, epoch, epoch.Add(30*time.Second), 50)
		require.NotNil(t, pred.RecommendedSpeed)
		assert.GreaterOrEqual(t, *pred.RecommendedSpeed, 45.0)
		assert.LessOrEqual(t, *pred.RecommendedSpeed, 55.0)
	}
}

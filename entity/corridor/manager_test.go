package corridor_test

import (
	"math"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/clock"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/corridor"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/signal"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/randengine"
)

var epoch = time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

// gridDistance 测试用平面距离：经度差按每度5万米折算并凑整到米，
// 使间距恰为整数，便于核对行程时间
func gridDistance(a, b geo.Point) float64 {
	return math.Round(math.Abs(a.Lng-b.Lng) * 50000)
}

type testContext struct {
	signals   entity.ISignalManager
	corridors entity.ICorridorManager
	engine    *randengine.Engine
}

func (c *testContext) Clock() clock.Clock                       { return clock.NewVirtual(epoch) }
func (c *testContext) SignalManager() entity.ISignalManager     { return c.signals }
func (c *testContext) CorridorManager() entity.ICorridorManager { return c.corridors }
func (c *testContext) Predictor() entity.IPredictor             { return signal.NewPredictor(signal.NoJitter{}) }
func (c *testContext) RuntimeConfig() *config.RuntimeConfig     { return &config.RuntimeConfig{} }
func (c *testContext) Distance() geo.DistanceFunc               { return gridDistance }
func (c *testContext) Rand() *randengine.Engine                 { return c.engine }

// testDoc 构造周期120/绿60/黄4/红56、相位偏移0的信号机记录
func testDoc(id string, lng float64, coordinated bool) *input.SignalDoc {
	return &input.SignalDoc{
		ID:          id,
		Latitude:    28.6315,
		Longitude:   lng,
		RoadClass:   "major_arterial",
		Cycle:       120,
		Green:       60,
		Yellow:      4,
		Red:         56,
		Offset:      lo.ToPtr(0.0),
		Coordinated: coordinated,
	}
}

// newTestContext 构建挂接真实信号机与走廊管理器的任务上下文
func newTestContext(signalDocs []*input.SignalDoc, corridorDocs []*input.CorridorDoc) *testContext {
	ctx := &testContext{engine: randengine.New(42)}
	sm := signal.NewManager(ctx)
	cm := corridor.NewManager(ctx)
	ctx.signals = sm
	ctx.corridors = cm
	sm.Init(signalDocs, epoch)
	cm.Init(corridorDocs)
	return ctx
}

// corridorFixture 标准夹具：四台信号机间距500米，前三台组成corridor_1
func corridorFixture() *testContext {
	return newTestContext(
		[]*input.SignalDoc{
			testDoc("TL001", 77.00, true),
			testDoc("TL002", 77.01, true),
			testDoc("TL003", 77.02, true),
			testDoc("TL004", 77.03, true),
		},
		[]*input.CorridorDoc{{ID: "corridor_1", SignalIDs: []string{"TL001", "TL002", "TL003"}}},
	)
}

func TestCorridorManagerInitAndGet(t *testing.T) {
	ctx := corridorFixture()
	m := ctx.CorridorManager()

	assert.Equal(t, 1, m.Count())
	assert.Equal(t, uint64(1), m.Version())

	c := m.Get("corridor_1")
	assert.Equal(t, "corridor_1", c.ID())
	assert.Equal(t, []string{"TL001", "TL002", "TL003"}, c.SignalIDs())
	assert.Equal(t, []float64{500, 500}, c.Distances())
	assert.Equal(t, 1000.0, c.TotalDistance())
	assert.Equal(t, 500.0, c.AverageBlock())
	assert.Equal(t, 3, c.Len())

	assert.Panics(t, func() { m.Get("corridor_404") })
	_, err := m.GetOrError("corridor_404")
	assert.ErrorIs(t, err, entity.ErrCorridorNotFound)
}

func TestCorridorManagerBuild(t *testing.T) {
	ctx := corridorFixture()
	m := ctx.CorridorManager()

	c, err := m.Build("corridor_2", []string{"TL003", "TL004"})
	require.NoError(t, err)
	assert.Equal(t, []float64{500}, c.Distances())
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, uint64(2), m.Version())

	// test: duplicate corridor id

	_, err = m.Build("corridor_1", []string{"TL001", "TL002"})
	assert.ErrorIs(t, err, entity.ErrDuplicateCorridor)

	// test: invalid chains

	_, err = m.Build("corridor_3", []string{"TL001", "TL404"})
	assert.ErrorIs(t, err, entity.ErrSignalNotFound)
	_, err = m.Build("corridor_3", []string{"TL001"})
	assert.ErrorIs(t, err, entity.ErrCorridorTooShort)
	_, err = m.Build("corridor_3", []string{"TL001", "TL001"})
	assert.Error(t, err)

	// 失败的登记不产生新快照
	assert.Equal(t, uint64(2), m.Version())
	assert.Equal(t, 2, m.Count())
}

func TestCorridorManagerRebuild(t *testing.T) {
	ctx := corridorFixture()
	m := ctx.CorridorManager()

	c, err := m.Rebuild("corridor_1", []string{"TL001", "TL004"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1500}, c.Distances())
	assert.Equal(t, 1, m.Count())
	assert.Equal(t, uint64(2), m.Version())
	assert.Equal(t, []string{"TL001", "TL004"}, m.Get("corridor_1").SignalIDs())

	_, err = m.Rebuild("corridor_404", []string{"TL001", "TL002"})
	assert.ErrorIs(t, err, entity.ErrCorridorNotFound)
}

func TestCorridorManagerReferences(t *testing.T) {
	ctx := corridorFixture()
	m := ctx.CorridorManager()

	assert.True(t, m.References("TL002"))
	assert.False(t, m.References("TL004"))

	// 被走廊引用的信号机不可注销，未被引用的可以
	err := ctx.SignalManager().Deregister("TL002")
	assert.ErrorIs(t, err, entity.ErrCorridorMembership)
	require.NoError(t, ctx.SignalManager().Deregister("TL004"))
}

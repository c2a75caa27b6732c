package signal

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/randengine"
)

// Signal 信号机实体
// 功能：存储单台信号机的静态属性与配时方案，提供任意时刻的灯色推算
// 说明：实体不可变，配时调整通过复制出新实体完成；周期推算为纯函数，
// 不读取系统时钟，时刻全部由调用方显式传入
type Signal struct {
	id                 string              // 信号机ID
	name               string              // 路口名称，用于通行建议文案
	position           geo.Point           // 坐标
	roadClass          entity.RoadClass    // 道路等级
	timing             entity.SignalTiming // 配时方案
	offset             float64             // 相位偏移（秒，[0, Cycle)）
	coordinated        bool                // 是否参与走廊协调
	corridorID         string              // 所属走廊ID
	adaptive           bool                // 是否为自适应信号机
	pedestrianCrossing bool                // 是否带行人过街相位
	epoch              time.Time           // 周期推算的参考起点

	generator *randengine.Engine // 由ID派生种子的随机数引擎
}

// newSignal 创建并初始化一个新的Signal实例
// 功能：根据输入记录构造信号机，填充默认配时与相位偏移
// 参数：doc-输入记录，epoch-周期推算的参考起点
// 返回：初始化完成的Signal实例，记录非法时返回错误
// 算法说明：
// 1. 路口名称缺省时使用ID
// 2. 道路等级缺省或未知时回退到local并告警
// 3. 配时字段全部缺省时按道路等级填充默认方案，否则校验一致性
// 4. 相位偏移缺省时由ID派生的随机数引擎确定，给定时归一化到[0, Cycle)
func newSignal(doc *input.SignalDoc, epoch time.Time) (*Signal, error) {
	name := doc.Name
	if name == "" {
		name = doc.ID
	}
	class := entity.RoadClass(doc.RoadClass)
	if doc.RoadClass == "" {
		class = entity.RoadClassLocal
	} else if !class.Valid() {
		log.Warnf("unknown road class %s for signal %s, fallback to %s", doc.RoadClass, doc.ID, entity.RoadClassLocal)
		class = entity.RoadClassLocal
	}
	var timing entity.SignalTiming
	if doc.Cycle == 0 && doc.Green == 0 && doc.Yellow == 0 && doc.Red == 0 {
		timing = DefaultTiming(class)
	} else {
		timing = entity.SignalTiming{Cycle: doc.Cycle, Green: doc.Green, Yellow: doc.Yellow, Red: doc.Red}
		if err := ValidateTiming(timing); err != nil {
			return nil, fmt.Errorf("signal %s: %w", doc.ID, err)
		}
	}
	generator := randengine.NewFromString(doc.ID)
	var offset float64
	if doc.Offset != nil {
		offset = utils.FloorMod(*doc.Offset, timing.Cycle)
	} else {
		// 与周期同量纲的确定性默认偏移
		n := int(timing.Cycle)
		if n < 1 {
			n = 1
		}
		offset = float64(generator.Intn(n))
	}
	return &Signal{
		id:                 doc.ID,
		name:               name,
		position:           geo.Point{Lat: doc.Latitude, Lng: doc.Longitude},
		roadClass:          class,
		timing:             timing,
		offset:             offset,
		coordinated:        doc.Coordinated,
		corridorID:         doc.CorridorID,
		adaptive:           doc.Adaptive,
		pedestrianCrossing: doc.PedestrianCrossing,
		epoch:              epoch,
		generator:          generator,
	}, nil
}

// retimed 复制出采用新配时方案的信号机
// 说明：参考起点重置为调整时刻，相位偏移归一化到新周期
func (s *Signal) retimed(timing entity.SignalTiming, at time.Time) *Signal {
	ns := *s
	ns.timing = timing
	ns.offset = utils.FloorMod(s.offset, timing.Cycle)
	ns.epoch = at
	return &ns
}

// CyclePosition 计算t时刻在信号周期内的位置
// 功能：由参考起点推算经过时间，叠加相位偏移后对周期取模
// 参数：t-查询时刻（可早于参考起点）
// 返回：周期内位置（秒，[0, Cycle)）
func (s *Signal) CyclePosition(t time.Time) float64 {
	elapsed := t.Sub(s.epoch).Seconds()
	return utils.FloorMod(elapsed+s.offset, s.timing.Cycle)
}

// StateAt 计算t时刻的灯色快照
// 功能：按绿-黄-红的相位顺序确定当前灯色与距下一次切换的秒数
// 参数：t-查询时刻
// 返回：灯色快照，含面向驾驶员的通行建议
// 算法说明：
// 1. position < green：绿灯，剩余green-position
// 2. position < green+yellow：黄灯，剩余green+yellow-position
// 3. 其余：红灯，剩余cycle-position
// 说明：满足周期性StateAt(t)==StateAt(t+Cycle)
func (s *Signal) StateAt(t time.Time) entity.SignalState {
	position := s.CyclePosition(t)
	var state entity.LightState
	var remaining float64
	switch {
	case position < s.timing.Green:
		state = entity.LightStateGreen
		remaining = s.timing.Green - position
	case position < s.timing.Green+s.timing.Yellow:
		state = entity.LightStateYellow
		remaining = s.timing.Green + s.timing.Yellow - position
	default:
		state = entity.LightStateRed
		remaining = s.timing.Cycle - position
	}
	return entity.SignalState{
		SignalID:       s.id,
		State:          state,
		Remaining:      remaining,
		ComputedAt:     t,
		Recommendation: s.recommendation(state, remaining),
	}
}

// recommendation 生成面向驾驶员的通行建议
// 说明：建议文案中的秒数向下取整
func (s *Signal) recommendation(state entity.LightState, remaining float64) string {
	seconds := int(remaining)
	switch state {
	case entity.LightStateGreen:
		if seconds > 10 {
			return fmt.Sprintf("Proceed through %s - Green light for %ds", s.name, seconds)
		}
		return fmt.Sprintf("Proceed quickly through %s - Green light changing soon", s.name)
	case entity.LightStateYellow:
		return fmt.Sprintf("Prepare to stop at %s - Yellow light for %ds", s.name, seconds)
	default:
		if seconds > 30 {
			return fmt.Sprintf("Stop at %s - Red light for %ds", s.name, seconds)
		}
		return fmt.Sprintf("Prepare for green at %s - Red light changing soon", s.name)
	}
}

// ID 获取信号机的唯一标识符
// 返回：信号机ID，如果信号机为nil则返回空字符串
func (s *Signal) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Name 获取路口名称
func (s *Signal) Name() string {
	return s.name
}

// Position 获取信号机坐标
func (s *Signal) Position() geo.Point {
	return s.position
}

// RoadClass 获取所在道路等级
func (s *Signal) RoadClass() entity.RoadClass {
	return s.roadClass
}

// Timing 获取当前配时方案
func (s *Signal) Timing() entity.SignalTiming {
	return s.timing
}

// Offset 获取相位偏移
func (s *Signal) Offset() float64 {
	return s.offset
}

// Coordinated 是否参与走廊协调
func (s *Signal) Coordinated() bool {
	return s.coordinated
}

// CorridorID 获取所属走廊ID
func (s *Signal) CorridorID() string {
	return s.corridorID
}

// Adaptive 是否为自适应信号机
func (s *Signal) Adaptive() bool {
	return s.adaptive
}

// PedestrianCrossing 是否带行人过街相位
func (s *Signal) PedestrianCrossing() bool {
	return s.pedestrianCrossing
}

// Epoch 获取周期推算的参考起点时刻
func (s *Signal) Epoch() time.Time {
	return s.epoch
}

func (s *Signal) String() string {
	return fmt.Sprintf("Signal{id=%s, class=%s, timing=%v, offset=%v}", s.id, s.roadClass, s.timing, s.offset)
}

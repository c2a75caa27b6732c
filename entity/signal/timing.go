package signal

import (
	"flag"
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils"
)

var (
	smartJitterBand = flag.Float64("signal.smart_jitter_band", 0.1, "自适应信号机分时段配时的随机扰动幅度（±比例）")
)

// 配时一致性检查的允许误差
const timingEpsilon = 1e-6

// defaultPatterns 各道路等级的默认配时方案
var defaultPatterns = map[entity.RoadClass]entity.SignalTiming{
	entity.RoadClassMajorArterial: {Cycle: 120, Green: 60, Yellow: 4, Red: 56},
	entity.RoadClassArterial:      {Cycle: 90, Green: 45, Yellow: 3, Red: 42},
	entity.RoadClassCollector:     {Cycle: 60, Green: 30, Yellow: 3, Red: 27},
	entity.RoadClassLocal:         {Cycle: 45, Green: 20, Yellow: 3, Red: 22},
}

// hourlyPattern 分高峰/平峰的配时方案
type hourlyPattern struct {
	Peak   entity.SignalTiming
	Normal entity.SignalTiming
}

// hourlyPatterns 各道路等级分时段配时方案（按德里路网标定，周期由三相之和导出）
var hourlyPatterns = map[entity.RoadClass]hourlyPattern{
	entity.RoadClassMajorArterial: {
		Peak:   timingOf(90, 4, 120),
		Normal: timingOf(60, 3, 90),
	},
	entity.RoadClassArterial: {
		Peak:   timingOf(70, 4, 100),
		Normal: timingOf(45, 3, 75),
	},
	entity.RoadClassCollector: {
		Peak:   timingOf(50, 3, 80),
		Normal: timingOf(35, 3, 60),
	},
	entity.RoadClassLocal: {
		Peak:   timingOf(30, 3, 50),
		Normal: timingOf(25, 3, 40),
	},
}

// peakHours 高峰时段（小时，含两端）
var peakHours = [][2]int{
	{7, 10},  // 早高峰
	{17, 20}, // 晚高峰
	{12, 14}, // 午间小高峰
}

// timingOf 由三个相位时长构造配时方案
func timingOf(green, yellow, red float64) entity.SignalTiming {
	return entity.SignalTiming{Cycle: green + yellow + red, Green: green, Yellow: yellow, Red: red}
}

// IsPeakHour 判断小时是否处于高峰时段
func IsPeakHour(hour int) bool {
	for _, w := range peakHours {
		if w[0] <= hour && hour <= w[1] {
			return true
		}
	}
	return false
}

// DefaultTiming 获取道路等级对应的默认配时方案
// 说明：未知等级回退到local方案
func DefaultTiming(class entity.RoadClass) entity.SignalTiming {
	if t, ok := defaultPatterns[class]; ok {
		return t
	}
	return defaultPatterns[entity.RoadClassLocal]
}

// ValidateTiming 校验配时方案一致性
// 功能：检查各相位时长取值范围与周期一致性
// 参数：t-待校验的配时方案
// 返回：nil表示方案合法，否则返回包装后的ErrInvalidTiming
func ValidateTiming(t entity.SignalTiming) error {
	if t.Cycle <= 0 || t.Green <= 0 {
		return fmt.Errorf("%w: cycle and green must be positive, got cycle=%v green=%v",
			entity.ErrInvalidTiming, t.Cycle, t.Green)
	}
	if t.Yellow < 0 || t.Red < 0 {
		return fmt.Errorf("%w: yellow and red must be non-negative, got yellow=%v red=%v",
			entity.ErrInvalidTiming, t.Yellow, t.Red)
	}
	if sum := t.Sum(); mathutil.Abs(sum-t.Cycle) > timingEpsilon {
		return fmt.Errorf("%w: phase sum %vs does not match cycle %vs",
			entity.ErrInvalidTiming, sum, t.Cycle)
	}
	return nil
}

// TimingForHour 获取道路等级在指定小时的配时方案
// 功能：按高峰/平峰时段选择基础方案，自适应信号机再施加高峰调节与随机扰动
// 参数：class-道路等级，hour-小时[0,24)，adaptive-是否自适应信号机，jitter-扰动源
// 返回：配时方案
// 算法说明：
// 1. 按时段取基础方案，未知等级回退到local
// 2. 自适应信号机高峰调节：快速干道全相位×1.3，其余等级仅绿灯×1.2
// 3. 自适应信号机各相位独立施加扰动后向下取整
// 4. 周期由三相时长之和重新导出
func TimingForHour(class entity.RoadClass, hour int, adaptive bool, jitter JitterSource) entity.SignalTiming {
	p, ok := hourlyPatterns[class]
	if !ok {
		p = hourlyPatterns[entity.RoadClassLocal]
	}
	isPeak := IsPeakHour(hour)
	base := p.Normal
	if isPeak {
		base = p.Peak
	}
	if !adaptive {
		return base
	}
	if jitter == nil {
		jitter = NoJitter{}
	}
	greenFactor, otherFactor := 1.0, 1.0
	if isPeak {
		if class == entity.RoadClassMajorArterial {
			greenFactor, otherFactor = 1.3, 1.3
		} else {
			greenFactor = 1.2
		}
	}
	green := math.Trunc(jitter.Jitter(base.Green * greenFactor))
	yellow := math.Trunc(jitter.Jitter(base.Yellow * otherFactor))
	red := math.Trunc(jitter.Jitter(base.Red * otherFactor))
	return entity.SignalTiming{Cycle: green + yellow + red, Green: green, Yellow: yellow, Red: red}
}

// AdjustTiming 按交通流量与行人数量调整配时
// 功能：根据实时交通流量与行人过街需求调整绿灯时长并重新导出周期
// 参数：t-当前配时，trafficVolume-交通流量，pedestrianCount-等待行人数，crossing-是否带行人过街相位
// 返回：调整后的配时与效率增益百分比
// 算法说明：
// 1. 流量>100：绿灯延长min(20, volume/10)秒
// 2. 流量<30：绿灯缩短min(10, (30-volume)/3)秒，下限15秒
// 3. 带行人过街相位且行人>5：绿灯延长min(15, count/2)秒
// 4. 效率增益=|周期变化|/原周期×100，保留一位小数
// 说明：延长与缩短量按整数秒计
func AdjustTiming(t entity.SignalTiming, trafficVolume, pedestrianCount int, crossing bool) (entity.SignalTiming, float64) {
	green := t.Green
	if trafficVolume > 100 {
		green += math.Min(20, float64(trafficVolume/10))
	} else if trafficVolume < 30 {
		green = math.Max(15, green-math.Min(10, float64((30-trafficVolume)/3)))
	}
	if crossing && pedestrianCount > 5 {
		green += math.Min(15, float64(pedestrianCount/2))
	}
	adjusted := entity.SignalTiming{
		Cycle:  green + t.Yellow + t.Red,
		Green:  green,
		Yellow: t.Yellow,
		Red:    t.Red,
	}
	gain := utils.Round(mathutil.Abs(t.Cycle-adjusted.Cycle)/t.Cycle*100, 1)
	return adjusted, gain
}

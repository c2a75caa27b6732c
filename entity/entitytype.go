package entity

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
)

// LightState 信号灯灯色
type LightState int32

const (
	LightStateUnspecified LightState = iota // 未指定
	LightStateRed                           // 红灯
	LightStateGreen                         // 绿灯
	LightStateYellow                        // 黄灯
)

// String 获取灯色的字符串表示（小写，用于输出与推荐语）
func (s LightState) String() string {
	switch s {
	case LightStateRed:
		return "red"
	case LightStateGreen:
		return "green"
	case LightStateYellow:
		return "yellow"
	default:
		return "unspecified"
	}
}

// RoadClass 道路等级
// 说明：决定信号机的默认配时方案
type RoadClass string

const (
	RoadClassMajorArterial RoadClass = "major_arterial" // 快速干道（环路、国道）
	RoadClassArterial      RoadClass = "arterial"       // 主干道
	RoadClassCollector     RoadClass = "collector"      // 次干道（片区道路）
	RoadClassLocal         RoadClass = "local"          // 支路
)

// Valid 检查道路等级取值是否合法
func (r RoadClass) Valid() bool {
	switch r {
	case RoadClassMajorArterial, RoadClassArterial, RoadClassCollector, RoadClassLocal:
		return true
	}
	return false
}

// TrafficDensity 交通密度等级
type TrafficDensity string

const (
	DensityLight    TrafficDensity = "light"    // 畅通
	DensityModerate TrafficDensity = "moderate" // 平稳
	DensityHeavy    TrafficDensity = "heavy"    // 拥堵
)

// SignalTiming 信号配时方案
// 说明：各相位时长均以秒计，满足Green+Yellow+Red=Cycle
type SignalTiming struct {
	Cycle  float64 // 周期时长
	Green  float64 // 绿灯时长
	Yellow float64 // 黄灯时长
	Red    float64 // 红灯时长
}

// Sum 获取三个相位时长之和
func (t SignalTiming) Sum() float64 {
	return t.Green + t.Yellow + t.Red
}

func (t SignalTiming) String() string {
	return fmt.Sprintf("SignalTiming{C=%v, G=%v, Y=%v, R=%v}", t.Cycle, t.Green, t.Yellow, t.Red)
}

// SignalState 信号机在某一时刻的灯色快照
type SignalState struct {
	SignalID       string     // 信号机ID
	State          LightState // 当前灯色
	Remaining      float64    // 距下一次灯色切换的秒数
	ComputedAt     time.Time  // 快照对应的时刻
	Recommendation string     // 面向驾驶员的通行建议
}

// SignalPrediction 车辆到达时刻的灯色预测
type SignalPrediction struct {
	SignalID         string     // 信号机ID
	State            LightState // 到达时刻的预测灯色
	Confidence       float64    // 预测置信度（0到1）
	TimeToArrival    float64    // 距到达时刻的秒数（过去时刻记0）
	RecommendedSpeed *float64   // 赶上绿灯的推荐车速（km/h），无可行推荐时为nil
}

// SignalDistance 信号机及其与查询点的距离
type SignalDistance struct {
	Signal     ISignal // 信号机
	DistanceKm float64 // 距查询点的距离（千米）
}

// RetimeReport 配时调整报告
type RetimeReport struct {
	SignalID              string       // 信号机ID
	Before                SignalTiming // 调整前配时
	After                 SignalTiming // 调整后配时
	TrafficVolume         int          // 触发调整的交通流量（辆/周期）
	PedestrianCount       int          // 等待行人数
	EfficiencyGainPercent float64      // 周期变化幅度（百分比）
	At                    time.Time    // 调整时刻
}

// PerformanceGains 走廊协调的收益估计
// 说明：经验公式估计值，随协调效率与信号机数量增长
type PerformanceGains struct {
	TimeSavingsPercent        float64 // 行程时间节省（百分比）
	FuelSavingsPercent        float64 // 燃油节省（百分比）
	CO2ReductionPercent       float64 // 碳排放减少（百分比）
	StopsReduced              int     // 减少的停车次数
	EstimatedTimeSavedMinutes float64 // 典型行程节省的分钟数
	EfficiencyScore           float64 // 协调效率得分（0到100）
}

// CorridorOptimization 走廊配时优化结果
type CorridorOptimization struct {
	CorridorID             string           // 走廊ID
	SignalChain            []string         // 请求的信号机链
	TotalSignals           int              // 实际参与优化的信号机数
	TotalDistanceM         float64          // 走廊总长度（米）
	OptimizedSpeedKmh      float64          // 优化后的协调车速
	RecommendedOffsets     []int            // 相邻信号机的推荐相位差（秒，长度n-1）
	CoordinationEfficiency float64          // 协调效率（0到1）
	EstimatedTravelTimeS   int              // 全程预计耗时（秒）
	PerformanceGains       PerformanceGains // 收益估计
	TrafficDensity         TrafficDensity   // 优化时假定的交通密度
	ComputedAt             time.Time        // 计算时刻
}

// SignalEncounter 绿波推进中与单个信号机的一次相遇
type SignalEncounter struct {
	SignalID            string     // 信号机ID
	ArrivalTime         time.Time  // 到达时刻
	CumulativeDistanceM int        // 从起点累计行驶距离（米）
	PredictedState      LightState // 到达时刻的预测灯色
	Confidence          float64    // 预测置信度
	RecommendedSpeed    *float64   // 推荐车速（km/h）
	StopRequired        bool       // 是否需要停车（预测为红灯）
}

// ProgressionSummary 绿波推进的整体表现
type ProgressionSummary struct {
	TotalSignals               int     // 途经信号机总数
	GreenHits                  int     // 绿灯通过次数
	StopsRequired              int     // 需要停车的次数
	GreenWaveEfficiencyPercent float64 // 绿波效率（绿灯通过占比，百分比）
	TotalTravelTimeS           int     // 全程耗时（秒）
	AverageSpeedKmh            float64 // 维持的平均车速
}

// ProgressionTrace 虚拟车辆沿走廊推进的完整轨迹
type ProgressionTrace struct {
	CorridorID string            // 走廊ID
	SpeedKmh   float64           // 仿真车速
	StartTime  time.Time         // 出发时刻
	Encounters []SignalEncounter // 逐个信号机的相遇记录
	Summary    ProgressionSummary
}

// BandwidthSample 单一候选车速下的绿波带宽
type BandwidthSample struct {
	SpeedKmh          float64 // 候选车速
	BandwidthS        float64 // 绿波带宽（秒）
	EfficiencyPercent float64 // 带宽效率（以60秒为满分归一化）
}

// CoordinationPotential 走廊协调潜力评估
type CoordinationPotential struct {
	CycleConsistency   float64  // 周期一致性（0到1）
	CoordinationLevel  float64  // 当前已协调信号机占比（0到1）
	PotentialRating    string   // 潜力评级
	RecommendedActions []string // 改进措施建议
}

// BandwidthAnalysis 绿波带宽扫描分析结果
type BandwidthAnalysis struct {
	SignalChain     []string          // 请求的信号机链
	TotalDistanceM  float64           // 走廊总长度（米）
	AverageCycleS   float64           // 平均周期时长
	Samples         []BandwidthSample // 各候选车速的带宽样本
	Optimal         BandwidthSample   // 带宽效率最高的样本
	BandwidthMeanS  float64           // 带宽均值（秒）
	BandwidthStdS   float64           // 带宽标准差（秒）
	Potential       CoordinationPotential
	Recommendations []string // 优化建议
}

// GreenWavePlan 走廊绿波推进方案
type GreenWavePlan struct {
	CorridorID           string        // 走廊ID
	Signals              []SignalState // 计算时刻各信号机的灯色快照
	OptimalSpeedKmh      float64       // 采用的协调车速
	CoordinationOffsetsS []int         // 逐段累计到达时间（秒，长度n-1）
	SuccessProbability   float64       // 方案成功概率（0到1）
}

// CorridorPerformance 走廊运行表现指标
// 说明：延误、通行量与燃油节省为引擎随机源给出的模拟估计
type CorridorPerformance struct {
	CorridorID                  string    // 走廊ID
	TotalSignals                int       // 信号机总数
	CoordinatedSignals          int       // 已协调信号机数
	CoordinationPercent         float64   // 协调比例（百分比）
	AverageDelayS               float64   // 平均延误（秒）
	ThroughputVPH               int       // 通行量（辆/小时）
	EstimatedFuelSavingsPercent float64   // 估计燃油节省（百分比）
	ComputedAt                  time.Time // 计算时刻
}

// entity/signal/signal.go的依赖倒置
type ISignal interface {
	// 自身属性

	ID() string               // 获取信号机ID
	Name() string             // 获取路口名称
	Position() geo.Point      // 获取信号机坐标
	RoadClass() RoadClass     // 获取所在道路等级
	Timing() SignalTiming     // 获取当前配时方案
	Offset() float64          // 获取相位偏移（秒，[0, Cycle)）
	Coordinated() bool        // 是否参与走廊协调
	CorridorID() string       // 获取所属走廊ID，未加入走廊时为空
	Adaptive() bool           // 是否为自适应（智能）信号机
	PedestrianCrossing() bool // 是否带行人过街相位
	Epoch() time.Time         // 获取周期推算的参考起点时刻

	// 周期推算

	CyclePosition(t time.Time) float64 // 计算t时刻在周期内的位置（秒，[0, Cycle)）
	StateAt(t time.Time) SignalState   // 计算t时刻的灯色快照

	// print

	String() string
}

// entity/corridor/corridor.go的依赖倒置
type ICorridor interface {
	ID() string             // 获取走廊ID
	SignalIDs() []string    // 获取按行进方向排列的信号机ID链
	Distances() []float64   // 获取相邻信号机间距（米，长度n-1）
	TotalDistance() float64 // 获取走廊总长度（米）
	AverageBlock() float64  // 获取平均路段长度（米）
	Len() int               // 获取信号机数量

	String() string
}

// entity/signal/predictor.go的依赖倒置
type IPredictor interface {
	// 预测车辆在arrival时刻到达信号机时的灯色，并给出赶上绿灯的推荐车速
	Predict(sig ISignal, now, arrival time.Time, approachKmh float64) SignalPrediction
}

package corridor

import (
	"flag"
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils"
	"gonum.org/v1/gonum/stat"
)

var (
	speedStepKmh = flag.Int("gw.speed_step", 5, "带宽扫描的候选车速步长（公里/小时）")
)

// Analyzer 绿波带宽分析器
// 功能：在候选车速区间内扫描走廊的绿波带宽，找出最优协调车速
type Analyzer struct {
	ctx entity.ITaskContext
}

// NewAnalyzer 创建绿波带宽分析器实例
func NewAnalyzer(ctx entity.ITaskContext) *Analyzer {
	return &Analyzer{ctx: ctx}
}

// Analyze 扫描候选车速区间内的绿波带宽
// 功能：按步长枚举候选车速并并行计算各车速下的带宽，
// 给出最优车速、带宽统计量、协调潜力评估与优化建议
// 参数：chain-按行进方向排列的信号机ID链，minKmh/maxKmh-候选车速区间（公里/小时）
// 返回：带宽分析结果，区间非法或可解析信号机不足2台时返回错误
// 算法说明：
// 1. 候选车速为[min, max]内以步长递增的整数车速（含端点）
// 2. 带宽效率以60秒带宽为满分归一化，上限100%
// 3. 最优车速取带宽效率最大的样本（并列时取较低车速）
func (a *Analyzer) Analyze(chain []string, minKmh, maxKmh float64) (*entity.BandwidthAnalysis, error) {
	if minKmh >= maxKmh {
		return nil, fmt.Errorf("%w: min %v must be < max %v", entity.ErrInvalidSpeedRange, minKmh, maxKmh)
	}
	signals, missing := a.ctx.SignalManager().Resolve(chain)
	if len(missing) > 0 {
		log.Warnf("ignore unknown signals in chain: %v", missing)
	}
	if len(signals) < 2 {
		return nil, fmt.Errorf("%w: resolved %d of %d", entity.ErrInsufficientSignals, len(signals), len(chain))
	}
	distances := consecutiveDistances(a.ctx.Distance(), signals)

	speeds := make([]float64, 0)
	for v := int(minKmh); v <= int(maxKmh); v += *speedStepKmh {
		speeds = append(speeds, float64(v))
	}
	samples := parallel.GoMap(speeds, func(v float64) entity.BandwidthSample {
		bandwidth := bandwidthForSpeed(signals, distances, v)
		return entity.BandwidthSample{
			SpeedKmh:          v,
			BandwidthS:        bandwidth,
			EfficiencyPercent: math.Min(100, bandwidth/60*100),
		}
	})
	optimal := lo.MaxBy(samples, func(x, y entity.BandwidthSample) bool {
		return x.EfficiencyPercent > y.EfficiencyPercent
	})

	bandwidths := lo.Map(samples, func(s entity.BandwidthSample, _ int) float64 { return s.BandwidthS })
	std := 0.0
	if len(bandwidths) > 1 {
		std = stat.StdDev(bandwidths, nil)
	}
	cycles := lo.SumBy(signals, func(s entity.ISignal) float64 { return s.Timing().Cycle })
	return &entity.BandwidthAnalysis{
		SignalChain:     chain,
		TotalDistanceM:  lo.Sum(distances),
		AverageCycleS:   cycles / float64(len(signals)),
		Samples:         samples,
		Optimal:         optimal,
		BandwidthMeanS:  stat.Mean(bandwidths, nil),
		BandwidthStdS:   std,
		Potential:       assessPotential(signals),
		Recommendations: bandwidthRecommendations(optimal, len(signals)),
	}, nil
}

// bandwidthForSpeed 计算指定车速下的绿波带宽
// 算法说明：带宽受限于链内最短绿灯时长与最长路段行驶时间的80%，下限0
func bandwidthForSpeed(signals []entity.ISignal, distances []float64, speedKmh float64) float64 {
	greens := lo.Map(signals, func(s entity.ISignal, _ int) float64 { return s.Timing().Green })
	travels := lo.Map(distances, func(d float64, _ int) float64 { return d / (speedKmh / 3.6) })
	return math.Max(0, math.Min(lo.Min(greens), lo.Max(travels)*0.8))
}

// assessPotential 评估走廊的协调潜力
// 算法说明：周期一致性=1-(最大周期-最小周期)/最大周期；
// 评级依次按已协调占比>0.8、一致性>0.9、一致性>0.7分档
func assessPotential(signals []entity.ISignal) entity.CoordinationPotential {
	cycles := lo.Map(signals, func(s entity.ISignal, _ int) float64 { return s.Timing().Cycle })
	consistency := 1 - (lo.Max(cycles)-lo.Min(cycles))/lo.Max(cycles)
	coordinated := lo.CountBy(signals, func(s entity.ISignal) bool { return s.Coordinated() })
	level := float64(coordinated) / float64(len(signals))

	var rating string
	switch {
	case level > 0.8:
		rating = "High - Already well coordinated"
	case consistency > 0.9:
		rating = "High - Consistent cycle times"
	case consistency > 0.7:
		rating = "Medium - Some cycle time variation"
	default:
		rating = "Low - Inconsistent timing"
	}
	return entity.CoordinationPotential{
		CycleConsistency:   utils.Round(consistency, 2),
		CoordinationLevel:  utils.Round(level, 2),
		PotentialRating:    rating,
		RecommendedActions: coordinationActions(consistency, level),
	}
}

// coordinationActions 生成协调改进措施清单
func coordinationActions(consistency, level float64) []string {
	actions := make([]string, 0)
	if consistency < 0.8 {
		actions = append(actions, "Standardize signal cycle times across corridor")
	}
	if level < 0.5 {
		actions = append(actions, "Implement basic signal coordination")
	}
	if level < 0.8 {
		actions = append(actions, "Optimize signal offset timing")
	}
	actions = append(actions,
		"Monitor and adjust based on traffic patterns",
		"Consider adaptive signal control systems",
	)
	return actions
}

// bandwidthRecommendations 生成带宽优化建议清单
func bandwidthRecommendations(optimal entity.BandwidthSample, signalCount int) []string {
	recommendations := make([]string, 0)
	if optimal.EfficiencyPercent < 50 {
		recommendations = append(recommendations, "Poor coordination - consider signal timing review")
	}
	if optimal.SpeedKmh < 35 {
		recommendations = append(recommendations, "Consider increasing signal cycle times")
	} else if optimal.SpeedKmh > 65 {
		recommendations = append(recommendations, "Consider reducing signal cycle times")
	}
	recommendations = append(recommendations, fmt.Sprintf("Target speed: %v km/h for optimal flow", optimal.SpeedKmh))
	if signalCount > 5 {
		recommendations = append(recommendations, "Consider splitting into smaller coordination groups")
	}
	return recommendations
}

package engine

import (
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/corridor"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/config"
)

// 带宽扫描的默认车速区间（km/h）
const (
	defaultMinSweepKmh = 40.0
	defaultMaxSweepKmh = 60.0
)

// runAnalysis 执行单个走廊的协调分析
// 功能：依次完成配时优化、绿波方案、推进仿真、带宽扫描与表现评估，
// 关键结果输出到日志，配置了chart时渲染带宽扫描图表
// 参数：a-分析任务配置，车速与密度缺省时回退到全局控制配置
func (ctx *Context) runAnalysis(a config.Analysis) error {
	speed := a.TargetSpeedKmh
	if speed <= 0 {
		speed = ctx.runtimeConfig.C.TargetSpeedKmh
	}
	density := entity.TrafficDensity(a.Density)
	if density == "" {
		density = entity.TrafficDensity(ctx.runtimeConfig.C.Density)
	}
	minKmh := a.MinSpeedKmh
	if minKmh <= 0 {
		minKmh = defaultMinSweepKmh
	}
	maxKmh := a.MaxSpeedKmh
	if maxKmh <= 0 {
		maxKmh = defaultMaxSweepKmh
	}

	c, err := ctx.corridorManager.GetOrError(a.Corridor)
	if err != nil {
		return err
	}

	res, err := corridor.NewOptimizer(ctx).OptimizeCorridor(a.Corridor, speed, density)
	if err != nil {
		return err
	}
	log.Infof(
		"corridor %s: speed %v km/h, efficiency %v, offsets %v, est travel %ds",
		res.CorridorID, res.OptimizedSpeedKmh, res.CoordinationEfficiency,
		res.RecommendedOffsets, res.EstimatedTravelTimeS,
	)

	planner := corridor.NewPlanner(ctx)
	plan, err := planner.PlanGreenWave(a.Corridor, res.OptimizedSpeedKmh)
	if err != nil {
		return err
	}
	log.Infof("corridor %s: green wave success probability %v", a.Corridor, plan.SuccessProbability)

	trace, err := corridor.NewSimulator(ctx).Simulate(a.Corridor, res.OptimizedSpeedKmh, ctx.clock.Now())
	if err != nil {
		return err
	}
	log.Infof(
		"corridor %s: %d/%d green hits (%v%%), %d stops",
		a.Corridor, trace.Summary.GreenHits, trace.Summary.TotalSignals,
		trace.Summary.GreenWaveEfficiencyPercent, trace.Summary.StopsRequired,
	)

	bw, err := corridor.NewAnalyzer(ctx).Analyze(c.SignalIDs(), minKmh, maxKmh)
	if err != nil {
		return err
	}
	log.Infof(
		"corridor %s: optimal bandwidth %vs at %v km/h (%v%%)",
		a.Corridor, bw.Optimal.BandwidthS, bw.Optimal.SpeedKmh, bw.Optimal.EfficiencyPercent,
	)
	if a.Chart != "" {
		if err := renderBandwidthChart(a.Corridor, bw, a.Chart); err != nil {
			log.Errorf("failed to render bandwidth chart: %v", err)
		} else {
			log.Infof("bandwidth chart written to %s", a.Chart)
		}
	}

	perf, err := planner.Performance(a.Corridor)
	if err != nil {
		return err
	}
	log.Infof(
		"corridor %s: coordination %v%%, delay %vs, throughput %d vph",
		a.Corridor, perf.CoordinationPercent, perf.AverageDelayS, perf.ThroughputVPH,
	)
	return nil
}

// Run 运行
// 功能：初始化数据并依次执行配置的走廊分析任务
// 说明：单个走廊分析失败只记录错误，不影响后续任务
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()

	analyses := ctx.runtimeConfig.All.Analyses
	log.Infof("job %s: run %d corridor analyses", ctx.job, len(analyses))
	for _, a := range analyses {
		if err := ctx.runAnalysis(a); err != nil {
			log.Errorf("analysis of corridor %s failed: %v", a.Corridor, err)
		}
	}
	log.Infof("engine complete")
}

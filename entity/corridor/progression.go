package corridor

import (
	"fmt"
	"time"

	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils"
)

// Simulator 绿波推进仿真器
// 功能：仿真一辆虚拟车辆以恒定车速沿走廊行驶，逐个信号机预测到达灯色
type Simulator struct {
	ctx entity.ITaskContext
}

// NewSimulator 创建绿波推进仿真器实例
func NewSimulator(ctx entity.ITaskContext) *Simulator {
	return &Simulator{ctx: ctx}
}

// Simulate 仿真虚拟车辆沿走廊推进
// 功能：从起始时刻出发按走廊缓存间距累计到达时刻，
// 对每台信号机给出到达灯色预测与是否需要停车
// 参数：corridorID-走廊ID，speedKmh-仿真车速，start-出发时刻
// 返回：推进轨迹（逐个相遇记录+整体表现），走廊不存在、
// 信号机不足或车速非正时返回错误
// 说明：预测以出发时刻为基准（推荐车速的可行性按出发时的灯位计算）；
// 首台信号机在出发时刻相遇，累计距离为0
func (s *Simulator) Simulate(corridorID string, speedKmh float64, start time.Time) (*entity.ProgressionTrace, error) {
	if speedKmh <= 0 {
		return nil, fmt.Errorf("%w: speed %v", entity.ErrInvalidSpeedRange, speedKmh)
	}
	c, err := s.ctx.CorridorManager().GetOrError(corridorID)
	if err != nil {
		return nil, err
	}
	signals, missing := s.ctx.SignalManager().Resolve(c.SignalIDs())
	if len(missing) > 0 || len(signals) < 2 {
		return nil, fmt.Errorf("%w: corridor %s resolved %d of %d", entity.ErrInsufficientSignals, corridorID, len(signals), c.Len())
	}
	distances := c.Distances()
	predictor := s.ctx.Predictor()

	encounters := make([]entity.SignalEncounter, 0, len(signals))
	arrival := start
	cumulative := 0.0
	greenHits, stops := 0, 0
	for i, sig := range signals {
		if i > 0 {
			travel := distances[i-1] / (speedKmh / 3.6)
			arrival = arrival.Add(time.Duration(travel * float64(time.Second)))
			cumulative += distances[i-1]
		}
		pred := predictor.Predict(sig, start, arrival, speedKmh)
		stopRequired := pred.State == entity.LightStateRed
		if pred.State == entity.LightStateGreen {
			greenHits++
		}
		if stopRequired {
			stops++
		}
		encounters = append(encounters, entity.SignalEncounter{
			SignalID:            sig.ID(),
			ArrivalTime:         arrival,
			CumulativeDistanceM: int(cumulative),
			PredictedState:      pred.State,
			Confidence:          pred.Confidence,
			RecommendedSpeed:    pred.RecommendedSpeed,
			StopRequired:        stopRequired,
		})
	}

	return &entity.ProgressionTrace{
		CorridorID: corridorID,
		SpeedKmh:   speedKmh,
		StartTime:  start,
		Encounters: encounters,
		Summary: entity.ProgressionSummary{
			TotalSignals:               len(signals),
			GreenHits:                  greenHits,
			StopsRequired:              stops,
			GreenWaveEfficiencyPercent: utils.Round(float64(greenHits)/float64(len(signals))*100, 1),
			TotalTravelTimeS:           int(arrival.Sub(start).Seconds()),
			AverageSpeedKmh:            speedKmh,
		},
	}, nil
}

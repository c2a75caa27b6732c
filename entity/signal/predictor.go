package signal

import (
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils"
)

// 推荐车速的允许范围（km/h）
const (
	minRecommendedSpeed = 20.0
	maxRecommendedSpeed = 60.0
)

// Predictor 信号灯色预测器
// 功能：预测车辆到达时刻的灯色，并给出赶上绿灯窗口的推荐车速
// 说明：推荐车速在当前车速附近施加扰动，扰动源可注入以保证测试确定性
type Predictor struct {
	jitter JitterSource
}

// NewPredictor 创建灯色预测器
// 参数：jitter-推荐车速的扰动源，nil表示不施加扰动
func NewPredictor(jitter JitterSource) *Predictor {
	if jitter == nil {
		jitter = NoJitter{}
	}
	return &Predictor{jitter: jitter}
}

// Predict 预测车辆到达时刻的灯色
// 功能：按到达时刻做周期推算得到预测灯色与置信度，并计算推荐车速
// 参数：sig-信号机，now-当前时刻，arrival-预计到达时刻，approachKmh-当前车速
// 返回：灯色预测结果
// 算法说明：
// 1. 到达时刻早于当前时刻时，距到达秒数记0
// 2. 置信度：绿灯/红灯0.9，黄灯0.8（黄灯窗口短，对推算误差更敏感）
// 3. 推荐车速仅在到达时刻晚于当前时刻且能赶上下一个绿灯窗口时给出
func (p *Predictor) Predict(sig entity.ISignal, now, arrival time.Time, approachKmh float64) entity.SignalPrediction {
	timeToArrival := arrival.Sub(now).Seconds()
	if timeToArrival < 0 {
		timeToArrival = 0
	}
	state := sig.StateAt(arrival).State
	confidence := 0.9
	if state == entity.LightStateYellow {
		confidence = 0.8
	}
	res := entity.SignalPrediction{
		SignalID:      sig.ID(),
		State:         state,
		Confidence:    confidence,
		TimeToArrival: timeToArrival,
	}
	if timeToArrival > 0 {
		if v, ok := p.recommendSpeed(sig, now, timeToArrival, approachKmh); ok {
			res.RecommendedSpeed = &v
		}
	}
	return res
}

// recommendSpeed 计算赶上绿灯窗口的推荐车速
// 算法说明：
// 1. 由当前时刻的周期位置计算下一个绿灯窗口的开启时间
// 2. 到达时间落在窗口开启时间加绿灯时长之内视为可行
// 3. 推荐值为当前车速±扰动，限幅到[20,60]后保留一位小数
func (p *Predictor) recommendSpeed(sig entity.ISignal, now time.Time, timeToArrival, approachKmh float64) (float64, bool) {
	timing := sig.Timing()
	position := sig.CyclePosition(now)
	timeToNextGreen := timing.Cycle - position
	if timeToArrival > timeToNextGreen+timing.Green {
		return 0, false
	}
	v := lo.Clamp(p.jitter.Jitter(approachKmh), minRecommendedSpeed, maxRecommendedSpeed)
	return utils.Round(v, 1), true
}

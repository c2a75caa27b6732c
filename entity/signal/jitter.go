package signal

import (
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/randengine"
)

// JitterSource 扰动源
// 功能：对基准值施加随机扰动，用于模拟配时与车速推荐中的不确定性
// 说明：测试中可注入NoJitter以获得确定性结果
type JitterSource interface {
	// Jitter 对基准值施加扰动并返回结果
	Jitter(base float64) float64
}

// scaleJitter 比例扰动：base×U[1-band,1+band]
type scaleJitter struct {
	engine *randengine.Engine
	band   float64
}

// NewScaleJitter 创建比例扰动源
// 参数：engine-随机数引擎，band-扰动幅度（如0.1表示±10%）
func NewScaleJitter(engine *randengine.Engine, band float64) JitterSource {
	return &scaleJitter{engine: engine, band: band}
}

func (j *scaleJitter) Jitter(base float64) float64 {
	return base * j.engine.UniformSafe(1-j.band, 1+j.band)
}

// shiftJitter 平移扰动：base+U[-band,band]
type shiftJitter struct {
	engine *randengine.Engine
	band   float64
}

// NewShiftJitter 创建平移扰动源
// 参数：engine-随机数引擎，band-扰动幅度（绝对值）
func NewShiftJitter(engine *randengine.Engine, band float64) JitterSource {
	return &shiftJitter{engine: engine, band: band}
}

func (j *shiftJitter) Jitter(base float64) float64 {
	return base + j.engine.UniformSafe(-j.band, j.band)
}

// NoJitter 无扰动源，原样返回基准值
type NoJitter struct{}

func (NoJitter) Jitter(base float64) float64 {
	return base
}

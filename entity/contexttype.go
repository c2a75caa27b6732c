package entity

import (
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/clock"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/randengine"
)

type ITaskContext interface {
	Clock() clock.Clock
	SignalManager() ISignalManager
	CorridorManager() ICorridorManager
	Predictor() IPredictor
	RuntimeConfig() *config.RuntimeConfig
	Distance() geo.DistanceFunc
	Rand() *randengine.Engine
}

package engine

import (
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/clock"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/corridor"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity/signal"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/randengine"
)

// 推荐车速扰动幅度（km/h）
const speedJitterBand = 5.0

// Context 协调任务上下文
// 功能：包含一次协调任务的所有变量和状态，替代原来的全局变量
// 说明：管理引擎的所有组件，包括时钟、管理器、配置、随机源等
type Context struct {

	// 任务名
	job string
	// 缓存文件夹
	cacheDir string

	// 时钟
	clock clock.Clock
	// 全局随机数引擎
	rand *randengine.Engine
	// 距离函数
	distance geo.DistanceFunc

	// Signal管理器
	signalManager entity.ISignalManager
	// Corridor管理器
	corridorManager entity.ICorridorManager
	// 灯色预测器
	predictor entity.IPredictor

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig

	// 用于初始化的输入
	initRes *input.Input
}

// NewContext 创建新的协调任务上下文
// 功能：初始化引擎的所有组件和配置
// 参数：
//   - job: 任务名称
//   - cacheDir: 缓存目录
//   - c: 配置对象
//
// 返回：初始化完成的Context实例
// 算法说明：
// 1. 下载信号机清单与走廊定义数据
// 2. 解析运行时配置：配置了start_time则使用虚拟时钟，否则使用系统时钟
// 3. 按全局种子创建随机数引擎，距离函数取Haversine大圆距离
// 4. 创建各类管理器（信号机、走廊）与灯色预测器
func NewContext(
	job string,
	cacheDir string,
	c config.Config,
) *Context {
	ctx := &Context{
		job:      job,
		cacheDir: cacheDir,
	}

	// 下载所有协调计算所需的数据
	ctx.initRes = input.Init(c, ctx.cacheDir)

	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	if ctx.runtimeConfig.Epoch.IsZero() {
		ctx.clock = clock.NewSystem()
	} else {
		ctx.clock = clock.NewVirtual(ctx.runtimeConfig.Epoch)
	}
	ctx.rand = randengine.New(ctx.runtimeConfig.C.Seed)
	ctx.distance = geo.Haversine

	// 新建各类实体管理器
	ctx.signalManager = signal.NewManager(ctx)
	ctx.corridorManager = corridor.NewManager(ctx)
	ctx.predictor = signal.NewPredictor(signal.NewShiftJitter(ctx.rand, speedJitterBand))

	return ctx
}

func (ctx *Context) Clock() clock.Clock {
	return ctx.clock
}

func (ctx *Context) SignalManager() entity.ISignalManager {
	return ctx.signalManager
}

func (ctx *Context) CorridorManager() entity.ICorridorManager {
	return ctx.corridorManager
}

func (ctx *Context) Predictor() entity.IPredictor {
	return ctx.predictor
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

func (ctx *Context) Distance() geo.DistanceFunc {
	return ctx.distance
}

func (ctx *Context) Rand() *randengine.Engine {
	return ctx.rand
}

func (ctx *Context) Init() {
	initRes := ctx.initRes

	log.Infof("Signal: %v", len(initRes.Signals))
	log.Infof("Corridor: %v", len(initRes.Corridors))

	// 先完成signal的所有初始化
	ctx.signalManager.Init(initRes.Signals, ctx.clock.Now())
	// 在建立好signal的基础上构建走廊
	ctx.corridorManager.Init(initRes.Corridors)
}

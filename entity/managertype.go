package entity

import (
	"time"

	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
)

// Manager依赖倒置

// entity/signal/manager.go的依赖倒置
type ISignalManager interface {
	Init(docs []*input.SignalDoc, epoch time.Time) // 初始化

	// 输入信号机ID，查找信号机，如果不存在则panic
	Get(id string) ISignal
	// 输入信号机ID，查找信号机，如果不存在则返回error
	GetOrError(id string) (ISignal, error)
	// 批量解析ID链，返回找到的信号机与缺失的ID；ids为空则返回全部
	Resolve(ids []string) (signals []ISignal, missing []string)

	Signals() []ISignal // 获取当前快照中的所有信号机（按注册顺序）
	Count() int         // 获取信号机数量
	Version() uint64    // 获取当前快照版本号

	// 注册新信号机，重复ID或配时非法时返回error
	Register(doc *input.SignalDoc, at time.Time) (ISignal, error)
	// 注销信号机，仍属于某走廊时返回error
	Deregister(id string) error
	// 替换配时方案，参考起点重置为at
	Retime(id string, timing SignalTiming, at time.Time) (ISignal, error)
	// 按车流量与行人数自适应调整绿灯时长
	RetimeAdaptive(id string, trafficVolume, pedestrianCount int, at time.Time) (*RetimeReport, error)
	// 按时段（高峰/平峰）切换到对应等级的配时方案
	RetimeForHour(id string, at time.Time) (*RetimeReport, error)

	// 查询中心点半径范围内的信号机，按距离从近到远排序
	Nearby(center geo.Point, radiusKm float64) []SignalDistance
	// 查询路线缓冲带内的信号机，按命中的路线点顺序排列
	AlongRoute(route []geo.Point, bufferM float64) []ISignal
}

// entity/corridor/manager.go的依赖倒置
type ICorridorManager interface {
	Init(docs []*input.CorridorDoc) // 初始化

	// 输入走廊ID，查找走廊，如果不存在则panic
	Get(id string) ICorridor
	// 输入走廊ID，查找走廊，如果不存在则返回error
	GetOrError(id string) (ICorridor, error)

	Corridors() []ICorridor // 获取当前快照中的所有走廊（按登记顺序）
	Count() int             // 获取走廊数量
	Version() uint64        // 获取当前快照版本号

	// 登记新走廊，重复ID或信号机不足时返回error
	Build(id string, signalIDs []string) (ICorridor, error)
	// 以新的信号机链替换已有走廊定义
	Rebuild(id string, signalIDs []string) (ICorridor, error)
	// 检查信号机是否被任一走廊引用
	References(signalID string) bool
}

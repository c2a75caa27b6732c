package corridor

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
)

// Corridor 走廊实体
// 功能：存储一条协调走廊的信号机链与几何信息
// 说明：实体不可变，信号机链只记录ID，灯色与配时在查询时
// 经SignalManager解析，保证配时调整后走廊计算使用最新快照；
// 相邻间距由坐标决定，构建时一次性计算并缓存
type Corridor struct {
	id            string    // 走廊ID
	signalIDs     []string  // 按行进方向排列的信号机ID链
	distances     []float64 // 相邻信号机间距（米，长度n-1）
	totalDistance float64   // 走廊总长度（米）
}

// newCorridor 创建并初始化一个新的Corridor实例
// 功能：校验信号机链并计算相邻间距
// 参数：ctx-任务上下文，id-走廊ID，signalIDs-信号机ID链
// 返回：初始化完成的Corridor实例，链过短、信号机不存在或ID重复时返回错误
func newCorridor(ctx entity.ITaskContext, id string, signalIDs []string) (*Corridor, error) {
	if len(signalIDs) < 2 {
		return nil, fmt.Errorf("%w: corridor %s has %d signals", entity.ErrCorridorTooShort, id, len(signalIDs))
	}
	if len(lo.Uniq(signalIDs)) != len(signalIDs) {
		return nil, fmt.Errorf("corridor %s has duplicated signal ids in chain", id)
	}
	signals := make([]entity.ISignal, 0, len(signalIDs))
	for _, sid := range signalIDs {
		s, err := ctx.SignalManager().GetOrError(sid)
		if err != nil {
			return nil, fmt.Errorf("corridor %s: %w", id, err)
		}
		signals = append(signals, s)
	}
	distances := consecutiveDistances(ctx.Distance(), signals)
	return &Corridor{
		id:            id,
		signalIDs:     signalIDs,
		distances:     distances,
		totalDistance: lo.Sum(distances),
	}, nil
}

// consecutiveDistances 计算相邻信号机间距（米，长度n-1）
func consecutiveDistances(distance geo.DistanceFunc, signals []entity.ISignal) []float64 {
	distances := make([]float64, 0, len(signals)-1)
	for i := 0; i < len(signals)-1; i++ {
		distances = append(distances, distance(signals[i].Position(), signals[i+1].Position()))
	}
	return distances
}

// ID 获取走廊的唯一标识符
// 返回：走廊ID，如果走廊为nil则返回空字符串
func (c *Corridor) ID() string {
	if c == nil {
		return ""
	}
	return c.id
}

// SignalIDs 获取按行进方向排列的信号机ID链
func (c *Corridor) SignalIDs() []string {
	return c.signalIDs
}

// Distances 获取相邻信号机间距（米，长度n-1）
func (c *Corridor) Distances() []float64 {
	return c.distances
}

// TotalDistance 获取走廊总长度（米）
func (c *Corridor) TotalDistance() float64 {
	return c.totalDistance
}

// AverageBlock 获取平均路段长度（米）
func (c *Corridor) AverageBlock() float64 {
	return c.totalDistance / float64(len(c.distances))
}

// Len 获取信号机数量
func (c *Corridor) Len() int {
	return len(c.signalIDs)
}

func (c *Corridor) String() string {
	return fmt.Sprintf("Corridor{id=%s, signals=%v, length=%vm}", c.id, c.signalIDs, c.totalDistance)
}

package corridor

import (
	"fmt"
	"sync"
	"sync/atomic"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
)

// snapshot 走廊注册表的一致性快照
// 说明：快照不可变，写入时整体复制并原子替换，读者无需加锁
type snapshot struct {
	version uint64               // 快照版本号，每次写入递增
	data    map[string]*Corridor // 走廊ID->走廊映射表
	ordered []*Corridor          // 按登记顺序排列的走廊列表
}

// Corridor管理器
type CorridorManager struct {
	ctx entity.ITaskContext

	snap atomic.Pointer[snapshot]
	mtx  sync.Mutex // 写者互斥
}

// NewManager 创建Corridor管理器实例
// 功能：初始化Corridor管理器，创建空的注册表快照
// 参数：ctx-任务上下文
// 返回：新创建的Corridor管理器实例
func NewManager(ctx entity.ITaskContext) *CorridorManager {
	m := &CorridorManager{ctx: ctx}
	m.snap.Store(&snapshot{
		version: 0,
		data:    make(map[string]*Corridor),
		ordered: make([]*Corridor, 0),
	})
	return m
}

// Init 初始化所有Corridor
// 功能：根据输入记录并行构造所有走廊实体并建立注册表
// 参数：docs-走廊输入记录列表
// 说明：必须在SignalManager初始化之后调用；记录非法或引用
// 不存在的信号机时panic（启动期数据错误不可恢复）
func (m *CorridorManager) Init(docs []*input.CorridorDoc) {
	corridors := parallel.GoMap(docs, func(doc *input.CorridorDoc) *Corridor {
		c, err := newCorridor(m.ctx, doc.ID, doc.SignalIDs)
		if err != nil {
			log.Panicf("failed to init corridor: %v", err)
		}
		return c
	})
	data := lo.SliceToMap(corridors, func(c *Corridor) (string, *Corridor) {
		return c.id, c
	})
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.snap.Store(&snapshot{
		version: m.snap.Load().version + 1,
		data:    data,
		ordered: corridors,
	})
	log.Infof("init %d corridors", len(corridors))
}

// Get 根据ID获取Corridor实例
// 功能：通过走廊ID查找对应的Corridor对象，如果不存在则panic
// 参数：id-走廊的唯一标识符
// 返回：对应的Corridor实例，如果不存在则panic
func (m *CorridorManager) Get(id string) entity.ICorridor {
	if c, ok := m.snap.Load().data[id]; !ok {
		log.Panicf("no id %s in corridor data", id)
		return nil
	} else {
		return c
	}
}

// GetOrError 根据ID获取Corridor实例（带错误处理）
// 功能：通过走廊ID查找对应的Corridor对象，如果不存在则返回错误
// 参数：id-走廊的唯一标识符
// 返回：Corridor实例和错误信息，如果不存在则返回nil和包装后的ErrCorridorNotFound
func (m *CorridorManager) GetOrError(id string) (entity.ICorridor, error) {
	if c, ok := m.snap.Load().data[id]; !ok {
		return nil, fmt.Errorf("%w: no id %s in corridor data", entity.ErrCorridorNotFound, id)
	} else {
		return c, nil
	}
}

// Corridors 获取全部走廊列表（按登记顺序）
func (m *CorridorManager) Corridors() []entity.ICorridor {
	return lo.Map(m.snap.Load().ordered, func(c *Corridor, _ int) entity.ICorridor { return c })
}

// Count 获取走廊数量
func (m *CorridorManager) Count() int {
	return len(m.snap.Load().ordered)
}

// Version 获取当前注册表快照版本号
func (m *CorridorManager) Version() uint64 {
	return m.snap.Load().version
}

// Build 登记新走廊
// 功能：在运行期以信号机链定义一条新走廊
// 参数：id-走廊ID，signalIDs-按行进方向排列的信号机ID链
// 返回：登记完成的走廊，ID重复、链非法或信号机不存在时返回错误
func (m *CorridorManager) Build(id string, signalIDs []string) (entity.ICorridor, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	old := m.snap.Load()
	if _, ok := old.data[id]; ok {
		return nil, fmt.Errorf("%w: id %s", entity.ErrDuplicateCorridor, id)
	}
	c, err := newCorridor(m.ctx, id, signalIDs)
	if err != nil {
		return nil, err
	}
	data := make(map[string]*Corridor, len(old.data)+1)
	for k, v := range old.data {
		data[k] = v
	}
	data[c.id] = c
	ordered := make([]*Corridor, 0, len(old.ordered)+1)
	ordered = append(ordered, old.ordered...)
	ordered = append(ordered, c)
	m.snap.Store(&snapshot{version: old.version + 1, data: data, ordered: ordered})
	log.Infof("build corridor %s with %d signals", c.id, c.Len())
	return c, nil
}

// Rebuild 重定义已有走廊
// 功能：以新的信号机链替换走廊定义，间距重新计算
// 参数：id-走廊ID，signalIDs-新的信号机ID链
// 返回：替换后的走廊，走廊不存在、链非法或信号机不存在时返回错误
func (m *CorridorManager) Rebuild(id string, signalIDs []string) (entity.ICorridor, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	old := m.snap.Load()
	if _, ok := old.data[id]; !ok {
		return nil, fmt.Errorf("%w: no id %s in corridor data", entity.ErrCorridorNotFound, id)
	}
	c, err := newCorridor(m.ctx, id, signalIDs)
	if err != nil {
		return nil, err
	}
	data := make(map[string]*Corridor, len(old.data))
	for k, v := range old.data {
		data[k] = v
	}
	data[c.id] = c
	ordered := make([]*Corridor, len(old.ordered))
	for i, oc := range old.ordered {
		if oc.id == id {
			ordered[i] = c
		} else {
			ordered[i] = oc
		}
	}
	m.snap.Store(&snapshot{version: old.version + 1, data: data, ordered: ordered})
	log.Infof("rebuild corridor %s with %d signals", c.id, c.Len())
	return c, nil
}

// References 检查信号机是否被任一走廊引用
// 说明：用于信号机注销前的约束检查，被引用的信号机不可注销
func (m *CorridorManager) References(signalID string) bool {
	for _, c := range m.snap.Load().ordered {
		if lo.Contains(c.signalIDs, signalID) {
			return true
		}
	}
	return false
}

package signal

import (
	"flag"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"git.fiblab.net/general/common/v2/mathutil"
	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/geo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
)

var (
	defaultNearbyRadiusKm = flag.Float64("signal.nearby_radius_km", 2, "附近信号机检索的默认半径（公里）")
	defaultRouteBufferM   = flag.Float64("signal.route_buffer_m", 100, "沿路线检索信号机的缓冲距离（米）")
)

// snapshot 信号机注册表的一致性快照
// 说明：快照不可变，写入时整体复制并原子替换，读者无需加锁
type snapshot struct {
	version uint64             // 快照版本号，每次写入递增
	data    map[string]*Signal // 信号机ID->信号机映射表
	ordered []*Signal          // 按注册顺序排列的信号机列表
}

// Signal管理器
type SignalManager struct {
	ctx entity.ITaskContext

	snap atomic.Pointer[snapshot]
	mtx  sync.Mutex // 写者互斥
}

// NewManager 创建Signal管理器实例
// 功能：初始化Signal管理器，创建空的注册表快照
// 参数：ctx-任务上下文
// 返回：新创建的Signal管理器实例
func NewManager(ctx entity.ITaskContext) *SignalManager {
	m := &SignalManager{ctx: ctx}
	m.snap.Store(&snapshot{
		version: 0,
		data:    make(map[string]*Signal),
		ordered: make([]*Signal, 0),
	})
	return m
}

// Init 初始化所有Signal
// 功能：根据输入记录并行构造所有信号机实体并建立注册表
// 参数：docs-信号机输入记录列表，epoch-周期推算的参考起点
// 说明：使用并行处理提高初始化效率；记录非法时panic（启动期数据错误不可恢复）
func (m *SignalManager) Init(docs []*input.SignalDoc, epoch time.Time) {
	signals := parallel.GoMap(docs, func(doc *input.SignalDoc) *Signal {
		s, err := newSignal(doc, epoch)
		if err != nil {
			log.Panicf("failed to init signal: %v", err)
		}
		return s
	})
	data := lo.SliceToMap(signals, func(s *Signal) (string, *Signal) {
		return s.id, s
	})
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.snap.Store(&snapshot{
		version: m.snap.Load().version + 1,
		data:    data,
		ordered: signals,
	})
	log.Infof("init %d signals", len(signals))
}

// Get 根据ID获取Signal实例
// 功能：通过信号机ID查找对应的Signal对象，如果不存在则panic
// 参数：id-信号机的唯一标识符
// 返回：对应的Signal实例，如果不存在则panic
func (m *SignalManager) Get(id string) entity.ISignal {
	if s, ok := m.snap.Load().data[id]; !ok {
		log.Panicf("no id %s in signal data", id)
		return nil
	} else {
		return s
	}
}

// GetOrError 根据ID获取Signal实例（带错误处理）
// 功能：通过信号机ID查找对应的Signal对象，如果不存在则返回错误
// 参数：id-信号机的唯一标识符
// 返回：Signal实例和错误信息，如果不存在则返回nil和包装后的ErrSignalNotFound
func (m *SignalManager) GetOrError(id string) (entity.ISignal, error) {
	if s, ok := m.snap.Load().data[id]; !ok {
		return nil, fmt.Errorf("%w: no id %s in signal data", entity.ErrSignalNotFound, id)
	} else {
		return s, nil
	}
}

// Resolve 批量解析信号机ID
// 功能：将ID列表解析为信号机列表，缺失的ID单独收集
// 参数：ids-信号机ID列表，为空时返回全部信号机
// 返回：解析成功的信号机列表与未命中的ID列表
func (m *SignalManager) Resolve(ids []string) ([]entity.ISignal, []string) {
	snap := m.snap.Load()
	ok, failed := utils.Find(snap.data, snap.ordered, ids)
	return lo.Map(ok, func(s *Signal, _ int) entity.ISignal { return s }), failed
}

// Signals 获取全部信号机列表（按注册顺序）
func (m *SignalManager) Signals() []entity.ISignal {
	return lo.Map(m.snap.Load().ordered, func(s *Signal, _ int) entity.ISignal { return s })
}

// Count 获取信号机数量
func (m *SignalManager) Count() int {
	return len(m.snap.Load().ordered)
}

// Version 获取当前注册表快照版本号
func (m *SignalManager) Version() uint64 {
	return m.snap.Load().version
}

// Register 注册新信号机
// 功能：在运行期向注册表追加一台信号机
// 参数：doc-信号机输入记录，at-周期推算的参考起点
// 返回：注册完成的信号机，ID重复或记录非法时返回错误
func (m *SignalManager) Register(doc *input.SignalDoc, at time.Time) (entity.ISignal, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	old := m.snap.Load()
	if _, ok := old.data[doc.ID]; ok {
		return nil, fmt.Errorf("%w: id %s", entity.ErrDuplicateSignal, doc.ID)
	}
	s, err := newSignal(doc, at)
	if err != nil {
		return nil, err
	}
	data := make(map[string]*Signal, len(old.data)+1)
	for k, v := range old.data {
		data[k] = v
	}
	data[s.id] = s
	ordered := make([]*Signal, 0, len(old.ordered)+1)
	ordered = append(ordered, old.ordered...)
	ordered = append(ordered, s)
	m.snap.Store(&snapshot{version: old.version + 1, data: data, ordered: ordered})
	log.Infof("register signal %s", s.id)
	return s, nil
}

// Deregister 注销信号机
// 功能：从注册表移除一台信号机
// 参数：id-信号机的唯一标识符
// 返回：nil表示注销成功；信号机不存在或仍被走廊引用时返回错误
func (m *SignalManager) Deregister(id string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	old := m.snap.Load()
	if _, ok := old.data[id]; !ok {
		return fmt.Errorf("%w: no id %s in signal data", entity.ErrSignalNotFound, id)
	}
	if m.ctx.CorridorManager().References(id) {
		return fmt.Errorf("%w: id %s", entity.ErrCorridorMembership, id)
	}
	data := make(map[string]*Signal, len(old.data)-1)
	for k, v := range old.data {
		if k != id {
			data[k] = v
		}
	}
	ordered := make([]*Signal, 0, len(old.ordered)-1)
	for _, s := range old.ordered {
		if s.id != id {
			ordered = append(ordered, s)
		}
	}
	m.snap.Store(&snapshot{version: old.version + 1, data: data, ordered: ordered})
	log.Infof("deregister signal %s", id)
	return nil
}

// Retime 替换信号机配时方案
// 功能：以写时复制方式替换单台信号机的配时，参考起点重置为调整时刻
// 参数：id-信号机ID，timing-新配时方案，at-调整时刻
// 返回：替换后的信号机，信号机不存在或方案非法时返回错误
func (m *SignalManager) Retime(id string, timing entity.SignalTiming, at time.Time) (entity.ISignal, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	s, ok := m.snap.Load().data[id]
	if !ok {
		return nil, fmt.Errorf("%w: no id %s in signal data", entity.ErrSignalNotFound, id)
	}
	if err := ValidateTiming(timing); err != nil {
		return nil, fmt.Errorf("signal %s: %w", id, err)
	}
	ns := s.retimed(timing, at)
	m.replaceLocked(ns)
	return ns, nil
}

// RetimeAdaptive 按交通流量与行人数量自适应调整配时
// 功能：由当前配时与实时交通条件计算新的绿灯时长并替换配时
// 参数：id-信号机ID，trafficVolume-交通流量，pedestrianCount-等待行人数，at-调整时刻
// 返回：调整报告（含前后配时与效率增益），信号机不存在时返回错误
func (m *SignalManager) RetimeAdaptive(id string, trafficVolume, pedestrianCount int, at time.Time) (*entity.RetimeReport, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	s, ok := m.snap.Load().data[id]
	if !ok {
		return nil, fmt.Errorf("%w: no id %s in signal data", entity.ErrSignalNotFound, id)
	}
	before := s.timing
	after, gain := AdjustTiming(before, trafficVolume, pedestrianCount, s.pedestrianCrossing)
	m.replaceLocked(s.retimed(after, at))
	log.Debugf("adaptive retime signal %s: cycle %vs -> %vs", id, before.Cycle, after.Cycle)
	return &entity.RetimeReport{
		SignalID:              id,
		Before:                before,
		After:                 after,
		TrafficVolume:         trafficVolume,
		PedestrianCount:       pedestrianCount,
		EfficiencyGainPercent: gain,
		At:                    at,
	}, nil
}

// RetimeForHour 按所在时段刷新配时
// 功能：按道路等级与当前小时选择高峰/平峰方案并替换配时，
// 自适应信号机在此基础上施加高峰调节与随机扰动
// 参数：id-信号机ID，at-调整时刻（小时取自该时刻）
// 返回：调整报告，信号机不存在时返回错误
func (m *SignalManager) RetimeForHour(id string, at time.Time) (*entity.RetimeReport, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	s, ok := m.snap.Load().data[id]
	if !ok {
		return nil, fmt.Errorf("%w: no id %s in signal data", entity.ErrSignalNotFound, id)
	}
	before := s.timing
	after := TimingForHour(s.roadClass, at.Hour(), s.adaptive, NewScaleJitter(s.generator, *smartJitterBand))
	m.replaceLocked(s.retimed(after, at))
	gain := utils.Round(mathutil.Abs(before.Cycle-after.Cycle)/before.Cycle*100, 1)
	return &entity.RetimeReport{
		SignalID:              id,
		Before:                before,
		After:                 after,
		EfficiencyGainPercent: gain,
		At:                    at,
	}, nil
}

// replaceLocked 以写时复制方式替换单个信号机，调用前必须持有mtx
func (m *SignalManager) replaceLocked(ns *Signal) {
	old := m.snap.Load()
	data := make(map[string]*Signal, len(old.data))
	for k, v := range old.data {
		data[k] = v
	}
	data[ns.id] = ns
	ordered := make([]*Signal, len(old.ordered))
	for i, s := range old.ordered {
		if s.id == ns.id {
			ordered[i] = ns
		} else {
			ordered[i] = s
		}
	}
	m.snap.Store(&snapshot{version: old.version + 1, data: data, ordered: ordered})
}

// Nearby 检索查询点附近的信号机
// 功能：按注入的距离函数过滤半径内的信号机并按距离排序
// 参数：center-查询点坐标，radiusKm-检索半径（公里），非正值时使用默认半径
// 返回：按距离从近到远排列的信号机及距离列表
func (m *SignalManager) Nearby(center geo.Point, radiusKm float64) []entity.SignalDistance {
	if radiusKm <= 0 {
		radiusKm = *defaultNearbyRadiusKm
	}
	distance := m.ctx.Distance()
	res := make([]entity.SignalDistance, 0)
	for _, s := range m.snap.Load().ordered {
		d := distance(center, s.position) / 1000
		if d <= radiusKm {
			res = append(res, entity.SignalDistance{Signal: s, DistanceKm: d})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].DistanceKm < res[j].DistanceKm
	})
	return res
}

// AlongRoute 检索路线沿途的信号机
// 功能：检索距路线任一坐标点不超过缓冲距离的信号机
// 参数：route-路线坐标点列表，bufferM-缓冲距离（米），非正值时使用默认缓冲
// 返回：按命中的路线点顺序排列的沿途信号机列表（每台至多出现一次）
func (m *SignalManager) AlongRoute(route []geo.Point, bufferM float64) []entity.ISignal {
	if bufferM <= 0 {
		bufferM = *defaultRouteBufferM
	}
	distance := m.ctx.Distance()
	ordered := m.snap.Load().ordered
	seen := make(map[string]struct{})
	res := make([]entity.ISignal, 0)
	for _, p := range route {
		for _, s := range ordered {
			if _, ok := seen[s.id]; ok {
				continue
			}
			if distance(p, s.position) <= bufferM {
				seen[s.id] = struct{}{}
				res = append(res, s)
			}
		}
	}
	return res
}

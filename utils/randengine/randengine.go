// 随机数引擎，包装了golang.org/x/exp/rand，提供了一些常用的随机数生成方法
package randengine

import (
	"flag"
	"hash/fnv"
	"sync"

	"golang.org/x/exp/rand"
)

var (
	seedOffset = flag.Uint64("rand.seed_offset", 0, "seed offset") // 种子偏移量，用于调整随机数生成
)

// Engine 随机数引擎
// 功能：提供高质量的随机数生成功能，支持线程安全操作
// 说明：基于golang.org/x/exp/rand库，提供更丰富的随机数生成接口
type Engine struct {
	*rand.Rand            // 底层随机数生成器
	mtx        sync.Mutex // 互斥锁，用于线程安全操作
}

// New 创建随机数引擎
// 功能：初始化一个新的随机数引擎实例
// 参数：seed-随机数种子
// 返回：随机数引擎指针
// 说明：种子偏移量允许在不修改代码的情况下调整随机数序列
func New(seed uint64) *Engine {
	return &Engine{Rand: rand.New(rand.NewSource(seed + *seedOffset))}
}

// NewFromString 以字符串为种子创建随机数引擎
// 功能：将字符串ID经FNV-1a散列为64位种子后创建引擎
// 参数：seed-种子字符串（通常为实体ID）
// 返回：随机数引擎指针
// 说明：同一ID总是产生同一随机序列，保证初始化结果可复现
func NewFromString(seed string) *Engine {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return New(h.Sum64())
}

// PTrue 以指定概率返回true（非线程安全）
// 功能：根据给定概率返回布尔值
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
// 说明：实现伯努利分布，用于模拟概率事件
func (e *Engine) PTrue(p float64) bool {
	return e.Float64() < p
}

// PTrueSafe 以指定概率返回true（线程安全）
// 功能：根据给定概率返回布尔值，支持多线程安全访问
// 参数：p-返回true的概率（0.0到1.0之间）
// 返回：true或false
// 说明：线程安全版本的PTrue方法
func (e *Engine) PTrueSafe(p float64) bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64() < p
}

// IntnSafe 随机生成整数（线程安全）
// 功能：在指定范围内生成随机整数，支持多线程安全访问
// 参数：n-范围上限（不包含）
// 返回：[0, n)范围内的随机整数
// 说明：线程安全版本的Intn方法
func (e *Engine) IntnSafe(n int) int {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Intn(n)
}

// Float64Safe 随机生成浮点数（线程安全）
// 功能：生成[0.0, 1.0)范围内的随机浮点数，支持多线程安全访问
// 返回：[0.0, 1.0)范围内的随机浮点数
// 说明：线程安全版本的Float64方法
func (e *Engine) Float64Safe() float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return e.Float64()
}

// Uniform 生成[lo, hi)范围内的均匀分布随机浮点数（非线程安全）
// 参数：lo-下界，hi-上界
// 返回：[lo, hi)范围内的随机浮点数
func (e *Engine) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*e.Float64()
}

// UniformSafe 生成[lo, hi)范围内的均匀分布随机浮点数（线程安全）
// 参数：lo-下界，hi-上界
// 返回：[lo, hi)范围内的随机浮点数
// 说明：线程安全版本的Uniform方法
func (e *Engine) UniformSafe(lo, hi float64) float64 {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	return lo + (hi-lo)*e.Float64()
}

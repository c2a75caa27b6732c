package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock 时间源接口
// 功能：为引擎提供"当前时刻"，使所有时间推算都基于显式传入的时间
// 说明：周期推算本身是纯函数，时钟只负责给出查询时刻，便于测试与回放
type Clock interface {
	Now() time.Time
}

// SystemClock 系统时钟
// 说明：直接返回操作系统时间，用于在线运行
type SystemClock struct{}

// NewSystem 创建系统时钟
func NewSystem() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// VirtualClock 虚拟时钟
// 功能：维护一个可手动推进的时刻，支持确定性仿真与测试
// 说明：Advance按秒推进，保持与配置中的时间步长一致
type VirtualClock struct {
	mtx sync.Mutex
	t   time.Time
}

// NewVirtual 创建虚拟时钟
// 参数：start-起始时刻
// 返回：初始化完成的虚拟时钟实例
func NewVirtual(start time.Time) *VirtualClock {
	return &VirtualClock{t: start}
}

func (c *VirtualClock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.t
}

// Advance 推进虚拟时钟
// 参数：dt-推进的秒数
// 返回：推进后的时刻
func (c *VirtualClock) Advance(dt float64) time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.t = c.t.Add(time.Duration(dt * float64(time.Second)))
	return c.t
}

// Set 设置虚拟时钟到指定时刻
func (c *VirtualClock) Set(t time.Time) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.t = t
}

// String 获取时钟的字符串表示
// 功能：将当前时刻格式化为可读的字符串
// 返回：格式化的时间字符串（HH:MM:SS）
func (c *VirtualClock) String() string {
	t := c.Now()
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}

// HourMinuteSecond 获取当前时刻的小时、分钟、秒
// 返回：小时、分钟、秒（秒为浮点数，支持亚秒级精度）
func (c *VirtualClock) HourMinuteSecond() (int, int, float64) {
	t := c.Now()
	return t.Hour(), t.Minute(), float64(t.Second()) + float64(t.Nanosecond())/1e9
}

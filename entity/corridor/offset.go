package corridor

import (
	"math"

	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils"
)

// SafeOffset 计算下游信号机的绿波相位差
// 功能：由两台信号机的间距与期望车速推算行驶时间，对下游周期取模得到相位差
// 参数：distanceM-信号机间距（米），speedKmh-平均车速（公里/小时），cycleS-下游信号机周期（秒）
// 返回：相位差（秒，[0, cycle)，向下取整）
// 说明：车速或周期非正时返回0而非报错，调用方据此回退到不协调方案
func SafeOffset(distanceM, speedKmh, cycleS float64) int {
	if speedKmh <= 0 || cycleS <= 0 {
		return 0
	}
	travel := distanceM / (speedKmh / 3.6)
	return int(utils.FloorMod(travel, cycleS))
}

// OffsetEfficiency 计算相位差占周期的比例
// 功能：衡量两台信号机间距对绿波协调的利用程度，行驶时间达到一个周期时记满
// 参数：与SafeOffset相同
// 返回：效率（0到1），退化输入时返回0
func OffsetEfficiency(distanceM, speedKmh, cycleS float64) float64 {
	if speedKmh <= 0 || cycleS <= 0 {
		return 0
	}
	travel := distanceM / (speedKmh / 3.6)
	return math.Min(1, travel/cycleS)
}

// 地理坐标工具，提供经纬度点类型与球面距离计算
package geo

import "math"

// 地球平均半径（千米）
const earthRadiusKm = 6371.0

// Point 经纬度坐标点（WGS84，角度制）
type Point struct {
	Lat float64 // 纬度
	Lng float64 // 经度
}

// DistanceFunc 计算两点间地面距离（米）的函数类型
// 说明：作为外部依赖注入到上下文中，默认实现为Haversine大圆距离
type DistanceFunc func(a, b Point) float64

// Haversine 计算两点间大圆距离
// 功能：基于Haversine公式计算球面距离
// 参数：a/b-经纬度坐标点
// 返回：距离（米）
func Haversine(a, b Point) float64 {
	return HaversineKm(a, b) * 1000
}

// HaversineKm 计算两点间大圆距离（千米）
// 算法说明：
// 1. 经纬度转弧度
// 2. h = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlng/2)
// 3. d = 2R·asin(√h)
func HaversineKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lng1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lng2 := b.Lng * math.Pi / 180

	dLat := lat2 - lat1
	dLng := lng2 - lng1
	h := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

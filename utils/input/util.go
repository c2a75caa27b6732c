package input

import (
	"fmt"
	"os"
)

// checkSignalDoc 检查信号机记录有效性
// 功能：验证信号机记录的字段范围是否合法
// 参数：doc-信号机记录
// 返回：nil表示记录有效，否则返回具体错误
// 说明：道路等级与配时一致性由信号机管理器负责，此处只做结构性检查
func checkSignalDoc(doc *SignalDoc) error {
	if doc.ID == "" {
		return fmt.Errorf("empty signal id")
	}
	if doc.Latitude < -90 || doc.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", doc.Latitude)
	}
	if doc.Longitude < -180 || doc.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", doc.Longitude)
	}
	if doc.Cycle < 0 || doc.Green < 0 || doc.Yellow < 0 || doc.Red < 0 {
		return fmt.Errorf("negative timing duration")
	}
	if doc.Offset != nil && *doc.Offset < 0 {
		return fmt.Errorf("negative phase offset %v", *doc.Offset)
	}
	return nil
}

// checkCorridorDoc 检查走廊记录有效性
// 功能：验证走廊记录的信号机链是否合法
// 参数：doc-走廊记录
// 返回：nil表示记录有效，否则返回具体错误
func checkCorridorDoc(doc *CorridorDoc) error {
	if doc.ID == "" {
		return fmt.Errorf("empty corridor id")
	}
	if len(doc.SignalIDs) < 2 {
		return fmt.Errorf("corridor needs at least 2 signals, got %d", len(doc.SignalIDs))
	}
	seen := make(map[string]struct{}, len(doc.SignalIDs))
	for _, id := range doc.SignalIDs {
		if id == "" {
			return fmt.Errorf("empty signal id in chain")
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicated signal id %s in chain", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// preCheckCache 预检查缓存目录
// 功能：验证输入缓存目录的有效性，决定是否启用缓存功能
// 参数：cacheDir-缓存目录路径
// 返回：true表示启用缓存，false表示禁用缓存
// 算法说明：
// 1. 检查缓存目录是否为空：空则禁用缓存
// 2. 检查目录是否存在：使用os.Stat检查路径状态
// 3. 验证是否为目录：确保路径指向的是目录而不是文件
// 4. 记录日志：根据检查结果输出相应的日志信息
// 说明：确保缓存功能的正确配置，避免因无效路径导致的错误
func preCheckCache(cacheDir string) bool {
	if cacheDir == "" {
		log.Info("disable input cache")
		return false
	} else {
		if stat, err := os.Stat(cacheDir); err == nil && stat.IsDir() {
			// 文件夹存在
			log.Infof("enable input cache at %s", cacheDir)
			return true
		} else {
			log.Errorf("disable input cache because invalid dir %s (not exist or file)", cacheDir)
			return false
		}
	}
}

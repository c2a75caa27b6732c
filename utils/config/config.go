package config

import (
	"log"
	"time"
)

// RuntimeConfig 运行时配置
// 功能：存储引擎运行时的配置信息，包含解析后的参考时刻
// 说明：将YAML配置转换为运行时可用的配置对象
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置

	Epoch time.Time // 解析后的参考起始时刻，零值表示未配置（使用系统时间）
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，进行配置验证与默认值填充
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 算法说明：
// 1. 设置默认值：协调车速默认50km/h，交通密度默认moderate
// 2. 解析参考时刻：start_time按RFC3339解析，解析失败则panic
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	rc.All = config
	rc.C = config.Control
	if rc.C.TargetSpeedKmh <= 0 {
		rc.C.TargetSpeedKmh = 50
	}
	if rc.C.Density == "" {
		rc.C.Density = "moderate"
	}
	if s := config.Control.StartTime; s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			log.Panicf("config: bad start_time %q: %v", s, err)
		}
		rc.Epoch = t
	}

	return rc
}

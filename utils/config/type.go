package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：支持MongoDB数据库和文件系统两种数据源，支持缓存机制
type InputPath struct {
	DB        string   `yaml:"db"`                   // 数据库名
	Col       string   `yaml:"col"`                  // 集合名
	Cache     string   `yaml:"cache,omitempty"`      // 缓存文件名，为空则采用默认路径{db}.{col}.yml
	OnlyCache bool     `yaml:"only_cache,omitempty"` // 只从缓存中获取
	File      string   `yaml:"file,omitempty"`       // 文件路径（优先级高于MongoDB）
	Files     []string `yaml:"files,omitempty"`      // 文件路径列表（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// GetCachePath 获取缓存文件路径
// 算法说明：
// 1. 如果指定了缓存路径，直接返回
// 2. 否则使用默认命名规则：{数据库名}.{集合名}.yml
func (p InputPath) GetCachePath() string {
	if p.Cache != "" {
		return p.Cache
	}
	return p.DB + "." + p.Col + ".yml"
}

// Input 指定引擎所有输入数据的配置项
// 说明：包含信号机清单与走廊定义两类输入数据的配置
type Input struct {
	URI       string     `yaml:"uri"`                 // MongoDB连接字符串
	Signals   InputPath  `yaml:"signals"`             // 信号机清单
	Corridors *InputPath `yaml:"corridors,omitempty"` // 走廊定义
}

// Control 引擎控制配置
// 说明：包含参考时刻、随机种子、默认协调参数等核心配置
type Control struct {
	StartTime      string  `yaml:"start_time,omitempty"`       // 参考起始时刻（RFC3339），为空则使用系统当前时间
	Seed           uint64  `yaml:"seed,omitempty"`             // 全局随机种子
	TargetSpeedKmh float64 `yaml:"target_speed_kmh,omitempty"` // 默认协调车速（km/h），为空则取50
	Density        string  `yaml:"density,omitempty"`          // 默认交通密度（light/moderate/heavy）
}

// Analysis 一次走廊分析任务的配置项
// 说明：引擎启动后按顺序执行配置的分析任务并输出结果
type Analysis struct {
	Corridor       string  `yaml:"corridor"`                   // 待分析的走廊ID
	TargetSpeedKmh float64 `yaml:"target_speed_kmh,omitempty"` // 协调车速，为空则取全局默认
	Density        string  `yaml:"density,omitempty"`          // 交通密度，为空则取全局默认
	MinSpeedKmh    float64 `yaml:"min_speed_kmh,omitempty"`    // 带宽扫描的最低车速，为空则取40
	MaxSpeedKmh    float64 `yaml:"max_speed_kmh,omitempty"`    // 带宽扫描的最高车速，为空则取60
	Chart          string  `yaml:"chart,omitempty"`            // 带宽扫描图表的输出路径（HTML），为空则不输出
}

// Config YAML配置文件的根结构
type Config struct {
	Input    Input      `yaml:"input"`              // 输入
	Control  Control    `yaml:"control"`            // 引擎控制
	Analyses []Analysis `yaml:"analyses,omitempty"` // 启动后执行的分析任务
}

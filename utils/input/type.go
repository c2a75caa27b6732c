package input

// SignalDoc 信号机清单记录
// 功能：描述一台信号机的静态属性与配时参数
// 说明：可从YAML文件或MongoDB集合加载；配时字段缺省时由管理器按道路等级填充默认方案
type SignalDoc struct {
	ID                 string   `yaml:"id" bson:"signal_id"`                                                 // 信号机ID（唯一）
	Name               string   `yaml:"name,omitempty" bson:"intersection_name,omitempty"`                  // 路口名称，为空则使用ID
	Latitude           float64  `yaml:"latitude" bson:"latitude"`                                           // 纬度
	Longitude          float64  `yaml:"longitude" bson:"longitude"`                                         // 经度
	RoadClass          string   `yaml:"road_class,omitempty" bson:"road_class,omitempty"`                   // 道路等级
	Cycle              float64  `yaml:"cycle_seconds,omitempty" bson:"cycle_time_seconds,omitempty"`        // 周期时长（秒）
	Green              float64  `yaml:"green_seconds,omitempty" bson:"green_duration,omitempty"`            // 绿灯时长（秒）
	Yellow             float64  `yaml:"yellow_seconds,omitempty" bson:"yellow_duration,omitempty"`          // 黄灯时长（秒）
	Red                float64  `yaml:"red_seconds,omitempty" bson:"red_duration,omitempty"`                // 红灯时长（秒）
	Offset             *float64 `yaml:"phase_offset_seconds,omitempty" bson:"phase_offset_seconds,omitempty"` // 相位偏移（秒），缺省则由ID派生
	Coordinated        bool     `yaml:"is_coordinated,omitempty" bson:"is_coordinated,omitempty"`           // 是否参与走廊协调
	CorridorID         string   `yaml:"corridor_id,omitempty" bson:"corridor_id,omitempty"`                 // 所属走廊ID
	Adaptive           bool     `yaml:"adaptive,omitempty" bson:"adaptive,omitempty"`                       // 是否为自适应（智能）信号机
	PedestrianCrossing bool     `yaml:"pedestrian_crossing,omitempty" bson:"pedestrian_crossing,omitempty"` // 是否带行人过街相位
}

// CorridorDoc 走廊定义记录
// 说明：信号机ID按行进方向排列
type CorridorDoc struct {
	ID        string   `yaml:"id" bson:"corridor_id"`        // 走廊ID（唯一）
	SignalIDs []string `yaml:"signal_ids" bson:"signal_ids"` // 信号机ID链
}

package input_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/config"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/utils/input"
)

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitFromFiles(t *testing.T) {
	signalPath := writeFile(t, "signals.yml", `signals:
  - id: TL001
    latitude: 28.6315
    longitude: 77.2167
    road_class: major_arterial
    cycle_seconds: 120
    green_seconds: 60
    yellow_seconds: 4
    red_seconds: 56
    is_coordinated: true
  - id: TL002
    latitude: 28.6289
    longitude: 77.2065
  - id: TL900
    latitude: 95
    longitude: 77.2
  - id: TL901
    latitude: 28.6
    longitude: 77.2
    phase_offset_seconds: -5
`)
	corridorPath := writeFile(t, "corridors.yml", `corridors:
  - id: corridor_1
    signal_ids: [TL001, TL002]
  - id: corridor_bad
    signal_ids: [TL001]
`)
	c := config.Config{Input: config.Input{
		Signals:   config.InputPath{File: signalPath},
		Corridors: &config.InputPath{File: corridorPath},
	}}
	res := input.Init(c, "")

	// 纬度越界、相位偏移为负的记录被跳过
	require.Len(t, res.Signals, 2)
	assert.Equal(t, "TL001", res.Signals[0].ID)
	assert.True(t, res.Signals[0].Coordinated)
	assert.Equal(t, 120.0, res.Signals[0].Cycle)
	// 配时字段缺省合法，由管理器按道路等级补默认方案
	assert.Equal(t, 0.0, res.Signals[1].Cycle)

	// 信号机不足2台的走廊被跳过
	require.Len(t, res.Corridors, 1)
	assert.Equal(t, []string{"TL001", "TL002"}, res.Corridors[0].SignalIDs)
}

func TestInitMultipleSignalFiles(t *testing.T) {
	a := writeFile(t, "a.yml", "signals:\n  - id: TL001\n    latitude: 28.6\n    longitude: 77.2\n")
	b := writeFile(t, "b.yml", "signals:\n  - id: TL002\n    latitude: 28.7\n    longitude: 77.3\n")
	c := config.Config{Input: config.Input{Signals: config.InputPath{Files: []string{a, b}}}}

	res := input.Init(c, "")
	require.Len(t, res.Signals, 2)
	assert.Equal(t, "TL002", res.Signals[1].ID)
}

func TestInitDuplicateSignalPanics(t *testing.T) {
	signalPath := writeFile(t, "signals.yml", `signals:
  - id: TL001
    latitude: 28.6
    longitude: 77.2
  - id: TL001
    latitude: 28.7
    longitude: 77.3
`)
	c := config.Config{Input: config.Input{Signals: config.InputPath{File: signalPath}}}
	assert.Panics(t, func() { input.Init(c, "") })
}

func TestInitMissingFilePanics(t *testing.T) {
	c := config.Config{Input: config.Input{Signals: config.InputPath{File: "nope.yml"}}}
	assert.Panics(t, func() { input.Init(c, "") })
}

package engine

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/greenwave-sim-oss/entity"
)

// renderBandwidthChart 将带宽扫描结果渲染为HTML折线图
// 功能：横轴为候选车速，两条折线分别为绿波带宽（秒）与带宽效率（百分比）
// 参数：corridorID-走廊ID，res-带宽分析结果，path-输出文件路径
func renderBandwidthChart(corridorID string, res *entity.BandwidthAnalysis, path string) error {
	speeds := lo.Map(res.Samples, func(s entity.BandwidthSample, _ int) float64 { return s.SpeedKmh })
	bandwidths := lo.Map(res.Samples, func(s entity.BandwidthSample, _ int) opts.LineData {
		return opts.LineData{Value: s.BandwidthS}
	})
	efficiencies := lo.Map(res.Samples, func(s entity.BandwidthSample, _ int) opts.LineData {
		return opts.LineData{Value: s.EfficiencyPercent}
	})

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Green Wave Bandwidth", Width: "900px", Height: "500px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Corridor %s", corridorID),
			Subtitle: fmt.Sprintf("optimal %v km/h, bandwidth %vs", res.Optimal.SpeedKmh, res.Optimal.BandwidthS),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "speed (km/h)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "bandwidth (s)"}),
	)
	line.SetXAxis(speeds).
		AddSeries("bandwidth", bandwidths).
		AddSeries("efficiency", efficiencies)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}

/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

import (
	"bytes"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type chartRenderer interface {
	Render(w io.Writer) error
}

func chartHTML(r chartRenderer) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func baseInit(chartID, height string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:           "100%",
		Height:          height,
		ChartID:         chartID,
		BackgroundColor: "transparent",
	})
}

// buildTrendChart is the shared line-chart shape for the dashboard grid
// tiles and the biomarker detail page: values over time with the
// reference bounds dashed in and abnormal results overlaid as
// highlighted points.
func buildTrendChart(cfg ThemeConfig, s BiomarkerSeries, chartID, height string, showTitle bool) *charts.Line {
	labels := make([]string, len(s.Dates))
	for i, d := range s.Dates {
		labels[i] = FormatDateLabel(d)
	}

	line := charts.NewLine()
	globalOpts := []charts.GlobalOpts{
		baseInit(chartID, height),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: cfg.ChartTextMuted},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: cfg.ChartAxis}},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Scale:     opts.Bool(true),
			Name:      s.Unit,
			AxisLabel: &opts.AxisLabel{Color: cfg.ChartTextMuted},
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: cfg.ChartGrid},
			},
		}),
	}
	if showTitle {
		globalOpts = append(globalOpts, charts.WithTitleOpts(opts.Title{
			Title:      s.Name,
			TitleStyle: &opts.TextStyle{Color: cfg.ChartText},
		}))
	}
	line.SetGlobalOptions(globalOpts...)

	data := make([]opts.LineData, s.Len())
	for i, v := range s.Values {
		data[i] = opts.LineData{Value: v}
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(true),
			ShowSymbol: opts.Bool(true),
		}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Normal}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: cfg.Normal}),
	}

	// Reference bounds come from the latest result that has them.
	if refMin, refMax, ok := latestBounds(s); ok {
		markData := make([]interface{}, 0, 2)
		if refMin.Valid {
			markData = append(markData, opts.MarkLineNameYAxisItem{Name: "Min", YAxis: refMin.Value})
		}
		if refMax.Valid {
			markData = append(markData, opts.MarkLineNameYAxisItem{Name: "Max", YAxis: refMax.Value})
		}
		seriesOpts = append(seriesOpts, func(sr *charts.SingleSeries) {
			sr.MarkLines = &opts.MarkLines{
				Data: markData,
				MarkLineStyle: opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Color: cfg.ReferenceLine,
						Type:  "dashed",
						Width: 1.5,
					},
				},
			}
		})
	}

	line.AddSeries(s.Name, data, seriesOpts...)

	if hasAbnormal(s) {
		scatterData := make([]opts.ScatterData, s.Len())
		for i := range s.Values {
			if s.AbnormalAt(i) {
				scatterData[i] = opts.ScatterData{Value: s.Values[i], SymbolSize: 12}
			} else {
				scatterData[i] = opts.ScatterData{Value: "-"}
			}
		}
		scatter := charts.NewScatter()
		scatter.AddSeries("Abnormal", scatterData,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Abnormal}))
		line.Overlap(scatter)
	}

	return line
}

func latestBounds(s BiomarkerSeries) (Sample, Sample, bool) {
	for i := s.Len() - 1; i >= 0; i-- {
		if s.RefMin[i].Valid || s.RefMax[i].Valid {
			return s.RefMin[i], s.RefMax[i], true
		}
	}
	return NoSample, NoSample, false
}

func hasAbnormal(s BiomarkerSeries) bool {
	for _, a := range s.Abnormal {
		if a {
			return true
		}
	}
	return false
}

// BuildGridChart renders one dashboard tile.
func BuildGridChart(cfg ThemeConfig, s BiomarkerSeries) *charts.Line {
	return buildTrendChart(cfg, s, "chart_grid_"+s.Code, "220px", true)
}

// BuildDetailChart renders the full-width trend on a biomarker page.
func BuildDetailChart(cfg ThemeConfig, d DetailData) *charts.Line {
	return buildTrendChart(cfg, d.Series, "chart_detail_"+d.Series.Code, "380px", false)
}

// BuildCategoryHealthChart renders the per-category radar, one
// indicator per biomarker category scored 0-100.
func BuildCategoryHealthChart(cfg ThemeConfig, d CategoryHealthData) *charts.Radar {
	indicators := make([]*opts.Indicator, len(d.Categories))
	for i, name := range d.Categories {
		indicators[i] = &opts.Indicator{Name: name, Max: 100}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		baseInit("chart_category_health", "320px"),
		charts.WithTitleOpts(opts.Title{
			Title:      "Category Health",
			TitleStyle: &opts.TextStyle{Color: cfg.ChartText},
		}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: indicators,
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: cfg.ChartGrid},
			},
		}),
	)
	radar.AddSeries("Health", []opts.RadarData{{Value: d.Scores}},
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Normal}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: cfg.Normal}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}),
	)
	return radar
}

// BuildResultCountsChart renders the normal/abnormal donut.
func BuildResultCountsChart(cfg ThemeConfig, d ResultCountsData) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		baseInit("chart_result_counts", "320px"),
		charts.WithTitleOpts(opts.Title{
			Title:      "Latest Results",
			TitleStyle: &opts.TextStyle{Color: cfg.ChartText},
		}),
		charts.WithColorsOpts(opts.Colors{cfg.Normal, cfg.Abnormal}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: cfg.ChartTextMuted},
		}),
	)
	pie.AddSeries("Results", []opts.PieData{
		{Name: "Normal", Value: d.Normal},
		{Name: "Abnormal", Value: d.Abnormal},
	},
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Color: cfg.ChartTextMuted}),
	)
	return pie
}

// BuildHealthScoreChart renders the overall 0-100 score gauge.
func BuildHealthScoreChart(cfg ThemeConfig, score float64) *charts.Gauge {
	gauge := charts.NewGauge()
	gauge.SetGlobalOptions(
		baseInit("chart_health_score", "320px"),
		charts.WithTitleOpts(opts.Title{
			Title:      "Health Score",
			TitleStyle: &opts.TextStyle{Color: cfg.ChartText},
		}),
	)
	gauge.AddSeries("Score", []opts.GaugeData{{Name: "Score", Value: score}})
	return gauge
}

// BuildDeviationChart renders the worst out-of-range results as a bar
// chart of signed percentage deviation from the nearer bound.
func BuildDeviationChart(cfg ThemeConfig, d DeviationData) *charts.Bar {
	names := make([]string, len(d.Items))
	data := make([]opts.BarData, len(d.Items))
	for i, item := range d.Items {
		names[i] = item.Name
		data[i] = opts.BarData{Value: item.DeviationPct}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		baseInit("chart_critical_deviation", "320px"),
		charts.WithTitleOpts(opts.Title{
			Title:      "Strongest Deviations",
			TitleStyle: &opts.TextStyle{Color: cfg.ChartText},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: cfg.ChartTextMuted, Rotate: 30},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "value",
			Name:      "% beyond bound",
			AxisLabel: &opts.AxisLabel{Color: cfg.ChartTextMuted},
			SplitLine: &opts.SplitLine{
				Show:      opts.Bool(true),
				LineStyle: &opts.LineStyle{Color: cfg.ChartGrid},
			},
		}),
	)
	bar.SetXAxis(names)
	bar.AddSeries("Deviation", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.Abnormal}))
	return bar
}

// DeviationPercent computes how far a value sits beyond its reference
// range, as a signed percentage of the violated bound. Values inside
// the range or without usable bounds score zero.
func DeviationPercent(value float64, refMin, refMax Sample) float64 {
	if refMax.Valid && refMax.Value != 0 && value > refMax.Value {
		return (value - refMax.Value) / refMax.Value * 100
	}
	if refMin.Valid && refMin.Value != 0 && value < refMin.Value {
		return (value - refMin.Value) / refMin.Value * 100
	}
	return 0
}

/*
 * Copyright 2025 Luís Teixeira
 * SPDX-License-Identifier: Apache-2.0
 */
package dashboard

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// FormatDateLabel converts an ISO date key into the day/month/2-digit
// year label the charts display. Unparseable input passes through
// unchanged.
func FormatDateLabel(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/06")
}

// BuildComparisonChart constructs the comparison line chart for the
// aligned series in the decided render mode. In dual-axis mode the
// first series owns the left scale and the second an independent right
// scale, both in original units. In normalized mode all series share a
// 0-100 reference-relative percentage scale, with the 0/100 band
// marked. Colors follow selection order through the theme palette.
func BuildComparisonChart(cfg ThemeConfig, aligned AlignedComparisonData, mode RenderMode) *charts.Line {
	labels := make([]string, len(aligned.Dates))
	for i, d := range aligned.Dates {
		labels[i] = FormatDateLabel(d)
	}

	line := charts.NewLine()

	yAxisName := "% of reference"
	if mode.Kind == ModeDualAxis && len(aligned.Series) > 0 {
		yAxisName = aligned.Series[0].Unit
	}

	primaryAxis := opts.YAxis{
		Type:      "value",
		Name:      yAxisName,
		AxisLabel: &opts.AxisLabel{Color: cfg.ChartTextMuted},
		AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: cfg.ChartAxis}},
		SplitLine: &opts.SplitLine{
			Show:      opts.Bool(true),
			LineStyle: &opts.LineStyle{Color: cfg.ChartGrid},
		},
	}
	if mode.Kind == ModeDualAxis {
		primaryAxis.AxisLabel.Color = cfg.SeriesColor(0)
		primaryAxis.AxisLine.LineStyle.Color = cfg.SeriesColor(0)
	}

	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "100%",
			Height:          "420px",
			ChartID:         "chart_comparison",
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      "Biomarker Comparison",
			TitleStyle: &opts.TextStyle{Color: cfg.ChartText},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "axis",
			Formatter: opts.FuncOpts(ComparisonTooltipFormatter(aligned, mode.Kind == ModeNormalized)),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Top:       "bottom",
			TextStyle: &opts.TextStyle{Color: cfg.ChartTextMuted},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			AxisLabel: &opts.AxisLabel{Color: cfg.ChartTextMuted},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: cfg.ChartAxis}},
		}),
		charts.WithYAxisOpts(primaryAxis),
	)

	if mode.Kind == ModeDualAxis && len(aligned.Series) > 1 {
		line.ExtendYAxis(opts.YAxis{
			Type:      "value",
			Name:      aligned.Series[1].Unit,
			Position:  "right",
			AxisLabel: &opts.AxisLabel{Color: cfg.SeriesColor(1)},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: cfg.SeriesColor(1)}},
			SplitLine: &opts.SplitLine{Show: opts.Bool(false)},
		})
	}

	line.SetXAxis(labels)

	for i, s := range aligned.Series {
		values := s.Values
		if mode.Kind == ModeNormalized {
			values = NormalizeSeries(s)
		}

		data := make([]opts.LineData, len(values))
		for j, v := range values {
			data[j] = opts.LineData{Value: v.ChartValue()}
		}

		color := cfg.SeriesColor(i)
		axisIndex := 0
		if mode.Kind == ModeDualAxis && i == 1 {
			axisIndex = 1
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(true),
				YAxisIndex: axisIndex,
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		}

		// Mark the 0-100 "within reference" band once, on the first
		// normalized series.
		if mode.Kind == ModeNormalized && i == 0 {
			seriesOpts = append(seriesOpts, func(s *charts.SingleSeries) {
				s.MarkLines = &opts.MarkLines{
					Data: []interface{}{
						opts.MarkLineNameYAxisItem{Name: "Lower bound", YAxis: 0},
						opts.MarkLineNameYAxisItem{Name: "Upper bound", YAxis: 100},
					},
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
	}

	return line
}

type tooltipSeries struct {
	Unit   string        `json:"unit"`
	Values []interface{} `json:"values"`
}

// ComparisonTooltipFormatter generates the JS tooltip formatter for a
// comparison chart. It always reports the original unit-bearing value,
// looked up from the aligned raw data rather than the plotted series;
// in normalized mode the plotted percentage is appended
// parenthetically.
func ComparisonTooltipFormatter(aligned AlignedComparisonData, normalized bool) string {
	raw := make(map[string]tooltipSeries, len(aligned.Series))
	for _, s := range aligned.Series {
		values := make([]interface{}, len(s.Values))
		for i, v := range s.Values {
			if v.Valid {
				values[i] = v.Value
			}
		}
		raw[s.Name] = tooltipSeries{Unit: s.Unit, Values: values}
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		encoded = []byte("{}")
	}

	percent := ""
	if normalized {
		percent = " if (typeof p.value === 'number') { line += ' (' + p.value.toFixed(0) + '%)'; }"
	}

	return fmt.Sprintf(`function (params) {
	var raw = %s;
	if (!Array.isArray(params)) { params = [params]; }
	var lines = [];
	if (params.length > 0) { lines.push(params[0].axisValueLabel || params[0].name); }
	for (var i = 0; i < params.length; i++) {
		var p = params[i];
		var entry = raw[p.seriesName];
		if (!entry) { continue; }
		var v = entry.values[p.dataIndex];
		if (v === null || v === undefined) { continue; }
		var line = p.marker + ' ' + p.seriesName + ': ' + v + (entry.unit ? ' ' + entry.unit : '');%s
		lines.push(line);
	}
	return lines.join('<br/>');
}`, encoded, percent)
}

package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"
)

// RenderBarChart writes an HTML page with one bar series per state, grouped
// by action.
func RenderBarChart(w io.Writer, values [][]float64, title string) error {
	if len(values) == 0 {
		return errors.New("report: nothing to plot")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d states, %d actions", len(values), len(values[0])),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	actions := make([]string, len(values[0]))
	for a := range actions {
		actions[a] = fmt.Sprintf("a%d", a)
	}
	bar.SetXAxis(actions)

	for i, row := range values {
		items := make([]opts.BarData, 0, len(row))
		for _, v := range row {
			items = append(items, opts.BarData{Value: v})
		}
		bar.AddSeries(fmt.Sprintf("state %d", i), items)
	}

	page := components.NewPage()
	page.AddCharts(bar)
	return errors.Wrap(page.Render(w), "render chart")
}
